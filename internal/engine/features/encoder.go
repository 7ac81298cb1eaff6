package features

import (
	"fmt"
	"sort"

	"github.com/wonny/tradewise/backend/internal/contracts"
)

// LabelEncoder maps categorical values to integer indices.
// Fit extends the vocabulary; Transform rejects values never seen at fit time.
// 인덱스는 한번 부여되면 변하지 않음 (번들 간 호환성)
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder creates an empty encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{index: make(map[string]int)}
}

// NewLabelEncoderFromVocab restores an encoder from a saved vocabulary.
func NewLabelEncoderFromVocab(vocab map[string]int) *LabelEncoder {
	e := NewLabelEncoder()
	e.classes = make([]string, len(vocab))
	for value, idx := range vocab {
		e.index[value] = idx
		if idx >= 0 && idx < len(e.classes) {
			e.classes[idx] = value
		}
	}
	return e
}

// Fit adds the distinct values of a batch to the vocabulary. New values are
// appended in sorted order so a given corpus always produces the same table.
func (e *LabelEncoder) Fit(values []string) {
	var fresh []string
	seen := make(map[string]bool)
	for _, v := range values {
		if _, ok := e.index[v]; !ok && !seen[v] {
			fresh = append(fresh, v)
			seen[v] = true
		}
	}
	sort.Strings(fresh)
	for _, v := range fresh {
		e.index[v] = len(e.classes)
		e.classes = append(e.classes, v)
	}
}

// Transform returns the index of a value.
func (e *LabelEncoder) Transform(value string) (int, error) {
	idx, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", contracts.ErrUnknownCategory, value)
	}
	return idx, nil
}

// Len returns the vocabulary size.
func (e *LabelEncoder) Len() int {
	return len(e.classes)
}

// Vocab returns a copy of the vocabulary table.
func (e *LabelEncoder) Vocab() map[string]int {
	out := make(map[string]int, len(e.index))
	for k, v := range e.index {
		out[k] = v
	}
	return out
}
