package contracts

import "errors"

var (
	// ErrNotTrained predict가 학습되지 않은 모델로 호출됨
	ErrNotTrained = errors.New("model not trained")

	// ErrUnknownCategory 학습 시점 vocabulary에 없는 카테고리 값
	ErrUnknownCategory = errors.New("unknown category value")

	// ErrInvalidFeature 파생 피처 계산 불가 (0 또는 누락된 분모)
	ErrInvalidFeature = errors.New("invalid feature value")

	// ErrEmptyTrainingSet 학습 테이블에 행이 없음
	ErrEmptyTrainingSet = errors.New("empty training set")

	// ErrMissingTarget 타깃 컬럼이 하나도 없음
	ErrMissingTarget = errors.New("missing target column")

	// ErrInvalidWeights 랭킹 가중치 합이 1.0이 아님
	ErrInvalidWeights = errors.New("invalid ranking weights")

	// ErrIncompatibleBundle 번들 스키마 버전 불일치
	ErrIncompatibleBundle = errors.New("incompatible model bundle")

	// ErrBundleNotFound 저장소에 번들 키가 없음
	ErrBundleNotFound = errors.New("model bundle not found")
)
