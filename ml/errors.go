package ml

import "errors"

var (
	ErrArtifactNotFound  = errors.New("model artifact not found")
	ErrDeserialization   = errors.New("model artifact is not a valid model")
	ErrSchemaMismatch    = errors.New("feature schema mismatch")
	ErrInvalidPrediction = errors.New("model produced an invalid prediction")
)
