package submit

import "errors"

var (
	ErrDeliveryFailed   = errors.New("submission delivery failed")
	ErrPermanentFailure = errors.New("submission rejected by endpoint")
	ErrTemporaryFailure = errors.New("temporary submission failure")
	ErrTimeout          = errors.New("submission request timeout")
	ErrInvalidURL       = errors.New("invalid submission URL")
	ErrInvalidSignature = errors.New("invalid submission signature")
)
