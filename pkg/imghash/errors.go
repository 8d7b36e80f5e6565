package imghash

import apperrors "github.com/KevinGliewe/imghash/internal/errors"

// Sentinels for errors.Is. Any error returned by this package with the same
// code matches them. They are for matching only; return a fresh error built
// with the same code instead of returning or decorating a sentinel.
var (
	ErrInvalidDimension     = apperrors.New(apperrors.CodeInvalidDimension, "invalid dimension")
	ErrInvalidConfiguration = apperrors.New(apperrors.CodeInvalidConfiguration, "invalid configuration")
	ErrLengthMismatch       = apperrors.New(apperrors.CodeLengthMismatch, "fingerprint length mismatch")
	ErrInvalidEncoding      = apperrors.New(apperrors.CodeInvalidEncoding, "invalid fingerprint encoding")
)
