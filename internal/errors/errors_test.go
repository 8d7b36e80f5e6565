package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := New(CodeInvalidDimension, "width must be positive")
	want := "[INVALID_DIMENSION] width must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAppErrorMetadataAndCause(t *testing.T) {
	cause := fmt.Errorf("no such file")
	err := Wrap(cause, CodeImageOpen, "open image").
		WithMetadata("path", "a.png").
		WithMetadata(MetaArg, ArgImage)

	msg := err.Error()
	if !strings.Contains(msg, "{arg=IMAGE path=a.png}") {
		t.Errorf("Error() = %q, want sorted metadata", msg)
	}
	if !strings.Contains(msg, "caused by: no such file") {
		t.Errorf("Error() = %q, want cause", msg)
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap should return cause")
	}
}

func TestWithMetadataCopies(t *testing.T) {
	base := New(CodeImageOpen, "open image").WithMetadata("path", "a.png")
	decorated := base.WithMetadata(MetaArg, ArgCompareImage)

	if _, ok := base.Metadata[MetaArg]; ok {
		t.Errorf("base metadata = %v, want it unchanged", base.Metadata)
	}
	if ExitCode(base) != 7 || ExitCode(decorated) != 7 {
		t.Errorf("exit codes = %d, %d", ExitCode(base), ExitCode(decorated))
	}
	if decorated.Metadata["path"] != "a.png" || decorated.Metadata[MetaArg] != ArgCompareImage {
		t.Errorf("decorated metadata = %v", decorated.Metadata)
	}

	first := base.WithMetadata(MetaArg, ArgImage)
	if ExitCode(first) != 6 || ExitCode(decorated) != 7 {
		t.Errorf("siblings share metadata: %v, %v", first.Metadata, decorated.Metadata)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeLengthMismatch, "length mismatch")
	err := fmt.Errorf("compare: %w", Newf(CodeLengthMismatch, "%d != %d", 64, 256))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match wrapped AppError by code")
	}
	if stderrors.Is(err, New(CodeInvalidEncoding, "")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeInvalidFilter, "bad filter"))
	if !IsCode(err, CodeInvalidFilter) {
		t.Error("IsCode should find wrapped code")
	}
	if IsCode(err, CodeInvalidAlgorithm) {
		t.Error("IsCode should not match other code")
	}
	if IsCode(fmt.Errorf("plain"), CodeUnknown) {
		t.Error("IsCode should be false for non-AppError")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("boom"), 1},
		{"width", New(CodeInvalidWidth, ""), 1},
		{"height", New(CodeInvalidHeight, ""), 2},
		{"filter", New(CodeInvalidFilter, ""), 3},
		{"algorithm", New(CodeInvalidAlgorithm, ""), 4},
		{"missing", New(CodeMissingImage, ""), 5},
		{"open first", New(CodeImageOpen, "").WithMetadata(MetaArg, ArgImage), 6},
		{"open second", New(CodeImageOpen, "").WithMetadata(MetaArg, ArgCompareImage), 7},
		{"open no arg", New(CodeImageOpen, ""), 6},
		{"mismatch", New(CodeLengthMismatch, ""), 8},
		{"config", New(CodeConfigInvalid, ""), 9},
		{"wrapped", fmt.Errorf("x: %w", New(CodeInvalidAlgorithm, "")), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCodeString(t *testing.T) {
	if CodeInvalidConfiguration.String() != "INVALID_CONFIGURATION" {
		t.Errorf("String() = %q", CodeInvalidConfiguration.String())
	}
	if Code(99).String() != "CODE(99)" {
		t.Errorf("String() = %q, want CODE(99)", Code(99).String())
	}
}
