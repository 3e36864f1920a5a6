package processor

import (
	"errors"
	"testing"
)

func TestAlignErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	ae := WrapAlignError(ProcessingFailed, "wrapping", cause)
	if !errors.Is(ae, cause) {
		t.Fatal("expected errors.Is to see through AlignError.Unwrap to the cause")
	}
}

func TestAlignErrorNoCauseStillFormats(t *testing.T) {
	ae := NewAlignError(InvalidInput, "bad input")
	if ae.Error() == "" {
		t.Fatal("expected a non-empty error string")
	}
	if ae.Unwrap() != nil {
		t.Fatal("expected Unwrap to return nil when no cause was wrapped")
	}
}

func TestCancelledErrorIsInsufficientData(t *testing.T) {
	ae := cancelledError()
	if ae.Kind != InsufficientData || !ae.Cancelled {
		t.Fatalf("expected cancelledError to be InsufficientData with Cancelled=true, got %+v", ae)
	}
}

func TestErrorKindDescribeNeverEmpty(t *testing.T) {
	kinds := []ErrorKind{Success, InvalidInput, InsufficientData, ProcessingFailed, OutOfMemory, UnsupportedFormat, ErrorKind(99)}
	for _, k := range kinds {
		if k.Describe() == "" {
			t.Errorf("ErrorKind(%d).Describe() returned empty string", k)
		}
		if k.String() == "" {
			t.Errorf("ErrorKind(%d).String() returned empty string", k)
		}
	}
}
