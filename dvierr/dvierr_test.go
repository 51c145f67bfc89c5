package dvierr

import (
	"errors"
	"testing"
)

func TestOutOfBoundsKind(t *testing.T) {
	err := OutOfBounds()
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("OutOfBounds() is not a *Error: %v", err)
	}
	if de.Kind != IndexOutOfBounds {
		t.Errorf("Kind = %v, want IndexOutOfBounds", de.Kind)
	}
}

func TestUnknownOpOpcode(t *testing.T) {
	err := UnknownOp(0xFB)
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("UnknownOp() is not a *Error: %v", err)
	}
	if de.Opcode != 0xFB {
		t.Errorf("Opcode = %#x, want 0xFB", de.Opcode)
	}
	if de.Kind != UnknownOpcode {
		t.Errorf("Kind = %v, want UnknownOpcode", de.Kind)
	}
}

func TestUtf8ErrorUnwraps(t *testing.T) {
	cause := errors.New("invalid byte sequence")
	err := Utf8Error(cause)
	if !errors.Is(err, cause) {
		t.Errorf("Utf8Error(cause) does not unwrap to cause")
	}
}
