package wire

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/anirudhraja/iltags/ilint"
)

func TestErrorKinds(t *testing.T) {
	if !errors.Is(ErrUnexpectedEnd, io.ErrUnexpectedEOF) {
		t.Error("ErrUnexpectedEnd should match io.ErrUnexpectedEOF")
	}
	if !errors.Is(ErrValueOverflow, ilint.ErrOverflow) {
		t.Error("ErrValueOverflow should match ilint.ErrOverflow")
	}
	if errors.Is(ErrCorruptedData, ErrUnexpectedEnd) {
		t.Error("ErrCorruptedData must not match ErrUnexpectedEnd")
	}
}

func TestIOError(t *testing.T) {
	tests := []struct {
		op        string
		isRead    bool
		isWrite   bool
		wantInMsg string
	}{
		{op: "read", isRead: true, wantInMsg: "read failure"},
		{op: "seek", isRead: true, wantInMsg: "seek failure"},
		{op: "write", isWrite: true, wantInMsg: "write failure"},
		{op: "flush", isWrite: true, wantInMsg: "flush failure"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			err := error(&IOError{Op: tt.op, Err: os.ErrPermission})
			if got := errors.Is(err, ErrReadFailure); got != tt.isRead {
				t.Errorf("errors.Is(ErrReadFailure) = %v, want %v", got, tt.isRead)
			}
			if got := errors.Is(err, ErrWriteFailure); got != tt.isWrite {
				t.Errorf("errors.Is(ErrWriteFailure) = %v, want %v", got, tt.isWrite)
			}
			if !errors.Is(err, os.ErrPermission) {
				t.Error("underlying error should stay reachable")
			}
			if !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("message %q should contain %q", err.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestWrapRead(t *testing.T) {
	if wrapRead("read", nil) != nil {
		t.Error("nil should stay nil")
	}
	if err := wrapRead("read", io.EOF); err != ErrUnexpectedEnd {
		t.Errorf("io.EOF mapped to %v", err)
	}
	if err := wrapRead("read", io.ErrUnexpectedEOF); err != ErrUnexpectedEnd {
		t.Errorf("io.ErrUnexpectedEOF mapped to %v", err)
	}
	var ioErr *IOError
	if err := wrapRead("read", os.ErrClosed); !errors.As(err, &ioErr) || ioErr.Op != "read" {
		t.Errorf("other errors should be wrapped, got %v", err)
	}
}

func TestCorrupted(t *testing.T) {
	err := Corrupted("bad flag %d", 7)
	if !errors.Is(err, ErrCorruptedData) {
		t.Fatal("Corrupted should wrap ErrCorruptedData")
	}
	if !strings.Contains(err.Error(), "bad flag 7") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
