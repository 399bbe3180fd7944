package checkpoint

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
)

var (
	errCause    = errors.New("the cause")
	errSentinel = errors.New("a sentinel")
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantNil   bool
		wantExact bool
	}{
		{name: "nil stays nil", err: nil, wantNil: true},
		{name: "io.EOF is passed through", err: io.EOF, wantExact: true},
		{name: "other errors are decorated", err: errCause},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if (got == nil) != tt.wantNil {
				t.Fatalf("From() = %v, wantNil %v", got, tt.wantNil)
			}
			if tt.wantExact && got != tt.err {
				t.Errorf("From() = %v, want exactly %v", got, tt.err)
			}
			if got != nil && !errors.Is(got, tt.err) {
				t.Errorf("From() = %v, does not match %v", got, tt.err)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		prev    error
		err     error
		wantNil bool
		wantIs  []error
	}{
		{name: "nil prev creates no checkpoint", prev: nil, err: errSentinel, wantNil: true},
		{name: "both errors match", prev: errCause, err: errSentinel, wantIs: []error{errCause, errSentinel}},
		{name: "nested checkpoints match all", prev: Wrap(errCause, fs.ErrNotExist), err: errSentinel,
			wantIs: []error{errCause, errSentinel, fs.ErrNotExist}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.prev, tt.err)
			if (got == nil) != tt.wantNil {
				t.Fatalf("Wrap() = %v, wantNil %v", got, tt.wantNil)
			}
			for _, target := range tt.wantIs {
				if !errors.Is(got, target) {
					t.Errorf("Wrap() = %v, does not match %v", got, target)
				}
			}
		})
	}
}

func TestWrap_EOF(t *testing.T) {
	if got := Wrap(io.EOF, errSentinel); got != io.EOF {
		t.Errorf("Wrap(io.EOF) = %v, want io.EOF", got)
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(errCause, errSentinel, "cluster %d", 42)
	if !errors.Is(err, errSentinel) || !errors.Is(err, errCause) {
		t.Fatalf("Wrapf() = %v, does not match both errors", err)
	}
	if !strings.Contains(err.Error(), "a sentinel: cluster 42") {
		t.Errorf("Wrapf() message = %q, missing detail", err.Error())
	}
}

func TestFrames(t *testing.T) {
	err := Wrap(From(errCause), errSentinel)
	frames := Frames(err)
	if len(frames) != 2 {
		t.Fatalf("Frames() = %v, want 2 frames", frames)
	}
	for _, f := range frames {
		if f.File != "checkpoint_test.go" {
			t.Errorf("Frame.File = %v, want checkpoint_test.go", f.File)
		}
	}
	if !strings.HasPrefix(err.Error(), "File: checkpoint_test.go:") {
		t.Errorf("Error() = %q, want the outer frame first", err.Error())
	}
}
