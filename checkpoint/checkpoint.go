// Package checkpoint decorates errors with the file and line where they passed
// through, which results in something similar to a stacktrace.
// Both the original cause and the describing error of a checkpoint can be
// checked by errors.Is and retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// Frame is the caller location recorded by a checkpoint.
type Frame struct {
	File string
	Line int
}

func (f Frame) String() string {
	if f.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

func caller(skip int) Frame {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Frame{}
	}
	return Frame{File: filepath.Base(file), Line: line}
}

// passThrough reports errors which must reach the caller unchanged.
// io.EOF is compared with == by many readers, see
// https://github.com/golang/go/issues/39155
func passThrough(err error) bool {
	return err == io.EOF
}

// From wraps err into a checkpoint holding the caller location.
// It returns nil if err is nil.
func From(err error) error {
	if err == nil || passThrough(err) {
		return err
	}

	return &checkpoint{
		prev:  err,
		frame: caller(1),
	}
}

// Wrap adds a checkpoint to prev which is further described by err.
// It returns nil if prev is nil, so the usual pattern is:
//
//	var ErrSomethingWentWrong = errors.New("something went wrong")
//
//	func doIt() error {
//		err := somethingThatFails()
//		return checkpoint.Wrap(err, ErrSomethingWentWrong)
//	}
//
// errors.Is(doIt(), ErrSomethingWentWrong) is true, and so is a check for the
// error returned by somethingThatFails.
func Wrap(prev, err error) error {
	if prev == nil || passThrough(prev) {
		return prev
	}

	return &checkpoint{
		err:   err,
		prev:  prev,
		frame: caller(1),
	}
}

// Wrapf works like Wrap but appends a formatted detail message to err.
// The detail is only part of the message, errors.Is still matches err.
func Wrapf(prev, err error, format string, args ...interface{}) error {
	if prev == nil || passThrough(prev) {
		return prev
	}

	return &checkpoint{
		err:    err,
		detail: fmt.Sprintf(format, args...),
		prev:   prev,
		frame:  caller(1),
	}
}

type checkpoint struct {
	err    error
	detail string
	prev   error
	frame  Frame
}

func (c *checkpoint) message() string {
	var msg string
	switch {
	case c.err != nil && c.detail != "":
		msg = c.err.Error() + ": " + c.detail
	case c.err != nil:
		msg = c.err.Error()
	default:
		msg = c.detail
	}
	return msg
}

func (c *checkpoint) Error() string {
	var b strings.Builder
	b.WriteString("File: " + c.frame.String())

	if msg := c.message(); msg != "" {
		b.WriteString("\n\t" + strings.ReplaceAll(msg, "\n", "\n\t"))
	}

	if _, ok := c.prev.(*checkpoint); ok {
		b.WriteString("\n" + c.prev.Error())
	} else {
		b.WriteString("\nFile: unknown\n\t" + strings.ReplaceAll(c.prev.Error(), "\n", "\n\t"))
	}

	return b.String()
}

// Unwrap returns the wrapped cause.
func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.err != nil && errors.As(c.err, target)
}

// Frames lists the caller locations of all checkpoints in the chain of err,
// outermost first.
func Frames(err error) []Frame {
	var frames []Frame
	for err != nil {
		if c, ok := err.(*checkpoint); ok {
			frames = append(frames, c.frame)
		}
		err = errors.Unwrap(err)
	}
	return frames
}
