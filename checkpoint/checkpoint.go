// Package checkpoint decorates errors with the location they passed through,
// which results in something similar to a stacktrace.
// Each error added to a checkpoint can be checked by errors.Is and retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// Frame is the source location a checkpoint was created at.
type Frame struct {
	File     string
	Line     int
	Function string
}

func (f Frame) String() string {
	if f.File == "" {
		return "unknown"
	}
	if f.Function == "" {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return fmt.Sprintf("%s:%d (%s)", f.File, f.Line, f.Function)
}

// From wraps err by a new checkpoint carrying the caller location.
// It returns nil if err == nil.
func From(err error) error {
	if passThrough(err) {
		return err
	}

	return &checkpoint{
		prev:  err,
		frame: caller(),
	}
}

// Wrap adds a checkpoint with the caller location to prev and describes it
// further by err. It returns nil if prev == nil.
// If err is nil the checkpoint is still created.
// This allows predefined errors to be attached to whatever went wrong below:
//  var ErrReadBlock = errors.New("could not read block")
//
//  func readSomething() error {
//  	err := dev.ReadAt(buf, off)
//  	return checkpoint.Wrap(err, ErrReadBlock)
//  }
// errors.Is then matches both ErrReadBlock and the error returned by ReadAt.
func Wrap(prev, err error) error {
	if passThrough(prev) {
		return prev
	}

	return &checkpoint{
		err:   err,
		prev:  prev,
		frame: caller(),
	}
}

// Frames lists the locations of all checkpoints of err, outermost first.
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

// passThrough reports errors which must never be wrapped.
// io.EOF has to be returned as io.EOF directly:
// https://github.com/golang/go/issues/39155
func passThrough(err error) bool {
	return err == nil || err == io.EOF || err == io.ErrUnexpectedEOF
}

func caller() Frame {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return Frame{}
	}

	frame := Frame{
		File: filepath.Base(file),
		Line: line,
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		name := fn.Name()
		frame.Function = name[strings.LastIndex(name, "/")+1:]
	}
	return frame
}

type checkpoint struct {
	err   error
	prev  error
	frame Frame
}

func (c *checkpoint) Error() string {
	var b strings.Builder
	b.WriteString("at ")
	b.WriteString(c.frame.String())
	if c.err != nil {
		b.WriteString("\n\t")
		b.WriteString(c.err.Error())
	}

	prev := c.prev.Error()
	if _, ok := c.prev.(*checkpoint); !ok {
		prev = "at unknown\n\t" + strings.ReplaceAll(prev, "\n", "\n\t")
	}
	b.WriteString("\n")
	b.WriteString(prev)
	return b.String()
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.err != nil && errors.As(c.err, target)
}
