package safe

import (
	"github.com/pkg/errors"
)

// ErrPanic marks an error produced from a recovered panic.
var ErrPanic = errors.New("panic")

// Run calls fn and turns a panic into an error wrapping ErrPanic.
// The returned error carries the stack of the recover site, print it with %+v.
func Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch x := r.(type) {
			case error:
				err = errors.Wrapf(ErrPanic, "%v", x)
			default:
				err = errors.Wrapf(ErrPanic, "%#v", x)
			}
		}
	}()
	return fn()
}

// Go runs fn in a new goroutine. The returned channel yields exactly one
// value, the result of fn (nil on success), and is then closed.
func Go(fn func() error) <-chan error {
	c := make(chan error, 1)
	go func() {
		c <- Run(fn)
		close(c)
	}()
	return c
}

// GoWithMessage is Go with the error annotated by message.
func GoWithMessage(fn func() error, message string) <-chan error {
	return Go(func() error {
		return errors.WithMessage(Run(fn), message)
	})
}
