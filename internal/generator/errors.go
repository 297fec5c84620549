package generator

import (
	"errors"
	"fmt"
)

// ErrIO marks failures reading templates or writing the target directory.
var ErrIO = errors.New("i/o error")

// IOError is a fatal file operation failure. Files written before it are
// left in place.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is makes errors.Is(err, ErrIO) match any IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func (e *IOError) Unwrap() error {
	return e.Err
}
