//go:build !linux

package i2c

import (
	"errors"
	"runtime"
)

// DefaultOpener always fails: i2c-dev is a Linux interface.
func DefaultOpener(path string) (Transport, error) {
	return nil, errors.New("i2c-dev is not supported on " + runtime.GOOS)
}
