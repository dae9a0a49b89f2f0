//go:build !linux

package gpio

import (
	"errors"

	"go.uber.org/zap"
)

// NewDataReadyLine is only supported on Linux.
func NewDataReadyLine(gpioChip string, offset int, logger *zap.Logger) (*DataReadyLine, error) {
	return nil, errors.New("gpio character device is only supported on linux")
}
