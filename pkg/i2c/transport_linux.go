//go:build linux

package i2c

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// I2C_SLAVE from linux/i2c-dev.h
const i2cSlave = 0x0703

type fileTransport struct {
	*os.File
}

// DefaultOpener opens an i2c-dev character device.
func DefaultOpener(path string) (Transport, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &fileTransport{File: f}, nil
}

func (t *fileTransport) SetSlaveAddress(addr int) error {
	if err := unix.IoctlSetInt(int(t.Fd()), i2cSlave, addr); err != nil {
		return fmt.Errorf("ioctl I2C_SLAVE 0x%02x: %w", addr, err)
	}
	return nil
}
