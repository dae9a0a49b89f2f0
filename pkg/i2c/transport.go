package i2c

import (
	"io"
)

// Transport is an open bus device file.
type Transport interface {
	io.ReadWriteCloser
	// Fd returns the OS handle of the open file.
	Fd() uintptr
	// SetSlaveAddress makes subsequent reads and writes target addr.
	SetSlaveAddress(addr int) error
}

// Opener opens a bus device path for reading and writing.
type Opener func(path string) (Transport, error)
