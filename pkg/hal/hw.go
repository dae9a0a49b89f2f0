package hal

import "time"

// OnDataReadyCb is called on every rising edge of a data ready line. The
// timestamp is the kernel event time.
type OnDataReadyCb func(timestamp time.Duration)

// DataReadyLine is an input line the device raises when it has new data.
type DataReadyLine interface {
	// Wait blocks until the line is high or timeout elapses.
	Wait(timeout time.Duration) error
	RegisterOnDataReadyCb(cb OnDataReadyCb) error
	Close() error
}
