// Package i2c gives register level access to a single slave device on a
// Linux i2c-dev bus.
//
// A Device is created ready to use: New selects the bus, opens its device
// file and binds it to the slave address, or fails without leaving anything
// open. A Device is not safe for concurrent use.
package i2c

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mbalug7/go-i2cdev/pkg/hal"
)

// InvalidHandle is returned by GetDeviceFileHandle once the device is closed.
const InvalidHandle = ^uintptr(0)

// State of a device session.
type State int

const (
	StateUnopened State = iota
	StateOpened
	StateBound
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpened:
		return "opened"
	case StateBound:
		return "bound"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type options struct {
	table  BusTable
	opener Opener
	logger *zap.Logger
}

// Option configures New.
type Option func(*options)

// WithBusTable replaces the default one entry bus table.
func WithBusTable(table BusTable) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithOpener replaces the function used to open the bus device file.
func WithOpener(opener Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Device is a session with one slave device on one bus.
type Device struct {
	address int
	busID   int
	path    string

	opener    Opener
	transport Transport
	state     State
	logger    *zap.Logger

	registerAddress byte
	registerValue   byte
	rwBuf           [2]byte // address + value, or the byte read back
	wBuf            [1]byte // register select

	lastErr string
}

var _ hal.Device = (*Device)(nil)

// New opens the device at address on bus busID. On error nothing is left open.
// The address is handed to the kernel unchecked.
func New(address, busID int, opts ...Option) (*Device, error) {
	o := options{
		table:  DefaultBusTable(),
		opener: DefaultOpener,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	logger := o.logger.With(zap.Int("bus", busID), zap.String("address", fmt.Sprintf("0x%02x", address)))

	path, err := SelectBus(o.table, busID)
	if err != nil {
		logger.Debug("bus selection failed", zap.Error(err))
		return nil, err
	}
	logger = logger.With(zap.String("path", path))

	d := &Device{
		address: address,
		busID:   busID,
		path:    path,
		opener:  o.opener,
		state:   StateUnopened,
		logger:  logger,
	}
	if err := d.openDevice(); err != nil {
		logger.Debug("open failed", zap.Error(err))
		return nil, err
	}
	if err := d.connectToDevice(); err != nil {
		logger.Debug("slave bind failed", zap.Error(err))
		return nil, multierr.Append(err, d.release())
	}
	d.state = StateReady
	logger.Debug("device ready")
	return d, nil
}

func (d *Device) openDevice() error {
	if d.state != StateUnopened {
		return nil
	}
	if d.opener == nil {
		return d.fail(newError(KindDeviceOpenFailed, "open", d.path, nil, "no opener, use New"))
	}
	t, err := d.opener(d.path)
	if err != nil {
		return d.fail(newError(KindDeviceOpenFailed, "open", d.path, err, "read/write"))
	}
	if t == nil {
		return d.fail(newError(KindDeviceOpenFailed, "open", d.path, nil, "opener returned no handle"))
	}
	d.transport = t
	d.state = StateOpened
	return nil
}

func (d *Device) connectToDevice() error {
	if d.state != StateOpened {
		return d.fail(newError(KindSlaveBindFailed, "bind", d.path, nil, "handle not open (%s)", d.state))
	}
	if err := d.transport.SetSlaveAddress(d.address); err != nil {
		return d.fail(newError(KindSlaveBindFailed, "bind", d.path, err, "address 0x%02x", d.address))
	}
	d.state = StateBound
	return nil
}

func (d *Device) release() error {
	if d.transport == nil {
		return nil
	}
	err := d.transport.Close()
	d.transport = nil
	d.state = StateClosed
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", d.path, err)
	}
	return nil
}

// Close releases the bus device file. Further transactions fail with ErrClosed.
func (d *Device) Close() error {
	if d.state == StateClosed {
		return nil
	}
	d.log().Debug("closing device")
	err := d.release()
	d.state = StateClosed
	return err
}

// Open is part of hal.Device. A device returned by New is already open.
func (d *Device) Open() error {
	if d.state == StateClosed {
		return d.fail(newError(KindClosed, "open", d.path, nil, ""))
	}
	return d.openDevice()
}

// Connect is part of hal.Device. A device returned by New is already bound.
func (d *Device) Connect() error {
	switch d.state {
	case StateClosed:
		return d.fail(newError(KindClosed, "bind", d.path, nil, ""))
	case StateBound, StateReady:
		return nil
	}
	return d.connectToDevice()
}

// GetDeviceFileHandle returns the OS handle of the bus device file, or
// InvalidHandle after Close.
func (d *Device) GetDeviceFileHandle() uintptr {
	if d.transport == nil {
		return InvalidHandle
	}
	return d.transport.Fd()
}

// GetFilePath returns the bus device path the session was opened on.
func (d *Device) GetFilePath() string {
	return d.path
}

func (d *Device) Address() int {
	return d.address
}

func (d *Device) BusID() int {
	return d.busID
}

func (d *Device) State() State {
	return d.state
}

// LastError returns the message of the most recent failure, at most
// MaxErrorMessage bytes long.
func (d *Device) LastError() string {
	return d.lastErr
}

func (d *Device) fail(err *Error) error {
	d.lastErr = err.Error()
	return err
}

// checkReady guards every transfer: only a device returned by New may touch
// the transport.
func (d *Device) checkReady(op string) error {
	switch {
	case d.state == StateClosed:
		return d.fail(newError(KindClosed, op, d.path, nil, ""))
	case d.state != StateReady || d.transport == nil:
		return d.fail(newError(KindNotReady, op, d.path, nil, "session %s, use New", d.state))
	}
	return nil
}

func (d *Device) log() *zap.Logger {
	if d.logger == nil {
		return zap.NewNop()
	}
	return d.logger
}
