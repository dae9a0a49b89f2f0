package i2c

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/mmr"

	"github.com/mbalug7/go-i2cdev/pkg/hal"
)

var _ conn.Conn = (*Device)(nil)

// Write sends p to the device in one write call.
func (d *Device) Write(p []byte) (int, error) {
	if err := d.checkReady("write"); err != nil {
		return 0, err
	}
	n, err := d.transport.Write(p)
	if err != nil || n != len(p) {
		d.log().Warn("write failed", zap.Int("size", len(p)), zap.Int("written", n), zap.Error(err))
		return n, d.fail(newError(KindWriteFailed, "write", d.path, err, "wrote %d of %d bytes", n, len(p)))
	}
	return n, nil
}

// Read fills p from the device in one read call.
func (d *Device) Read(p []byte) (int, error) {
	if err := d.checkReady("read"); err != nil {
		return 0, err
	}
	n, err := d.transport.Read(p)
	if err != nil || n != len(p) {
		d.log().Warn("read failed", zap.Int("size", len(p)), zap.Int("read", n), zap.Error(err))
		return n, d.fail(newError(KindReadFailed, "read", d.path, err, "read %d of %d bytes", n, len(p)))
	}
	return n, nil
}

// Tx writes w, then reads len(r) bytes into r. Either may be empty.
func (d *Device) Tx(w, r []byte) error {
	if len(w) > 0 {
		if _, err := d.Write(w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		if _, err := d.Read(r); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) Duplex() conn.Duplex {
	return conn.Half
}

func (d *Device) String() string {
	return fmt.Sprintf("%s@0x%02x", d.path, d.address)
}

// Registers gives access to multi byte registers, encoded with order.
func (d *Device) Registers(order binary.ByteOrder) *mmr.Dev8 {
	return &mmr.Dev8{Conn: d, Order: order}
}

// Register returns a handle on a single byte register of the device.
func (d *Device) Register(addr hal.RegAddress) *Register {
	return &Register{dev: d, addr: addr}
}

// Register is a byte wide register backed by the device.
type Register struct {
	dev  *Device
	addr hal.RegAddress
}

var _ hal.Register = (*Register)(nil)

func (r *Register) GetAddress() hal.RegAddress {
	return r.addr
}

func (r *Register) GetValue() (uint8, error) {
	return r.dev.ReadRegister(r.addr.ToByte())
}

func (r *Register) SetValue(value uint8) error {
	return r.dev.WriteRegister(r.addr.ToByte(), value)
}
