package i2c

import (
	"go.uber.org/zap"
)

// Transfer sizes accepted by WriteToDevice.
const (
	SelectSize = 1 // register address only
	WriteSize  = 2 // register address followed by value
)

// SetRegisterAddress sets the register used by the next WriteToDevice.
func (d *Device) SetRegisterAddress(addr byte) {
	d.registerAddress = addr
}

// SetRegisterValue sets the value written by the next WriteToDevice(2).
func (d *Device) SetRegisterValue(value byte) {
	d.registerValue = value
}

// WriteToDevice writes the register address (size 1) or the register address
// followed by the register value (size 2) in a single write, and returns the
// number of bytes written.
func (d *Device) WriteToDevice(size int) (int, error) {
	if err := d.checkReady("write"); err != nil {
		return 0, err
	}
	var buf []byte
	switch size {
	case SelectSize:
		d.wBuf[0] = d.registerAddress
		buf = d.wBuf[:]
	case WriteSize:
		d.rwBuf[0] = d.registerAddress
		d.rwBuf[1] = d.registerValue
		buf = d.rwBuf[:]
	default:
		return 0, d.fail(newError(KindUnsupportedTransferSize, "write", d.path, nil, "%d bytes, want 1 or 2", size))
	}

	n, err := d.transport.Write(buf)
	if err != nil || n != len(buf) {
		d.log().Warn("register write failed",
			zap.Uint8("register", d.registerAddress), zap.Int("written", n), zap.Error(err))
		return n, d.fail(newError(KindWriteFailed, "write", d.path, err,
			"register 0x%02x: wrote %d of %d bytes", d.registerAddress, n, len(buf)))
	}
	d.log().Debug("register write",
		zap.Uint8("register", d.registerAddress), zap.Binary("data", buf))
	return n, nil
}

// GetValueFromRegister selects addr and reads one byte back. The byte is
// sign extended: 0x7f reads as 127, 0xff as -1. Use ReadRegister for the raw
// byte.
func (d *Device) GetValueFromRegister(addr byte) (int16, error) {
	b, err := d.readRegister(addr)
	if err != nil {
		return 0, err
	}
	return int16(int8(b)), nil
}

// ReadRegister selects addr and reads one byte back.
func (d *Device) ReadRegister(addr byte) (byte, error) {
	return d.readRegister(addr)
}

// WriteRegister writes value to register addr.
func (d *Device) WriteRegister(addr, value byte) error {
	d.SetRegisterAddress(addr)
	d.SetRegisterValue(value)
	_, err := d.WriteToDevice(WriteSize)
	return err
}

func (d *Device) readRegister(addr byte) (byte, error) {
	if err := d.checkReady("read"); err != nil {
		return 0, err
	}
	d.SetRegisterAddress(addr)
	d.wBuf[0] = addr
	n, err := d.transport.Write(d.wBuf[:])
	if err != nil || n != 1 {
		d.log().Warn("register select failed", zap.Uint8("register", addr), zap.Error(err))
		return 0, d.fail(newError(KindReadFailed, "read", d.path, err,
			"select register 0x%02x: wrote %d of 1 bytes", addr, n))
	}
	n, err = d.transport.Read(d.rwBuf[:1])
	if err != nil || n != 1 {
		d.log().Warn("register read failed", zap.Uint8("register", addr), zap.Error(err))
		return 0, d.fail(newError(KindReadFailed, "read", d.path, err,
			"register 0x%02x: read %d of 1 bytes", addr, n))
	}
	d.log().Debug("register read", zap.Uint8("register", addr), zap.Uint8("value", d.rwBuf[0]))
	return d.rwBuf[0], nil
}
