package i2c

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestWriteToDevice(t *testing.T) {
	ft := &fakeTransport{}
	d := newTestDevice(t, ft)

	d.SetRegisterValue(0x01)
	d.SetRegisterAddress(0x20)
	n, err := d.WriteToDevice(2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 2)

	d.SetRegisterAddress(0x75)
	n, err = d.WriteToDevice(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 1)

	test.That(t, ft.writes, test.ShouldResemble, [][]byte{{0x20, 0x01}, {0x75}})
}

func TestWriteToDeviceUnsupportedSize(t *testing.T) {
	ft := &fakeTransport{}
	d := newTestDevice(t, ft)

	for _, size := range []int{-1, 0, 3, 1024} {
		n, err := d.WriteToDevice(size)
		test.That(t, n, test.ShouldEqual, 0)
		test.That(t, errors.Is(err, ErrUnsupportedTransferSize), test.ShouldBeTrue)
	}
	test.That(t, ft.writes, test.ShouldBeEmpty)
	test.That(t, d.LastError(), test.ShouldContainSubstring, "unsupported transfer size")
}

func TestWriteToDeviceShortWrite(t *testing.T) {
	ft := &fakeTransport{shortBy: 1}
	d := newTestDevice(t, ft)

	d.SetRegisterAddress(0x6b)
	d.SetRegisterValue(0x00)
	n, err := d.WriteToDevice(2)
	test.That(t, n, test.ShouldEqual, 1)
	test.That(t, errors.Is(err, ErrWriteFailed), test.ShouldBeTrue)
	test.That(t, d.State(), test.ShouldEqual, StateReady)

	// the session stays usable
	ft.shortBy = 0
	_, err = d.WriteToDevice(2)
	test.That(t, err, test.ShouldBeNil)
}

func TestWriteToDeviceTransportError(t *testing.T) {
	cause := errors.New("remote I/O error")
	ft := &fakeTransport{writeErr: cause}
	d := newTestDevice(t, ft)

	_, err := d.WriteToDevice(1)
	test.That(t, errors.Is(err, ErrWriteFailed), test.ShouldBeTrue)
	test.That(t, errors.Is(err, cause), test.ShouldBeTrue)
	test.That(t, d.LastError(), test.ShouldEqual, err.Error())
}

func TestGetValueFromRegister(t *testing.T) {
	for _, tc := range []struct {
		raw  byte
		want int16
	}{
		{0x00, 0},
		{0x7f, 127},
		{0x80, -128},
		{0xff, -1},
	} {
		ft := &fakeTransport{readData: []byte{tc.raw}}
		d := newTestDevice(t, ft)

		got, err := d.GetValueFromRegister(0x20)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, tc.want)
		test.That(t, byte(got), test.ShouldEqual, tc.raw)
		test.That(t, ft.writes, test.ShouldResemble, [][]byte{{0x20}})
		test.That(t, ft.reads, test.ShouldEqual, 1)
	}
}

func TestGetValueFromRegisterSetsAddress(t *testing.T) {
	ft := &fakeTransport{readData: []byte{0x11}}
	d := newTestDevice(t, ft)

	_, err := d.GetValueFromRegister(0x3b)
	test.That(t, err, test.ShouldBeNil)

	d.SetRegisterValue(0x05)
	_, err = d.WriteToDevice(2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ft.writes[1], test.ShouldResemble, []byte{0x3b, 0x05})
}

func TestReadRegisterUnsigned(t *testing.T) {
	ft := &fakeTransport{readData: []byte{0xff}}
	d := newTestDevice(t, ft)

	got, err := d.ReadRegister(0x75)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, byte(0xff))
}

func TestGetValueFromRegisterFailures(t *testing.T) {
	t.Run("select write fails", func(t *testing.T) {
		ft := &fakeTransport{writeErr: errors.New("nack"), readData: []byte{1}}
		d := newTestDevice(t, ft)
		_, err := d.GetValueFromRegister(0x20)
		test.That(t, errors.Is(err, ErrReadFailed), test.ShouldBeTrue)
		test.That(t, ft.reads, test.ShouldEqual, 0)
	})

	t.Run("short select write", func(t *testing.T) {
		ft := &fakeTransport{shortBy: 1, readData: []byte{1}}
		d := newTestDevice(t, ft)
		_, err := d.GetValueFromRegister(0x20)
		test.That(t, errors.Is(err, ErrReadFailed), test.ShouldBeTrue)
		test.That(t, ft.reads, test.ShouldEqual, 0)
	})

	t.Run("read fails", func(t *testing.T) {
		ft := &fakeTransport{readErr: errors.New("timeout")}
		d := newTestDevice(t, ft)
		_, err := d.GetValueFromRegister(0x20)
		test.That(t, errors.Is(err, ErrReadFailed), test.ShouldBeTrue)
		test.That(t, d.State(), test.ShouldEqual, StateReady)
	})

	t.Run("nothing read", func(t *testing.T) {
		ft := &fakeTransport{}
		d := newTestDevice(t, ft)
		_, err := d.GetValueFromRegister(0x20)
		test.That(t, errors.Is(err, ErrReadFailed), test.ShouldBeTrue)
	})
}

func TestWriteRegister(t *testing.T) {
	ft := &fakeTransport{}
	d := newTestDevice(t, ft)
	test.That(t, d.WriteRegister(0x6b, 0x80), test.ShouldBeNil)
	test.That(t, ft.writes, test.ShouldResemble, [][]byte{{0x6b, 0x80}})
}

// Device 0x68 on bus 0: set register 0x20 to 0x01, then read it back.
func TestRegisterRoundTrip(t *testing.T) {
	ft := &fakeTransport{readData: []byte{0x7f, 0xff}}
	d := newTestDevice(t, ft)
	test.That(t, ft.boundAddr, test.ShouldEqual, 0x68)

	d.SetRegisterValue(0x01)
	d.SetRegisterAddress(0x20)
	_, err := d.WriteToDevice(2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ft.writes[0], test.ShouldResemble, []byte{0x20, 0x01})

	v, err := d.GetValueFromRegister(0x20)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, int16(127))

	v, err = d.GetValueFromRegister(0x20)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, int16(-1))
}
