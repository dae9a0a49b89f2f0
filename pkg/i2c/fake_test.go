package i2c

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"
)

type fakeTransport struct {
	fd        uintptr
	writes    [][]byte
	readData  []byte
	reads     int
	writeErr  error
	shortBy   int // bytes missing from every write
	readErr   error
	bindErr   error
	boundAddr int
	closeErr  error
	closed    bool
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.writes = append(f.writes, append([]byte(nil), p...))
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p) - f.shortBy, nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	f.reads++
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.readData) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.readData)
	f.readData = f.readData[n:]
	return n, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return f.closeErr
}

func (f *fakeTransport) Fd() uintptr {
	return f.fd
}

func (f *fakeTransport) SetSlaveAddress(addr int) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.boundAddr = addr
	return nil
}

// busPath creates a stand-in for a bus device node.
func busPath(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "i2c-1")
	test.That(t, os.WriteFile(p, nil, 0o600), test.ShouldBeNil)
	return p
}

type openRecorder struct {
	transport *fakeTransport
	err       error
	paths     []string
}

func (o *openRecorder) open(path string) (Transport, error) {
	o.paths = append(o.paths, path)
	if o.err != nil {
		return nil, o.err
	}
	if o.transport == nil {
		return nil, nil
	}
	return o.transport, nil
}

func newTestDevice(t *testing.T, ft *fakeTransport) *Device {
	t.Helper()
	rec := &openRecorder{transport: ft}
	d, err := New(0x68, 0,
		WithBusTable(NewBusTable(busPath(t))),
		WithOpener(rec.open),
		WithLogger(zaptest.NewLogger(t)),
	)
	test.That(t, err, test.ShouldBeNil)
	return d
}
