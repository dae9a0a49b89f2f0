package i2c

import (
	"fmt"
	"unicode/utf8"
)

// MaxErrorMessage bounds the diagnostic text carried by an Error.
const MaxErrorMessage = 1024

// ErrorKind classifies a failure of bus selection, connection or transaction.
type ErrorKind int

const (
	KindInvalidBusID ErrorKind = iota + 1
	KindBusPathNotFound
	KindDeviceOpenFailed
	KindSlaveBindFailed
	KindUnsupportedTransferSize
	KindWriteFailed
	KindReadFailed
	KindClosed
	KindNotReady
)

var kindNames = map[ErrorKind]string{
	KindInvalidBusID:            "invalid bus id",
	KindBusPathNotFound:         "bus path not found",
	KindDeviceOpenFailed:        "device open failed",
	KindSlaveBindFailed:         "slave bind failed",
	KindUnsupportedTransferSize: "unsupported transfer size",
	KindWriteFailed:             "write failed",
	KindReadFailed:              "read failed",
	KindClosed:                  "device closed",
	KindNotReady:                "device not ready",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Sentinels for errors.Is, e.g. errors.Is(err, i2c.ErrInvalidBusID).
var (
	ErrInvalidBusID            = &Error{Kind: KindInvalidBusID}
	ErrBusPathNotFound         = &Error{Kind: KindBusPathNotFound}
	ErrDeviceOpenFailed        = &Error{Kind: KindDeviceOpenFailed}
	ErrSlaveBindFailed         = &Error{Kind: KindSlaveBindFailed}
	ErrUnsupportedTransferSize = &Error{Kind: KindUnsupportedTransferSize}
	ErrWriteFailed             = &Error{Kind: KindWriteFailed}
	ErrReadFailed              = &Error{Kind: KindReadFailed}
	ErrClosed                  = &Error{Kind: KindClosed}
	ErrNotReady                = &Error{Kind: KindNotReady}
)

// Error is returned by every failing operation of this package.
type Error struct {
	Kind ErrorKind
	Op   string // operation that failed, e.g. "open" or "write"
	Path string // bus device path, empty when not yet known
	Msg  string
	Err  error // underlying transport error, if any
}

func newError(kind ErrorKind, op, path string, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Path: path,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}

func (e *Error) Error() string {
	s := "i2c"
	if e.Op != "" {
		s += " " + e.Op
	}
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return truncate(s, MaxErrorMessage)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
