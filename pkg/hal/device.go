package hal

// Device defines set of methods that are needed to talk to a device on a bus
type Device interface {
	// Open opens the bus the device is attached to.
	Open() error
	// Connect binds the open bus to the device address.
	Connect() error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}
