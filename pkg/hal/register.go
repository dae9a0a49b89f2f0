package hal

// RegAddress is the address of a register inside a device.
type RegAddress uint8

func (a RegAddress) ToByte() byte {
	return byte(a)
}

// Register is a byte wide device register.
type Register interface {
	GetAddress() RegAddress
	GetValue() (uint8, error)
	SetValue(value uint8) error
}
