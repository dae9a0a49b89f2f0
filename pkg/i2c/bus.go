package i2c

import (
	"os"
)

// DefaultBusPath is the i2c-dev node of the only bus known out of the box.
const DefaultBusPath = "/dev/i2c-1"

// BusDescriptor maps a bus id to the character device that carries it.
type BusDescriptor struct {
	ID   int
	Path string
}

// BusTable is the fixed set of buses a device may be opened on. The id of
// every descriptor is its index in the table.
type BusTable struct {
	buses []BusDescriptor
}

// NewBusTable builds a table from transport paths, bus 0 first.
func NewBusTable(paths ...string) BusTable {
	buses := make([]BusDescriptor, len(paths))
	for i, p := range paths {
		buses[i] = BusDescriptor{ID: i, Path: p}
	}
	return BusTable{buses: buses}
}

// DefaultBusTable returns the one entry table {0: /dev/i2c-1}.
func DefaultBusTable() BusTable {
	return NewBusTable(DefaultBusPath)
}

func (t BusTable) Len() int {
	return len(t.buses)
}

func (t BusTable) Lookup(id int) (BusDescriptor, bool) {
	if id < 0 || id >= len(t.buses) {
		return BusDescriptor{}, false
	}
	return t.buses[id], true
}

// Buses returns a copy of the table entries.
func (t BusTable) Buses() []BusDescriptor {
	out := make([]BusDescriptor, len(t.buses))
	copy(out, t.buses)
	return out
}

// SelectBus resolves busID against the table and checks that its path exists.
// It never falls back to another entry.
func SelectBus(table BusTable, busID int) (string, error) {
	bus, ok := table.Lookup(busID)
	if !ok {
		return "", newError(KindInvalidBusID, "select", "", nil,
			"bus id %d outside [0, %d)", busID, table.Len())
	}
	if _, err := os.Stat(bus.Path); err != nil {
		return "", newError(KindBusPathNotFound, "select", bus.Path, err,
			"bus id %d", busID)
	}
	return bus.Path, nil
}
