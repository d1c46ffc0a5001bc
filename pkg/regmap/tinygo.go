package regmap

import (
	"sync"

	"tinygo.org/x/drivers"
)

// TinyGo is a Regmap over a tinygo.org/x/drivers I²C bus, for running the
// same drivers on a microcontroller host.
type TinyGo struct {
	bus  drivers.I2C
	addr uint16
	mu   sync.Mutex
}

// NewTinyGo returns a Regmap for the PMIC at addr on a TinyGo I²C bus.
func NewTinyGo(bus drivers.I2C, addr uint16) *TinyGo {
	return &TinyGo{bus: bus, addr: addr}
}

func (m *TinyGo) Read(reg uint8) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read(reg)
}

func (m *TinyGo) read(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := m.bus.Tx(m.addr, []byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (m *TinyGo) Write(reg uint8, val uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(reg, val)
}

func (m *TinyGo) write(reg uint8, val uint8) error {
	return m.bus.Tx(m.addr, []byte{reg, val}, nil)
}

func (m *TinyGo) UpdateBits(reg uint8, mask uint8, val uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, err := m.read(reg)
	if err != nil {
		return err
	}

	next := old&^mask | val&mask
	if next == old {
		return nil
	}
	return m.write(reg, next)
}

func (m *TinyGo) ReadVariableWidth(start uint8, width uint) (uint32, error) {
	return readVariableWidth(m, start, width)
}
