package regmap

import (
	"sync"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
)

// DefaultI2CAddr is the AXP20x slave address in I²C mode.
const DefaultI2CAddr = 0x34

// I2C is a Regmap over a periph.io I²C bus.
type I2C struct {
	dev i2c.Dev
	mu  sync.Mutex
}

// NewI2C returns a Regmap for the PMIC at addr on bus. Pass
// DefaultI2CAddr unless the chip is strapped otherwise.
func NewI2C(bus i2c.Bus, addr uint16) *I2C {
	return &I2C{dev: i2c.Dev{Addr: addr, Bus: bus}}
}

// Read reads a single byte register.
func (m *I2C) Read(reg uint8) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read(reg)
}

func (m *I2C) read(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := m.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"reg": reg,
		"val": buf[0],
	}).Trace("register read")

	return buf[0], nil
}

// Write replaces a single byte register.
func (m *I2C) Write(reg uint8, val uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(reg, val)
}

func (m *I2C) write(reg uint8, val uint8) error {
	logrus.WithFields(logrus.Fields{
		"reg": reg,
		"val": val,
	}).Trace("register write")

	return m.dev.Tx([]byte{reg, val}, nil)
}

// UpdateBits does a locked read-modify-write of the masked bits.
func (m *I2C) UpdateBits(reg uint8, mask uint8, val uint8) error {
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

// ReadVariableWidth reads a width-bit ADC result starting at start.
func (m *I2C) ReadVariableWidth(start uint8, width uint) (uint32, error) {
	return readVariableWidth(m, start, width)
}
