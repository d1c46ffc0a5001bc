package regmap

import (
	"fmt"
	"sync"
)

// Mock is an in-memory Regmap for tests. Unwritten registers read as zero.
// Individual registers can be made to fail, and every write is journaled
// so tests can assert on the exact commit sequence.
type Mock struct {
	mu      sync.Mutex
	regs    map[uint8]uint8
	failing map[uint8]error
	journal []MockWrite
}

// MockWrite is one entry of the write journal.
type MockWrite struct {
	Reg uint8
	Val uint8
}

// NewMock returns a mocked Regmap with prefilled register values.
func NewMock(prefill map[uint8]uint8) *Mock {
	regs := make(map[uint8]uint8, len(prefill))
	for reg, val := range prefill {
		regs[reg] = val
	}
	return &Mock{
		regs:    regs,
		failing: make(map[uint8]error),
	}
}

// FailOn makes every access to reg return err until cleared with a nil err.
func (m *Mock) FailOn(reg uint8, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failing, reg)
		return
	}
	m.failing[reg] = err
}

// Set overwrites a register without journaling, for test setup.
func (m *Mock) Set(reg uint8, val uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[reg] = val
}

// Get returns the current register value without journaling.
func (m *Mock) Get(reg uint8) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[reg]
}

// Journal returns a copy of all writes performed so far, in order.
func (m *Mock) Journal() []MockWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockWrite, len(m.journal))
	copy(out, m.journal)
	return out
}

// ResetJournal clears the write journal.
func (m *Mock) ResetJournal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journal = nil
}

func (m *Mock) Read(reg uint8) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing[reg]; err != nil {
		return 0, fmt.Errorf("read reg 0x%02x: %w", reg, err)
	}
	return m.regs[reg], nil
}

func (m *Mock) Write(reg uint8, val uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(reg, val)
}

func (m *Mock) write(reg uint8, val uint8) error {
	if err := m.failing[reg]; err != nil {
		return fmt.Errorf("write reg 0x%02x: %w", reg, err)
	}
	m.regs[reg] = val
	m.journal = append(m.journal, MockWrite{Reg: reg, Val: val})
	return nil
}

func (m *Mock) UpdateBits(reg uint8, mask uint8, val uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failing[reg]; err != nil {
		return fmt.Errorf("read reg 0x%02x: %w", reg, err)
	}
	old := m.regs[reg]
	return m.write(reg, old&^mask|val&mask)
}

func (m *Mock) ReadVariableWidth(start uint8, width uint) (uint32, error) {
	return readVariableWidth(m, start, width)
}
