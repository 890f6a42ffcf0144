package vm

import "fmt"

// AccessType records the last access to a memory cell.
type AccessType int

const (
	AccessNone AccessType = iota
	AccessRead
	AccessWrite
	AccessDriver // Reserved cell update.
)

// Memory is the flat, bounds checked cell array.
type Memory struct {
	cells  []int32
	access []AccessType
}

func NewMemory(size uint32) *Memory {
	return &Memory{
		cells:  make([]int32, size),
		access: make([]AccessType, size),
	}
}

func (m *Memory) Len() int { return len(m.cells) }

// Get reads the cell at addr.
func (m *Memory) Get(addr int64) (int32, error) {
	if addr < 0 || addr >= int64(len(m.cells)) {
		return 0, fmt.Errorf("cannot get at address %d since it is %w", addr, ErrOutOfBounds)
	}
	m.access[addr] = AccessRead
	return m.cells[addr], nil
}

// Set writes the cell at addr.
func (m *Memory) Set(addr int64, value int32) error {
	if addr < 0 || addr >= int64(len(m.cells)) {
		return fmt.Errorf("cannot set at address %d since it is %w", addr, ErrOutOfBounds)
	}
	m.access[addr] = AccessWrite
	m.cells[addr] = value
	return nil
}

// Peek returns the cell value and its last access without bounds errors.
// Used by viewers.
func (m *Memory) Peek(addr int) (int32, AccessType, bool) {
	if addr < 0 || addr >= len(m.cells) {
		return 0, AccessNone, false
	}
	return m.cells[addr], m.access[addr], true
}

// Slice returns a copy of the cells in [lo, hi), clipped to the memory.
func (m *Memory) Slice(lo, hi int) []int32 {
	lo, hi = max(lo, 0), min(hi, len(m.cells))
	if lo >= hi {
		return nil
	}
	out := make([]int32, hi-lo)
	copy(out, m.cells[lo:hi])
	return out
}

// ResetAccess clears the access marks.
func (m *Memory) ResetAccess() {
	clear(m.access)
}

func (m *Memory) load(addr uint32, values []int32) {
	copy(m.cells[addr:], values)
}

func (m *Memory) driverSet(addr int, value int32) {
	if addr < len(m.cells) {
		m.cells[addr] = value
		m.access[addr] = AccessDriver
	}
}
