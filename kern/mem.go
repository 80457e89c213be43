// Package kern holds the kernel-side collaborators the monitor console
// drives: word-addressed memory, the physical page allocator, the
// debug-info symbol table, the link-time image layout and the CPU
// register snapshot.
package kern

import "fmt"

// WordSize is the width in bytes of one machine word on the monitored
// kernel. Frame offsets are expressed in words.
const WordSize = 8

// Memory is the word-addressed view of kernel memory the monitor reads
// through. Reads are synchronous and never block.
type Memory interface {
	ReadWord(addr uint64) (uint64, error)
}

// SparseMemory backs Memory with a map, one entry per word-aligned
// address. Unmapped reads fail instead of returning zero so a walk that
// runs off the staged stack stops.
type SparseMemory struct {
	words map[uint64]uint64
}

func NewSparseMemory() *SparseMemory {
	return &SparseMemory{words: make(map[uint64]uint64)}
}

// WriteWord maps the word containing addr. Addresses are truncated to
// word alignment.
func (m *SparseMemory) WriteWord(addr, val uint64) {
	m.words[addr&^uint64(WordSize-1)] = val
}

func (m *SparseMemory) ReadWord(addr uint64) (uint64, error) {
	val, ok := m.words[addr&^uint64(WordSize-1)]
	if !ok {
		return 0, fmt.Errorf("unmapped address 0x%016x", addr)
	}
	return val, nil
}
