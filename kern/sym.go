package kern

import "sort"

// SymbolInfo is the debug-info resolver's answer for one instruction
// address.
type SymbolInfo struct {
	Name string
	Line int
}

// Unknown is resolved for addresses outside every known code range. It
// is a valid outcome, not an error.
var Unknown = SymbolInfo{Name: "<unknown>", Line: 0}

type symEntry struct {
	addr uint64
	info SymbolInfo
}

// SymTab maps instruction addresses to function name and source line by
// floor-matching against the sorted function start addresses. Everything
// at or past etext is outside the text segment and resolves to Unknown.
type SymTab struct {
	entries []symEntry
	etext   uint64
}

func NewSymTab(etext uint64) *SymTab {
	return &SymTab{etext: etext}
}

// Add registers a function starting at addr. Entries may arrive in any
// order.
func (st *SymTab) Add(addr uint64, name string, line int) {
	st.entries = append(st.entries, symEntry{addr: addr, info: SymbolInfo{Name: name, Line: line}})
	sort.Slice(st.entries, func(i, j int) bool { return st.entries[i].addr < st.entries[j].addr })
}

// Resolve returns the symbol covering addr. Each call stands alone;
// nothing is cached between lookups.
func (st *SymTab) Resolve(addr uint64) SymbolInfo {
	if addr >= st.etext {
		return Unknown
	}
	i := sort.Search(len(st.entries), func(i int) bool { return st.entries[i].addr > addr })
	if i == 0 {
		return Unknown
	}
	return st.entries[i-1].info
}
