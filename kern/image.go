package kern

// KernBase is the virtual address the kernel text is linked at. The
// physical counterpart of a virtual symbol is the symbol minus KernBase.
const KernBase = 0xf0000000

// Image holds the fixed link-time addresses the kerninfo command
// reports. All fields are read-only after boot.
type Image struct {
	Start uint64 // physical load address
	Entry uint64
	Etext uint64
	Edata uint64
	End   uint64
}

// FootprintKB is the executable memory footprint, rounded up to 1KB.
func (img Image) FootprintKB() uint64 {
	return (img.End - img.Entry + 1023) / 1024
}
