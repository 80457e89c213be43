package main

import "kmon/kern"

// Link-time layout of the staged image: text, data, then the boot stack
// at the top.
const (
	imgStart     = 0x00100000
	imgEntry     = kern.KernBase + 0x0010000c
	imgEtext     = kern.KernBase + 0x00101871
	imgEdata     = kern.KernBase + 0x00112300
	imgEnd       = kern.KernBase + 0x00117950
	bootStackTop = kern.KernBase + 0x00118000
)

// pushFrame stages one activation record at fp: the saved caller frame
// pointer, the return address, and the argument words above it.
func pushFrame(mem *kern.SparseMemory, fp, savedFP, ret uint64, args ...uint64) {
	mem.WriteWord(fp, savedFP)
	mem.WriteWord(fp+kern.WordSize, ret)
	for i, a := range args {
		mem.WriteWord(fp+uint64(2+i)*kern.WordSize, a)
	}
}

// bootKernel stages the synthetic kernel the shipped binary inspects: a
// symbol table, a run of physical pages, and a call chain on the boot
// stack deep enough to make backtrace interesting. It stands in for the
// live kernel the console would normally be embedded in.
func bootKernel() Collaborators {
	img := kern.Image{
		Start: imgStart,
		Entry: imgEntry,
		Etext: imgEtext,
		Edata: imgEdata,
		End:   imgEnd,
	}

	syms := kern.NewSymTab(img.Etext)
	syms.Add(imgEntry, "entry", 44)
	syms.Add(kern.KernBase+0x00100040, "i386_init", 24)
	syms.Add(kern.KernBase+0x001001c0, "monitor", 71)
	syms.Add(kern.KernBase+0x00100400, "mon_backtrace", 142)
	syms.Add(kern.KernBase+0x00100800, "cons_getc", 187)

	// The chain entry pushed a zero frame pointer, so unwinding ends at
	// its frame. Each caller's frame sits above its callee's.
	fpEntry := uint64(bootStackTop - 0x40)
	fpInit := fpEntry - 0x30
	fpMonitor := fpInit - 0x30
	fpBt := fpMonitor - 0x40

	mem := kern.NewSparseMemory()
	pushFrame(mem, fpEntry, 0, 0)
	pushFrame(mem, fpInit, fpEntry, imgEntry+0x28, 0, 0, 0, 0, 0)
	pushFrame(mem, fpMonitor, fpInit, kern.KernBase+0x00100040+0x3b, 0, 0, 0, 0, 0)
	pushFrame(mem, fpBt, fpMonitor, kern.KernBase+0x001001c0+0x5d, 1, fpBt+0x10, 0, 0, 0)

	cpu := kern.FrozenCPU{FP: fpBt, IP: kern.KernBase + 0x00100400 + 0x16}

	pages := kern.NewPageTable(0, 1024)

	return Collaborators{Mem: mem, Pages: pages, Syms: syms, CPU: cpu, Image: img}
}
