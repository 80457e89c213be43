package main

import (
	"strconv"

	"kmon/kern"
)

// A handler receives the full argument vector, argv[0] included. It
// reports its own failures on the console; the returned status only
// says whether the loop keeps running (negative means leave).
type cmdfunc func(m *Monitor, argv []string) int

type command struct {
	name string
	desc string
	fn   cmdfunc
}

// defaultCommands is the built-in registry. Order defines the help
// listing; lookup is a linear scan, first exact match wins.
func defaultCommands() []command {
	return []command{
		{"help", "Display this list of commands", (*Monitor).cmdHelp},
		{"kerninfo", "Display information about the kernel", (*Monitor).cmdKerninfo},
		{"alloc_page", "Display the address of allocated page", (*Monitor).cmdAllocPage},
		{"page_status", "Display the status of the page", (*Monitor).cmdPageStatus},
		{"free_page", "Free the page, successfully or not", (*Monitor).cmdFreePage},
		{"backtrace", "Backtrace the function call", (*Monitor).cmdBacktrace},
	}
}

// Register appends a custom command to the registry. Built-ins are
// matched first, so a duplicate name never shadows one.
func (m *Monitor) Register(name, desc string, fn cmdfunc) {
	m.cmds = append(m.cmds, command{name: name, desc: desc, fn: fn})
}

// dispatch resolves argv[0] against the registry in registration order
// and invokes the first exact, case-sensitive match. An empty vector is
// a no-op; an unknown name is a console message, never a failure.
func (m *Monitor) dispatch(argv []string) int {
	if len(argv) == 0 {
		return 0
	}
	for i := range m.cmds {
		if m.cmds[i].name == argv[0] {
			return m.cmds[i].fn(m, argv)
		}
	}
	m.printf("Unknown command '%s'\n", argv[0])
	return 0
}

func (m *Monitor) cmdHelp(argv []string) int {
	for _, c := range m.cmds {
		m.printf("%s - %s\n", c.name, c.desc)
	}
	return 0
}

func (m *Monitor) cmdKerninfo(argv []string) int {
	img := m.image
	m.printf("Special kernel symbols:\n")
	m.printf("  _start                  %08x (phys)\n", img.Start)
	m.printf("  entry  %08x (virt)  %08x (phys)\n", img.Entry, img.Entry-kern.KernBase)
	m.printf("  etext  %08x (virt)  %08x (phys)\n", img.Etext, img.Etext-kern.KernBase)
	m.printf("  edata  %08x (virt)  %08x (phys)\n", img.Edata, img.Edata-kern.KernBase)
	m.printf("  end    %08x (virt)  %08x (phys)\n", img.End, img.End-kern.KernBase)
	m.printf("Kernel executable memory footprint: %dKB\n", img.FootprintKB())
	return 0
}

func (m *Monitor) cmdAllocPage(argv []string) int {
	p, err := m.pages.Alloc()
	if err != nil {
		m.printf("    Page allocation failed\n")
		return 0
	}
	p.Ref++
	m.printf("    0x%x\n", p.Phys())
	return 0
}

// parseAddr accepts the decimal, octal and 0x hex forms strconv
// auto-detects with base 0.
func parseAddr(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}

func (m *Monitor) pageStatusUsage() {
	m.printf("Usage: page_status [ADDR]\n")
	m.printf("    Address must be aligned in 4KB\n")
}

func (m *Monitor) cmdPageStatus(argv []string) int {
	if len(argv) != 2 {
		m.pageStatusUsage()
		return 0
	}
	pa, err := parseAddr(argv[1])
	if err != nil {
		m.pageStatusUsage()
		return 0
	}
	p, err := m.pages.FromPhys(pa)
	if err != nil {
		m.printf("    %s\n", err)
		return 0
	}
	if p.Ref > 0 {
		m.printf("    Allocated\n")
	} else {
		m.printf("    free\n")
	}
	return 0
}

func (m *Monitor) freePageUsage() {
	m.printf("Usage: free_page [ADDR]\n")
	m.printf("    Address must be aligned in 4KB\n")
	m.printf("    Please make sure that the page is currently mounted 1 time\n")
}

func (m *Monitor) cmdFreePage(argv []string) int {
	if len(argv) != 2 {
		m.freePageUsage()
		return 0
	}
	pa, err := parseAddr(argv[1])
	if err != nil {
		m.freePageUsage()
		return 0
	}
	p, err := m.pages.FromPhys(pa)
	if err != nil {
		m.printf("    %s\n", err)
		return 0
	}
	if p.Ref != 1 {
		m.printf("    failed\n")
		return 0
	}
	if err := m.pages.Decref(p); err != nil {
		m.printf("    %s\n", err)
		return 0
	}
	m.printf("    Page freed successfully!\n")
	return 0
}

// cmdBacktrace reports the call stack twice: one pass dumping the raw
// frame words, one pass resolving each return address to a symbol. The
// register snapshot is taken once, before any unwinding.
func (m *Monitor) cmdBacktrace(argv []string) int {
	fp, ip := m.cpu.Snapshot()

	info := m.syms.Resolve(ip)
	m.printf("current eip=%08x %s %d\n", ip, info.Name, info.Line)

	hLine(m.out, "stack")
	w := newFrameWalker(m.mem, fp, m.cfg.MaxFrames)
	for {
		f, ok := w.next()
		if !ok {
			break
		}
		m.printf("ebp %08x eip %08x args", f.FP, f.RetAddr)
		for _, a := range f.Args {
			m.printf(" %08x", a)
		}
		m.printf("\n")
	}
	if w.truncated() {
		m.log.Debugf("frame chain cut after %d frames", m.cfg.MaxFrames)
	}

	hLine(m.out, "symbols")
	w = newFrameWalker(m.mem, fp, m.cfg.MaxFrames)
	for {
		f, ok := w.next()
		if !ok {
			break
		}
		info := m.syms.Resolve(f.RetAddr)
		m.printf("%s %d\n", info.Name, info.Line)
	}
	return 0
}
