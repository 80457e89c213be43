package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmon/kern"
)

func testMonitor(t *testing.T, c Collaborators) (*Monitor, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return NewMonitor(defaultConfig(), out, c), out
}

func TestDispatchBlankLineIsNoop(t *testing.T) {
	m, out := testMonitor(t, bootKernel())
	status := m.runLine("   \t ")
	assert.Equal(t, 0, status)
	assert.Empty(t, out.String())
}

func TestHelpListsCommandsInOrder(t *testing.T) {
	m, out := testMonitor(t, bootKernel())
	status := m.runLine("help")
	require.Equal(t, 0, status)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, len(m.cmds))
	for i, c := range m.cmds {
		assert.Equal(t, fmt.Sprintf("%s - %s", c.name, c.desc), lines[i])
	}
}

func TestUnknownCommandKeepsLoopAlive(t *testing.T) {
	m, out := testMonitor(t, bootKernel())
	status := m.runLine("bogus 1 2")
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "Unknown command 'bogus'")
}

func TestTooManyTokensIsNotDispatched(t *testing.T) {
	m, out := testMonitor(t, bootKernel())
	status := m.runLine("bogus " + strings.Repeat("x ", maxArgs))
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "too many arguments")
	assert.NotContains(t, out.String(), "Unknown command")
}

func TestNegativeStatusEndsLoop(t *testing.T) {
	m, _ := testMonitor(t, bootKernel())
	m.Register("reboot", "Leave the console", func(m *Monitor, argv []string) int {
		return -1
	})
	assert.Negative(t, m.runLine("reboot"))
}

func TestRegisterNeverShadowsBuiltins(t *testing.T) {
	m, out := testMonitor(t, bootKernel())
	m.Register("help", "impostor", func(m *Monitor, argv []string) int {
		return -1
	})
	status := m.runLine("help")
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "Display this list of commands")
}

func TestKerninfoReportsLayout(t *testing.T) {
	m, out := testMonitor(t, bootKernel())
	require.Equal(t, 0, m.runLine("kerninfo"))
	assert.Contains(t, out.String(), "Special kernel symbols:")
	assert.Contains(t, out.String(), "Kernel executable memory footprint:")
}

func pageCollaborators(npages int) Collaborators {
	c := bootKernel()
	c.Pages = kern.NewPageTable(0, npages)
	return c
}

func TestAllocPageTakesReference(t *testing.T) {
	c := pageCollaborators(4)
	m, out := testMonitor(t, c)

	require.Equal(t, 0, m.runLine("alloc_page"))
	assert.Contains(t, out.String(), "0x")

	pa, err := parseAddr(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	p, err := c.Pages.FromPhys(pa)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), p.Ref)
}

func TestAllocPageExhaustion(t *testing.T) {
	m, out := testMonitor(t, pageCollaborators(1))
	require.Equal(t, 0, m.runLine("alloc_page"))
	out.Reset()
	require.Equal(t, 0, m.runLine("alloc_page"))
	assert.Contains(t, out.String(), "Page allocation failed")
}

func TestPageStatusUsageWithoutArgument(t *testing.T) {
	c := pageCollaborators(4)
	m, out := testMonitor(t, c)
	status := m.runLine("page_status")
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "Usage: page_status [ADDR]")
	// No allocator call was made: every page still has a zero refcount.
	for pa := uint64(0); pa < 4*kern.PageSize; pa += kern.PageSize {
		p, err := c.Pages.FromPhys(pa)
		require.NoError(t, err)
		assert.Zero(t, p.Ref)
	}
}

func TestPageStatusMalformedAddress(t *testing.T) {
	m, out := testMonitor(t, pageCollaborators(4))
	assert.Equal(t, 0, m.runLine("page_status zzz"))
	assert.Contains(t, out.String(), "Usage: page_status [ADDR]")
}

func TestPageStatusReportsRefcount(t *testing.T) {
	c := pageCollaborators(4)
	m, out := testMonitor(t, c)

	require.Equal(t, 0, m.runLine("page_status 0x1000"))
	assert.Contains(t, out.String(), "free")

	p, err := c.Pages.FromPhys(0x1000)
	require.NoError(t, err)
	p.Ref++

	out.Reset()
	require.Equal(t, 0, m.runLine("page_status 0x1000"))
	assert.Contains(t, out.String(), "Allocated")
}

func TestFreePageSingleReference(t *testing.T) {
	c := pageCollaborators(4)
	p, err := c.Pages.FromPhys(0x1000)
	require.NoError(t, err)
	p.Ref = 1

	m, out := testMonitor(t, c)
	require.Equal(t, 0, m.runLine("free_page 0x1000"))
	assert.Contains(t, out.String(), "Page freed successfully!")
	assert.Zero(t, p.Ref)
}

func TestFreePageWrongRefcountCallsNothing(t *testing.T) {
	for _, ref := range []uint16{0, 2, 5} {
		c := pageCollaborators(4)
		p, err := c.Pages.FromPhys(0x2000)
		require.NoError(t, err)
		p.Ref = ref

		m, out := testMonitor(t, c)
		require.Equal(t, 0, m.runLine("free_page 0x2000"))
		assert.Contains(t, out.String(), "failed")
		assert.Equal(t, ref, p.Ref, "refcount %d must be untouched", ref)
	}
}

func TestFreePageUsageWithoutArgument(t *testing.T) {
	m, out := testMonitor(t, pageCollaborators(4))
	assert.Equal(t, 0, m.runLine("free_page"))
	assert.Contains(t, out.String(), "Usage: free_page [ADDR]")
}

func TestBacktraceTwoPasses(t *testing.T) {
	m, out := testMonitor(t, bootKernel())
	require.Equal(t, 0, m.runLine("backtrace"))
	text := out.String()

	assert.Contains(t, text, "current eip=")
	assert.Contains(t, text, "mon_backtrace")

	// Pass one: one raw dump line per staged frame.
	assert.Equal(t, 4, strings.Count(text, "ebp "))

	// Pass two: each return address resolved independently; the chain
	// runs monitor -> i386_init -> entry and bottoms out unresolved.
	for _, sym := range []string{"monitor 71", "i386_init 24", "entry 44", kern.Unknown.Name} {
		assert.Contains(t, text, sym)
	}

	// The raw dump comes first.
	assert.Less(t, strings.Index(text, "ebp "), strings.Index(text, "monitor 71"))
}
