package kern

import (
	"errors"
	"fmt"
)

// PageSize is the physical page granularity of the monitored kernel.
const PageSize = 4096

// PageInfo is the allocator's handle for one physical page. Ref counts
// outstanding references; callers that keep a page take one themselves.
type PageInfo struct {
	pa  uint64
	Ref uint16
}

// Phys returns the page's physical address.
func (p *PageInfo) Phys() uint64 { return p.pa }

var ErrNoFreePage = errors.New("out of free pages")

// PageTable is the physical page allocator: a fixed run of pages
// starting at base, handed out from a free list.
type PageTable struct {
	base  uint64
	pages []PageInfo
	free  []*PageInfo
}

func NewPageTable(base uint64, npages int) *PageTable {
	pt := &PageTable{base: base, pages: make([]PageInfo, npages)}
	for i := range pt.pages {
		pt.pages[i].pa = base + uint64(i)*PageSize
	}
	// LIFO free list, low addresses on top.
	for i := npages - 1; i >= 0; i-- {
		pt.free = append(pt.free, &pt.pages[i])
	}
	return pt
}

// Alloc hands out a free page with a zero reference count. Taking a
// reference is the caller's business.
func (pt *PageTable) Alloc() (*PageInfo, error) {
	if len(pt.free) == 0 {
		return nil, ErrNoFreePage
	}
	p := pt.free[len(pt.free)-1]
	pt.free = pt.free[:len(pt.free)-1]
	return p, nil
}

// FromPhys maps a physical address back to its page handle. The address
// must be page aligned and inside the managed run.
func (pt *PageTable) FromPhys(pa uint64) (*PageInfo, error) {
	if pa%PageSize != 0 {
		return nil, fmt.Errorf("address 0x%x is not page aligned", pa)
	}
	if pa < pt.base || pa >= pt.base+uint64(len(pt.pages))*PageSize {
		return nil, fmt.Errorf("no page at physical address 0x%x", pa)
	}
	return &pt.pages[(pa-pt.base)/PageSize], nil
}

// Decref drops one reference and returns the page to the free list when
// the last one goes away.
func (pt *PageTable) Decref(p *PageInfo) error {
	if p.Ref == 0 {
		return errors.New("decref of a free page")
	}
	p.Ref--
	if p.Ref == 0 {
		pt.free = append(pt.free, p)
	}
	return nil
}
