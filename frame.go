package main

import "kmon/kern"

// frameArgs is how many argument words one frame dump shows. The
// calling convention puts scalar arguments right above the return
// address; whether the callee really had that many is unknowable here,
// so this is best-effort display.
const frameArgs = 5

// StackFrame is one unwind step: the frame pointer it was read at, the
// return address saved above it, and the raw argument words.
type StackFrame struct {
	FP      uint64
	RetAddr uint64
	Args    [frameArgs]uint64
}

// frameWalker unwinds a frame-pointer chain lazily. The chain is
// trusted but unverified: a zero saved pointer ends it, and the visited
// set plus the frame bound cut corrupted or circular chains. Walkers
// are one-shot; re-walking means a new walker from the original start
// pointer.
type frameWalker struct {
	mem     kern.Memory
	fp      uint64
	max     int
	n       int
	visited map[uint64]bool
	done    bool
	cut     bool
}

func newFrameWalker(mem kern.Memory, fp uint64, max int) *frameWalker {
	return &frameWalker{mem: mem, fp: fp, max: max, visited: make(map[uint64]bool)}
}

// next produces the frame at the current pointer and steps to the saved
// caller pointer. ok is false once the chain is exhausted.
func (w *frameWalker) next() (StackFrame, bool) {
	if w.done || w.fp == 0 {
		w.done = true
		return StackFrame{}, false
	}
	if w.n >= w.max || w.visited[w.fp] {
		w.done = true
		w.cut = true
		return StackFrame{}, false
	}
	w.visited[w.fp] = true

	saved, err := w.mem.ReadWord(w.fp)
	if err != nil {
		w.done = true
		return StackFrame{}, false
	}
	ret, err := w.mem.ReadWord(w.fp + kern.WordSize)
	if err != nil {
		w.done = true
		return StackFrame{}, false
	}

	f := StackFrame{FP: w.fp, RetAddr: ret}
	for i := 0; i < frameArgs; i++ {
		// Argument slots may run off the mapped stack; show zeros there.
		if word, err := w.mem.ReadWord(w.fp + uint64(2+i)*kern.WordSize); err == nil {
			f.Args[i] = word
		}
	}

	w.n++
	w.fp = saved
	return f, true
}

// truncated reports whether the frame bound or a cycle cut the walk
// before a zero frame pointer ended it.
func (w *frameWalker) truncated() bool { return w.cut }
