package kern

// CPU captures the register state a backtrace starts from. Snapshot is
// read once, before any unwinding.
type CPU interface {
	Snapshot() (fp, ip uint64)
}

// FrozenCPU is a CPU whose registers never change, standing in for the
// trap-time register capture of a live kernel.
type FrozenCPU struct {
	FP uint64
	IP uint64
}

func (c FrozenCPU) Snapshot() (fp, ip uint64) { return c.FP, c.IP }
