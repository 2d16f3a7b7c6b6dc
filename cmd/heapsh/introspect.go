package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/srini2021m/HeapManager"
)

var errNoHeap = errors.New("heapsh: this command needs the heap allocator backend (--allocator heap)")

func (r *Runner) dumpAddr(a uintptr) string {
	if r.relative && r.heap != nil {
		a -= r.heap.Base()
	}
	return fmt.Sprintf("%#08x", a)
}

func (r *Runner) cmdShowHeap(args []string) error {
	if r.heap == nil {
		return errNoHeap
	}
	if r.verbose {
		r.log.Info("-- heap --")
	}
	r.heap.Walk(func(b heap.Block) bool {
		state := "FREE"
		switch {
		case b.Sentinel:
			state = "XXXX"
		case b.Used:
			state = "USED"
		}
		r.log.Infof("%s %#08x %s", r.dumpAddr(r.heap.Base()+uintptr(b.Offset)), b.Size, state)
		return true
	})
	return nil
}

func (r *Runner) showSlot(i int) string {
	s := r.slotOrDie(i)
	return fmt.Sprintf("slot num:%d ptr:%s sz:%#x", i, r.dumpAddr(addrOf(s.ptr)), s.sz)
}

func (r *Runner) cmdShowSlot(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	r.log.Info(r.showSlot(i))
	return nil
}

func (r *Runner) cmdShowSlots(args []string) error {
	if r.verbose {
		r.log.Info("-- slots --")
	}
	for i, s := range r.slots {
		if s.ptr == nil && s.sz == 0 {
			continue
		}
		r.log.Info(r.showSlot(i))
	}
	return nil
}

func (r *Runner) cmdShowBrk(args []string) error {
	if r.heap == nil {
		return errNoHeap
	}
	if err := r.heap.EnsureInit(); err != nil {
		return err
	}
	cur, err := r.heap.BreakAddr()
	if err != nil {
		return err
	}
	r.log.Infof("brk: %s", r.dumpAddr(cur))
	return nil
}

func (r *Runner) cmdAlignBrk(args []string) error {
	if r.heap == nil {
		return errNoHeap
	}
	// EnsureInit already leaves the break Align-aligned (§4.1), so this
	// command's only job with this allocator is to guarantee init has run.
	return r.heap.EnsureInit()
}

func (r *Runner) cmdCheckSentinel(args []string) error {
	if r.heap == nil {
		return errNoHeap
	}
	var last heap.Block
	found := false
	r.heap.Walk(func(b heap.Block) bool {
		if b.Sentinel {
			last, found = b, true
			return false
		}
		return true
	})
	if !found || last.Size != 0 || !last.Used {
		return errors.New("bad sentinel")
	}
	return nil
}

func (r *Runner) cmdBlockToSlot(args []string) error {
	if r.heap == nil {
		return errNoHeap
	}
	block, err := parseUint(args[0])
	if err != nil {
		return err
	}
	slotIdx, err := parseUint(args[1])
	if err != nil {
		return err
	}

	b, ok := r.heap.BlockAt(block)
	if !ok {
		return errors.New("blocktoslot: hit sentinel before finding block")
	}

	s := r.slotOrDie(slotIdx)
	s.ptr = r.heap.PayloadAt(b.Offset)
	s.sz = len(s.ptr)
	return nil
}

func (r *Runner) cmdDumpSlot(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	if r.verbose {
		r.log.Infof("-- %s --", r.showSlot(i))
	}
	s := r.slotOrDie(i)
	r.log.Infof("  payload (%d bytes): % x", s.sz, s.ptr)
	return nil
}

func (r *Runner) cmdMark(args []string) error {
	r.log.Info("----")
	return nil
}

func (r *Runner) cmdChecks(args []string) error {
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrap(err, "checks")
	}
	r.checks = v != 0
	return nil
}

func (r *Runner) cmdRel(args []string) error {
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrap(err, "rel")
	}
	r.relative = v != 0
	return nil
}

func (r *Runner) cmdVerbose(args []string) error {
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrap(err, "v")
	}
	r.verbose = v != 0
	return nil
}
