package main

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"unsafe"

	"github.com/pkg/errors"
)

// hashOf reproduces tester.c's byte-checksum: a small multiplicative/xor
// mix over the low 32 bits of (address + offset + size), used both to fill
// a fresh allocation with a verifiable pattern and to check it back later.
func hashOf(ptr uintptr, sz, offset int) byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(ptr)+uint32(offset)+uint32(sz))
	h := uint32(buf[0])
	h = h*7 ^ uint32(buf[1])
	h = h*13 ^ uint32(buf[2])
	h = h*41 ^ uint32(buf[3])
	return byte(h)
}

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func (r *Runner) slotOrDie(i int) *slot {
	if i < 0 || i >= numSlots {
		panic(fmt.Sprintf("heapsh: slot index %d out of range", i))
	}
	return &r.slots[i]
}

func (r *Runner) fillcheck(s *slot) {
	if !r.checks || s.ptr == nil {
		return
	}
	chk := hashOf(addrOf(s.ptr), s.sz, 0)
	for i := range s.ptr {
		s.ptr[i] = chk
	}
}

func (r *Runner) check(s *slot) error {
	if s.ptr == nil {
		return nil
	}
	chk := hashOf(addrOf(s.ptr), s.sz, 0)
	return r.checkValue(s.ptr, chk, false)
}

func (r *Runner) checkValue(data []byte, want byte, force bool) error {
	if !r.checks && !force {
		return nil
	}
	for i, got := range data {
		if got != want {
			return errors.Errorf("bad check value at offset %d (got %#02x, want %#02x)", i, got, want)
		}
	}
	return nil
}

func (r *Runner) cmdMalloc(args []string) error {
	slot, size, err := parseSlotSize(args)
	if err != nil {
		return err
	}
	s := r.slotOrDie(slot)
	b, err := r.back.Malloc(size)
	if err != nil {
		return errors.Wrap(err, "malloc")
	}
	s.ptr, s.sz = b, size
	r.fillcheck(s)
	return nil
}

func (r *Runner) freeSlot(i int) error {
	s := r.slotOrDie(i)
	if s.ptr != nil {
		if err := r.check(s); err != nil {
			return err
		}
	}
	if err := r.back.Free(s.ptr); err != nil {
		return errors.Wrap(err, "free")
	}
	s.ptr, s.sz = nil, 0
	return nil
}

func (r *Runner) cmdFree(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	return r.freeSlot(i)
}

func (r *Runner) cmdDoubleFree(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	saved := *r.slotOrDie(i)
	if err := r.freeSlot(i); err != nil {
		return err
	}
	*r.slotOrDie(i) = saved
	return r.freeSlot(i)
}

func (r *Runner) cmdFreeAll(args []string) error {
	for i := range r.slots {
		if r.slots[i].ptr == nil && r.slots[i].sz == 0 {
			continue
		}
		if err := r.freeSlot(i); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) cmdRealloc(args []string) error {
	slot, size, err := parseSlotSize(args)
	if err != nil {
		return err
	}
	s := r.slotOrDie(slot)
	chk := byte(0)
	if s.ptr != nil {
		chk = hashOf(addrOf(s.ptr), s.sz, 0)
	}

	b, err := r.back.Realloc(s.ptr, size)
	if err != nil {
		return errors.Wrap(err, "realloc")
	}

	n := s.sz
	if n > size {
		n = size
	}
	if err := r.checkValue(b[:n], chk, false); err != nil {
		return errors.Wrap(err, "realloc: old data not preserved")
	}

	s.ptr, s.sz = b, size
	r.fillcheck(s)
	return nil
}

func (r *Runner) cmdKillSlot(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	s := r.slotOrDie(i)
	s.ptr, s.sz = nil, 0
	return nil
}

func (r *Runner) cmdPoke(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	off, err := parseUint(args[1])
	if err != nil {
		return err
	}
	val, err := parseUint(args[2])
	if err != nil {
		return err
	}
	r.slotOrDie(i).ptr[off] = byte(val)
	return nil
}

func (r *Runner) cmdPokes(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	off, err := parseUint(args[1])
	if err != nil {
		return err
	}
	copy(r.slotOrDie(i).ptr[off:], args[2]+"\x00")
	return nil
}

func (r *Runner) cmdFillSlot(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	off, err := parseUint(args[1])
	if err != nil {
		return err
	}
	byteArg, err := strconv.Atoi(args[2])
	if err != nil {
		return errors.Wrap(err, "fillslot: byte value")
	}

	s := r.slotOrDie(i)
	val := byte(byteArg)
	if byteArg == -1 {
		val = hashOf(addrOf(s.ptr), s.sz, 0)
	}
	for j := off; j < len(s.ptr); j++ {
		s.ptr[j] = val
	}
	return nil
}

func (r *Runner) cmdCheckSlot(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	byteArg, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrap(err, "checkslot: byte value")
	}

	s := r.slotOrDie(i)
	val := byte(byteArg)
	if byteArg == -1 {
		val = hashOf(addrOf(s.ptr), s.sz, 0)
	}
	return r.checkValue(s.ptr, val, true)
}

func (r *Runner) cmdPeek(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	off, err := parseUint(args[1])
	if err != nil {
		return err
	}
	s := r.slotOrDie(i)
	r.log.Infof("peek %s 0x%02x", r.dumpAddr(addrOf(s.ptr)+uintptr(off)), s.ptr[off])
	return nil
}

func (r *Runner) cmdPeek32(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	off, err := parseUint(args[1])
	if err != nil {
		return err
	}
	s := r.slotOrDie(i)
	v := binary.LittleEndian.Uint32(s.ptr[off : off+4])
	r.log.Infof("peek32 slot+off:%d+%d ptr:%s val:%#08x", i, off, r.dumpAddr(addrOf(s.ptr)+uintptr(off)), v)
	return nil
}

func (r *Runner) cmdPeeks(args []string) error {
	i, err := parseUint(args[0])
	if err != nil {
		return err
	}
	off, err := parseUint(args[1])
	if err != nil {
		return err
	}
	s := r.slotOrDie(i)
	end := off
	for end < len(s.ptr) && s.ptr[end] != 0 {
		end++
	}
	r.log.Infof("peeks slot+off:%d+%d ptr:%s str:%s", i, off, r.dumpAddr(addrOf(s.ptr)+uintptr(off)), string(s.ptr[off:end]))
	return nil
}

func parseSlotSize(args []string) (slot, size int, err error) {
	slot, err = parseUint(args[0])
	if err != nil {
		return 0, 0, err
	}
	size, err = parseUint(args[1])
	if err != nil {
		return 0, 0, err
	}
	return slot, size, nil
}

func parseUint(s string) (int, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "bad integer argument %q", s)
	}
	return int(n), nil
}
