package main

import (
	"github.com/pkg/errors"
)

// cmdSpec is this package's analogue of tester.c's CMD(name, count) macro:
// a command name, its fixed argument count, and the handler to dispatch to.
type cmdSpec struct {
	argc int
	fn   func(*Runner, []string) error
}

var commands = map[string]cmdSpec{
	"malloc":        {2, (*Runner).cmdMalloc},
	"free":          {1, (*Runner).cmdFree},
	"doublefree":    {1, (*Runner).cmdDoubleFree},
	"freeall":       {0, (*Runner).cmdFreeAll},
	"realloc":       {2, (*Runner).cmdRealloc},
	"killslot":      {1, (*Runner).cmdKillSlot},
	"poke":          {3, (*Runner).cmdPoke},
	"pokes":         {3, (*Runner).cmdPokes},
	"peek":          {2, (*Runner).cmdPeek},
	"peek32":        {2, (*Runner).cmdPeek32},
	"peeks":         {2, (*Runner).cmdPeeks},
	"fillslot":      {3, (*Runner).cmdFillSlot},
	"checkslot":     {2, (*Runner).cmdCheckSlot},
	"checksentinel": {0, (*Runner).cmdCheckSentinel},
	"dumpslot":      {1, (*Runner).cmdDumpSlot},
	"blocktoslot":   {2, (*Runner).cmdBlockToSlot},
	"showheap":      {0, (*Runner).cmdShowHeap},
	"showslot":      {1, (*Runner).cmdShowSlot},
	"showslots":     {0, (*Runner).cmdShowSlots},
	"showbrk":       {0, (*Runner).cmdShowBrk},
	"alignbrk":      {0, (*Runner).cmdAlignBrk},
	"mark":          {0, (*Runner).cmdMark},
	"checks":        {1, (*Runner).cmdChecks},
	"rel":           {1, (*Runner).cmdRel},
	"v":             {1, (*Runner).cmdVerbose},
}

// Run dispatches the flat token stream tokens against r, one command at a
// time, exactly as tester.c's main loop walks argv: each command consumes
// its name plus a fixed number of following tokens as arguments. "--"
// tokens are skipped, letting a script separate commands visually without
// affecting dispatch.
func (r *Runner) Run(tokens []string) error {
	for i := 0; i < len(tokens); {
		name := tokens[i]
		if name == "--" {
			i++
			continue
		}

		spec, ok := commands[name]
		if !ok {
			return errors.Errorf("command not found: %s", name)
		}

		if i+1+spec.argc > len(tokens) {
			return errors.Errorf("bad number of arguments for %q at token %d", name, i)
		}

		args := tokens[i+1 : i+1+spec.argc]
		if err := spec.fn(r, args); err != nil {
			return errors.Wrapf(err, "%s (token %d)", name, i)
		}

		r.log.WithFields(logFields(name, args)).Debug("dispatched")
		i += 1 + spec.argc
	}
	return nil
}

func logFields(name string, args []string) map[string]any {
	f := map[string]any{"cmd": name}
	for i, a := range args {
		f[argFieldName(i)] = a
	}
	return f
}

func argFieldName(i int) string {
	switch i {
	case 0:
		return "arg0"
	case 1:
		return "arg1"
	default:
		return "arg2"
	}
}
