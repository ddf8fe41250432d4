package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jacoelho/ringbuf"
)

type opKind int

const (
	opPush opKind = iota
	opPop
	opDump
)

type op struct {
	kind  opKind
	value uint32
}

// parseScript turns "push 1 push 0x2 pop dump" into operations.
func parseScript(args []string) ([]op, error) {
	var ops []op
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "push":
			if i+1 >= len(args) {
				return nil, errors.New("push: missing value")
			}
			i++
			v, err := strconv.ParseUint(args[i], 0, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "push: invalid value %q", args[i])
			}
			ops = append(ops, op{kind: opPush, value: uint32(v)})
		case "pop":
			ops = append(ops, op{kind: opPop})
		case "dump":
			ops = append(ops, op{kind: opDump})
		default:
			return nil, errors.Errorf("unknown operation %q", args[i])
		}
	}
	return ops, nil
}

// runScript applies ops to r, writing one line per operation to out.
// Rejected pushes and pops are reported, not returned as errors.
func runScript(out io.Writer, logger *zap.Logger, r *ringbuf.RingBuffer, ops []op) error {
	for _, o := range ops {
		var line string
		switch o.kind {
		case opPush:
			switch err := r.Push(o.value); {
			case err == nil:
				line = fmt.Sprintf("push %d: ok", o.value)
			case errors.Is(err, ringbuf.ErrFull):
				line = fmt.Sprintf("push %d: full", o.value)
			default:
				return err
			}
		case opPop:
			v, err := r.Pop()
			switch {
			case err == nil:
				line = fmt.Sprintf("pop: %d", v)
			case errors.Is(err, ringbuf.ErrEmpty):
				line = "pop: empty"
			default:
				return err
			}
		case opDump:
			line = fmt.Sprintf("cap=%d len=%d write=%d read=%d state=%s",
				r.Cap(), r.Len(), r.WriteCursor(), r.ReadCursor(), r.State())
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
		ringbuf.Dump(logger, "step", r)
	}
	return nil
}
