package interpreter

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/colorfulnotion/mipssim/mips/program"
	"github.com/colorfulnotion/mipssim/mips/trace"
	"github.com/colorfulnotion/mipssim/simerrors"
)

const wordSize = 4

// MachineState is the register file and the word-addressed data segment.
type MachineState struct {
	Registers  [trace.NumRegisters]int32
	Memory     []int32
	MemoryBase uint32
}

// NewMachineState returns zeroed registers and a private copy of the program's data words.
func NewMachineState(p *program.Program) *MachineState {
	return &MachineState{
		Memory:     slices.Clone(p.Data),
		MemoryBase: p.MemoryBase,
	}
}

func (st *MachineState) index(addr int64) (int, error) {
	off := addr - int64(st.MemoryBase)
	if off < 0 || off%wordSize != 0 || off/wordSize >= int64(len(st.Memory)) {
		return 0, fmt.Errorf("address %d (data segment %d..%d): %w", addr, st.MemoryBase, int64(st.MemoryBase)+int64(len(st.Memory))*wordSize-wordSize, simerrors.ErrMemoryFault)
	}
	return int(off / wordSize), nil
}

// LoadWord reads the word at addr.
func (st *MachineState) LoadWord(addr int64) (int32, error) {
	i, err := st.index(addr)
	if err != nil {
		return 0, err
	}
	return st.Memory[i], nil
}

// StoreWord writes v to the word at addr.
func (st *MachineState) StoreWord(addr int64, v int32) error {
	i, err := st.index(addr)
	if err != nil {
		return err
	}
	st.Memory[i] = v
	return nil
}

// Snapshot records the current registers and memory into step.
func (st *MachineState) Snapshot(step *trace.TraceStep) {
	step.SetPostRegisters(&st.Registers)
	step.SetPostMemory(st.MemoryBase, st.Memory)
}
