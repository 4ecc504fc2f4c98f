package trace

import (
	"golang.org/x/exp/slices"
)

// NumRegisters is the size of the register file.
const NumRegisters = 32

// TraceStep is the record of one executed instruction with the machine
// state as it stood after the instruction completed.
type TraceStep struct {
	Cycle      int                 `json:"cycle"`
	Address    uint32              `json:"address"`
	Text       string              `json:"text"`
	Registers  [NumRegisters]int32 `json:"registers"`
	MemoryBase uint32              `json:"memoryBase"`
	Memory     []int32             `json:"memory"`
}

func NewTraceStep(cycle int, address uint32, text string) *TraceStep {
	return &TraceStep{
		Cycle:   cycle,
		Address: address,
		Text:    text,
	}
}

func (ts *TraceStep) SetPostRegisters(regs *[NumRegisters]int32) {
	ts.Registers = *regs
}

func (ts *TraceStep) SetPostMemory(base uint32, words []int32) {
	ts.MemoryBase = base
	ts.Memory = slices.Clone(words)
	if ts.Memory == nil {
		ts.Memory = []int32{}
	}
}

// MemoryAt returns the word recorded at addr, if addr is an aligned address of the data segment.
func (ts *TraceStep) MemoryAt(addr uint32) (int32, bool) {
	if addr < ts.MemoryBase || (addr-ts.MemoryBase)%4 != 0 {
		return 0, false
	}
	i := int((addr - ts.MemoryBase) / 4)
	if i >= len(ts.Memory) {
		return 0, false
	}
	return ts.Memory[i], true
}
