package draw

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/colorfulnotion/mipssim/mips/program"
	"github.com/colorfulnotion/mipssim/mips/trace"
)

// BasicBlock is a maximal run of instructions entered only at its first
// address and left only after its last.
type BasicBlock struct {
	Start      uint32
	Entries    []program.Entry
	Succ       []uint32 // start addresses of successor blocks
	Unresolved []uint32 // transfer targets with no instruction
}

// End is the address of the block's last instruction.
func (b *BasicBlock) End() uint32 {
	return b.Entries[len(b.Entries)-1].Address
}

// Label names a block by its address range.
func (b *BasicBlock) Label() string {
	if len(b.Entries) == 1 {
		return fmt.Sprintf("B%d", b.Start)
	}
	return fmt.Sprintf("B%d-%d", b.Start, b.End())
}

// ControlFlow is the basic-block graph of a program.
type ControlFlow struct {
	Blocks  []*BasicBlock
	byStart map[uint32]*BasicBlock
}

// Block returns the block starting at addr.
func (cf *ControlFlow) Block(addr uint32) (*BasicBlock, bool) {
	b, ok := cf.byStart[addr]
	return b, ok
}

// BuildControlFlow splits p into basic blocks. Leaders are the first
// instruction, every resolvable transfer target, and every instruction
// following a transfer.
func BuildControlFlow(p *program.Program) *ControlFlow {
	cf := &ControlFlow{byStart: make(map[uint32]*BasicBlock)}
	if p.Len() == 0 {
		return cf
	}

	leaders := map[uint32]bool{p.Entries[0].Address: true}
	for i, e := range p.Entries {
		target, ok := program.BranchTarget(e.Instruction)
		if !ok {
			continue
		}
		if _, found := p.At(target); found {
			leaders[target] = true
		}
		if i+1 < len(p.Entries) {
			leaders[p.Entries[i+1].Address] = true
		}
	}

	var cur *BasicBlock
	for _, e := range p.Entries {
		if leaders[e.Address] {
			cur = &BasicBlock{Start: e.Address}
			cf.Blocks = append(cf.Blocks, cur)
			cf.byStart[e.Address] = cur
		}
		cur.Entries = append(cur.Entries, e)
	}

	for _, b := range cf.Blocks {
		last := b.Entries[len(b.Entries)-1]
		op := last.Instruction.Opcode()
		if target, ok := program.BranchTarget(last.Instruction); ok {
			if _, found := p.At(target); found {
				b.Succ = append(b.Succ, target)
			} else {
				b.Unresolved = append(b.Unresolved, target)
			}
		}
		if op == program.BREAK || op == program.J {
			continue
		}
		if next, ok := p.Next(last.Address); ok && !slices.Contains(b.Succ, next.Address) {
			b.Succ = append(b.Succ, next.Address)
		}
	}
	return cf
}

// Visits counts how many times each block was entered in steps.
func (cf *ControlFlow) Visits(steps []*trace.TraceStep) map[uint32]int {
	visits := make(map[uint32]int)
	for _, s := range steps {
		if _, ok := cf.byStart[s.Address]; ok {
			visits[s.Address]++
		}
	}
	return visits
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
