package interpreter

import (
	"fmt"

	"github.com/colorfulnotion/mipssim/mips/program"
)

// StepResult tells the engine where control goes after an instruction.
type StepResult struct {
	Next       uint32 // redirect address, valid when Redirected
	Redirected bool
	Taken      bool // a conditional branch took its target
}

// Execute applies inst to st. Registers and memory are the only state it
// touches; resolving Next to an instruction is left to the VM.
func Execute(inst program.Instruction, st *MachineState) (StepResult, error) {
	r := &st.Registers
	switch in := inst.(type) {
	case program.Jump:
		return StepResult{Next: in.Target, Redirected: true}, nil
	case program.BranchEqual:
		if r[in.Rs] == r[in.Rt] {
			return StepResult{Next: in.Target, Redirected: true, Taken: true}, nil
		}
	case program.BranchGreaterThanZero:
		if r[in.Rs] > 0 {
			return StepResult{Next: in.Target, Redirected: true, Taken: true}, nil
		}
	case program.Break:
	case program.StoreWord:
		if err := st.StoreWord(effectiveAddress(r[in.Base], in.Offset), r[in.Rt]); err != nil {
			return StepResult{}, err
		}
	case program.LoadWord:
		v, err := st.LoadWord(effectiveAddress(r[in.Base], in.Offset))
		if err != nil {
			return StepResult{}, err
		}
		r[in.Rt] = v
	case program.Add:
		r[in.Dst] = r[in.Src1] + r[in.Src2]
	case program.Sub:
		r[in.Dst] = r[in.Src1] - r[in.Src2]
	case program.Mul:
		r[in.Dst] = r[in.Src1] * r[in.Src2]
	case program.And:
		r[in.Dst] = bitwise(r[in.Src1], r[in.Src2], andBit)
	case program.Or:
		r[in.Dst] = bitwise(r[in.Src1], r[in.Src2], orBit)
	case program.Xor:
		r[in.Dst] = bitwise(r[in.Src1], r[in.Src2], xorBit)
	case program.Nor:
		r[in.Dst] = bitwise(r[in.Src1], r[in.Src2], norBit)
	case program.AddImmediate:
		r[in.Dst] = r[in.Src] + in.Imm
	case program.AndImmediate:
		r[in.Dst] = bitwise(r[in.Src], in.Imm, andBit)
	case program.OrImmediate:
		r[in.Dst] = bitwise(r[in.Src], in.Imm, orBit)
	case program.XorImmediate:
		r[in.Dst] = bitwise(r[in.Src], in.Imm, xorBit)
	default:
		panic(fmt.Sprintf("interpreter: unhandled instruction %T", inst))
	}
	return StepResult{}, nil
}

// effectiveAddress is computed in 64 bits so base+offset overflow faults instead of wrapping into range.
func effectiveAddress(base int32, offset int32) int64 {
	return int64(base) + int64(offset)
}

type bitOp func(a, b uint32) uint32

func andBit(a, b uint32) uint32 { return a & b }
func orBit(a, b uint32) uint32  { return a | b }
func xorBit(a, b uint32) uint32 { return a ^ b }
func norBit(a, b uint32) uint32 { return ^(a | b) & 1 }

// bitwise combines bit i of x and y with op for each of the 32 bits of
// their two's-complement representations.
func bitwise(x, y int32, op bitOp) int32 {
	a, b := uint32(x), uint32(y)
	var out uint32
	for i := 0; i < 32; i++ {
		out |= (op(a>>i&1, b>>i&1) & 1) << i
	}
	return int32(out)
}
