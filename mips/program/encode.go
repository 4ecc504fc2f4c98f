package program

import (
	"fmt"
	"strings"
)

func field(v int64, width int) string {
	mask := uint64(1)<<uint(width) - 1
	s := fmt.Sprintf("%b", uint64(v)&mask)
	return strings.Repeat("0", width-len(s)) + s
}

func fitsSigned(v int32, width int) bool {
	lim := int32(1) << (width - 1)
	return v >= -lim && v < lim
}

// Encode is the inverse of Decode: it renders inst as the 32-digit word that
// decodes back to it. Branch offsets must be multiples of 4 and fit 16 bits
// after the shift; jump targets must share the top 4 bits of address+4.
func Encode(address uint32, inst Instruction) (string, error) {
	op := int64(inst.Opcode() & 0xF)
	switch in := inst.(type) {
	case Jump:
		if JumpTarget(address, in.Target>>2&0x3FFFFFF) != in.Target {
			return "", fmt.Errorf("jump target %d not reachable from %d", in.Target, address)
		}
		return "00" + field(op, 4) + field(int64(in.Target>>2), 26), nil
	case BranchEqual:
		return encodeBranch(address, op, in.Rs, in.Rt, in.Offset, in.Target)
	case BranchGreaterThanZero:
		return encodeBranch(address, op, in.Rs, 0, in.Offset, in.Target)
	case Break:
		return "00" + field(op, 4) + strings.Repeat("0", 26), nil
	case StoreWord:
		return encodeMem(op, in.MemOperand)
	case LoadWord:
		return encodeMem(op, in.MemOperand)
	case Add:
		return encodeRType(op, in.RType), nil
	case Sub:
		return encodeRType(op, in.RType), nil
	case Mul:
		return encodeRType(op, in.RType), nil
	case And:
		return encodeRType(op, in.RType), nil
	case Or:
		return encodeRType(op, in.RType), nil
	case Xor:
		return encodeRType(op, in.RType), nil
	case Nor:
		return encodeRType(op, in.RType), nil
	case AddImmediate:
		return encodeIType(op, in.IType)
	case AndImmediate:
		return encodeIType(op, in.IType)
	case OrImmediate:
		return encodeIType(op, in.IType)
	case XorImmediate:
		return encodeIType(op, in.IType)
	}
	return "", fmt.Errorf("cannot encode %T", inst)
}

func encodeBranch(address uint32, op int64, rs, rt uint8, offset int32, target uint32) (string, error) {
	if offset%4 != 0 || !fitsSigned(offset>>2, 16) {
		return "", fmt.Errorf("branch offset %d out of range", offset)
	}
	if BranchTargetOf(address, offset) != target {
		return "", fmt.Errorf("branch target %d does not match offset %d from %d", target, offset, address)
	}
	return "00" + field(op, 4) + field(int64(rs), 5) + field(int64(rt), 5) + field(int64(offset>>2), 16), nil
}

func encodeMem(op int64, m MemOperand) (string, error) {
	if !fitsSigned(m.Offset, 16) {
		return "", fmt.Errorf("memory offset %d out of range", m.Offset)
	}
	return "00" + field(op, 4) + field(int64(m.Base), 5) + field(int64(m.Rt), 5) + field(int64(m.Offset), 16), nil
}

func encodeRType(op int64, r RType) string {
	return "01" + field(int64(r.Src1), 5) + field(int64(r.Src2), 5) + field(op, 4) + field(int64(r.Dst), 5) + strings.Repeat("0", 11)
}

func encodeIType(op int64, i IType) (string, error) {
	if !fitsSigned(i.Imm, 16) {
		return "", fmt.Errorf("immediate %d out of range", i.Imm)
	}
	return "10" + field(int64(i.Src), 5) + field(int64(i.Dst), 5) + field(op, 4) + field(int64(i.Imm), 16), nil
}

// NewBranchEqual builds a BEQ at address whose target is address+4+offset.
func NewBranchEqual(address uint32, rs, rt uint8, offset int32) BranchEqual {
	return BranchEqual{Rs: rs, Rt: rt, Offset: offset, Target: BranchTargetOf(address, offset)}
}

// NewBranchGreaterThanZero builds a BGTZ at address whose target is address+4+offset.
func NewBranchGreaterThanZero(address uint32, rs uint8, offset int32) BranchGreaterThanZero {
	return BranchGreaterThanZero{Rs: rs, Offset: offset, Target: BranchTargetOf(address, offset)}
}

// Assemble encodes a sequence of instructions placed from BaseAddress on,
// followed by data words, into input lines.
func Assemble(insts []Instruction, data []int32) ([]string, error) {
	lines := make([]string, 0, len(insts)+len(data))
	addr := BaseAddress
	for _, inst := range insts {
		w, err := Encode(addr, inst)
		if err != nil {
			return nil, fmt.Errorf("address %d: %w", addr, err)
		}
		lines = append(lines, w)
		addr += InstructionStep
	}
	for _, v := range data {
		lines = append(lines, field(int64(v), WordBits))
	}
	return lines, nil
}
