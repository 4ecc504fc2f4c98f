package program

import (
	"fmt"

	"github.com/colorfulnotion/mipssim/log"
	"github.com/colorfulnotion/mipssim/simerrors"
)

// Field boundaries, relative to the 30 bits following the category bits.
const (
	categoryBits = 2

	// Category 1
	c1OpcodeLo, c1OpcodeHi = 0, 4
	c1RsLo, c1RsHi         = 4, 9
	c1RtLo, c1RtHi         = 9, 14
	c1OffsetLo, c1OffsetHi = 14, 30
	c1TargetLo, c1TargetHi = 4, 30

	// Category 2
	c2Src1Lo, c2Src1Hi     = 0, 5
	c2Src2Lo, c2Src2Hi     = 5, 10
	c2OpcodeLo, c2OpcodeHi = 10, 14
	c2DstLo, c2DstHi       = 14, 19

	// Category 3
	c3SrcLo, c3SrcHi       = 0, 5
	c3DstLo, c3DstHi       = 5, 10
	c3OpcodeLo, c3OpcodeHi = 10, 14
	c3ImmLo, c3ImmHi       = 14, 30
)

// InstructionStep is the address distance between consecutive lines.
const InstructionStep = 4

// Decode turns one 32-character binary word found at address into an Instruction.
func Decode(address uint32, word string) (Instruction, error) {
	if _, err := ParseWord(word); err != nil {
		return nil, err
	}
	category, err := ParseUnsigned(word, 0, categoryBits)
	if err != nil {
		return nil, err
	}
	rest := word[categoryBits:]

	var inst Instruction
	switch category {
	case Category1:
		inst, err = decodeCategory1(address, rest)
	case Category2:
		inst, err = decodeCategory2(rest)
	case Category3:
		inst, err = decodeCategory3(rest)
	default:
		return nil, fmt.Errorf("category bits %s: %w", word[:categoryBits], simerrors.ErrUnknownCategory)
	}
	if err != nil {
		return nil, err
	}
	log.Trace(log.DecoderMonitoring, "decoded", "address", address, "word", word, "text", inst.String())
	return inst, nil
}

func decodeCategory1(address uint32, bits string) (Instruction, error) {
	opcode, err := ParseUnsigned(bits, c1OpcodeLo, c1OpcodeHi)
	if err != nil {
		return nil, err
	}
	switch Opcode(opcode) {
	case J:
		field, err := ParseUnsigned(bits, c1TargetLo, c1TargetHi)
		if err != nil {
			return nil, err
		}
		return Jump{Target: JumpTarget(address, field)}, nil
	case BEQ:
		rs, rt, offset, err := twoRegsOneOffset(bits)
		if err != nil {
			return nil, err
		}
		offset <<= 2
		return BranchEqual{Rs: rs, Rt: rt, Offset: offset, Target: BranchTargetOf(address, offset)}, nil
	case BGTZ:
		rs, _, offset, err := twoRegsOneOffset(bits)
		if err != nil {
			return nil, err
		}
		offset <<= 2
		return BranchGreaterThanZero{Rs: rs, Offset: offset, Target: BranchTargetOf(address, offset)}, nil
	case BREAK:
		return Break{}, nil
	case SW, LW:
		base, rt, offset, err := twoRegsOneOffset(bits)
		if err != nil {
			return nil, err
		}
		m := MemOperand{Base: base, Rt: rt, Offset: offset}
		if Opcode(opcode) == SW {
			return StoreWord{m}, nil
		}
		return LoadWord{m}, nil
	}
	return nil, fmt.Errorf("category 1 opcode %d: %w", opcode, simerrors.ErrUnknownOpcode)
}

// twoRegsOneOffset extracts the rs, rt and 16-bit signed offset fields of category 1.
func twoRegsOneOffset(bits string) (rs, rt uint8, offset int32, err error) {
	a, err := ParseUnsigned(bits, c1RsLo, c1RsHi)
	if err != nil {
		return
	}
	b, err := ParseUnsigned(bits, c1RtLo, c1RtHi)
	if err != nil {
		return
	}
	offset, err = ParseSigned(bits, c1OffsetLo, c1OffsetHi)
	return uint8(a), uint8(b), offset, err
}

func decodeCategory2(bits string) (Instruction, error) {
	src1, err := ParseUnsigned(bits, c2Src1Lo, c2Src1Hi)
	if err != nil {
		return nil, err
	}
	src2, err := ParseUnsigned(bits, c2Src2Lo, c2Src2Hi)
	if err != nil {
		return nil, err
	}
	opcode, err := ParseUnsigned(bits, c2OpcodeLo, c2OpcodeHi)
	if err != nil {
		return nil, err
	}
	dst, err := ParseUnsigned(bits, c2DstLo, c2DstHi)
	if err != nil {
		return nil, err
	}
	r := RType{Dst: uint8(dst), Src1: uint8(src1), Src2: uint8(src2)}
	switch Opcode(Category2<<4 | opcode) {
	case ADD:
		return Add{r}, nil
	case SUB:
		return Sub{r}, nil
	case MUL:
		return Mul{r}, nil
	case AND:
		return And{r}, nil
	case OR:
		return Or{r}, nil
	case XOR:
		return Xor{r}, nil
	case NOR:
		return Nor{r}, nil
	}
	return nil, fmt.Errorf("category 2 opcode %d: %w", opcode, simerrors.ErrUnknownOpcode)
}

func decodeCategory3(bits string) (Instruction, error) {
	src, err := ParseUnsigned(bits, c3SrcLo, c3SrcHi)
	if err != nil {
		return nil, err
	}
	dst, err := ParseUnsigned(bits, c3DstLo, c3DstHi)
	if err != nil {
		return nil, err
	}
	opcode, err := ParseUnsigned(bits, c3OpcodeLo, c3OpcodeHi)
	if err != nil {
		return nil, err
	}
	value, err := ParseSigned(bits, c3ImmLo, c3ImmHi)
	if err != nil {
		return nil, err
	}
	i := IType{Dst: uint8(dst), Src: uint8(src), Imm: value}
	switch Opcode(Category3<<4 | opcode) {
	case ADDI:
		return AddImmediate{i}, nil
	case ANDI:
		return AndImmediate{i}, nil
	case ORI:
		return OrImmediate{i}, nil
	case XORI:
		return XorImmediate{i}, nil
	}
	return nil, fmt.Errorf("category 3 opcode %d: %w", opcode, simerrors.ErrUnknownOpcode)
}

// JumpTarget keeps the top 4 bits of address+4 and replaces the rest with field<<2.
func JumpTarget(address uint32, field uint32) uint32 {
	return ((address + InstructionStep) & 0xF0000000) | (field << 2 & 0x0FFFFFFF)
}

// BranchTargetOf is address + 4 + offset, where offset is already shifted.
func BranchTargetOf(address uint32, offset int32) uint32 {
	return uint32(int64(address) + InstructionStep + int64(offset))
}
