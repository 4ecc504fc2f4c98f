package program

import (
	"strconv"
	"strings"
)

func reg(idx uint8) string {
	return "R" + strconv.Itoa(int(idx))
}

func imm(v int64) string {
	return "#" + strconv.FormatInt(v, 10)
}

// format joins a mnemonic and its operands as "MNEMONIC a, b, c".
func format(mnemonic string, operands ...string) string {
	if len(operands) == 0 {
		return mnemonic
	}
	return mnemonic + " " + strings.Join(operands, ", ")
}

func (m MemOperand) operands() []string {
	return []string{reg(m.Rt), strconv.Itoa(int(m.Offset)) + "(" + reg(m.Base) + ")"}
}

func (r RType) render(op Opcode) string {
	return format(op.String(), reg(r.Dst), reg(r.Src1), reg(r.Src2))
}

func (i IType) render(op Opcode) string {
	return format(op.String(), reg(i.Dst), reg(i.Src), imm(int64(i.Imm)))
}

func (in Jump) String() string { return format(J.String(), imm(int64(int32(in.Target)))) }

func (in BranchEqual) String() string {
	return format(BEQ.String(), reg(in.Rs), reg(in.Rt), imm(int64(in.Offset)))
}

func (in BranchGreaterThanZero) String() string {
	return format(BGTZ.String(), reg(in.Rs), imm(int64(in.Offset)))
}

func (Break) String() string { return BREAK.String() }

func (in StoreWord) String() string { return format(SW.String(), in.operands()...) }
func (in LoadWord) String() string  { return format(LW.String(), in.operands()...) }

func (in Add) String() string { return in.render(ADD) }
func (in Sub) String() string { return in.render(SUB) }
func (in Mul) String() string { return in.render(MUL) }
func (in And) String() string { return in.render(AND) }
func (in Or) String() string  { return in.render(OR) }
func (in Xor) String() string { return in.render(XOR) }
func (in Nor) String() string { return in.render(NOR) }

func (in AddImmediate) String() string { return in.render(ADDI) }
func (in AndImmediate) String() string { return in.render(ANDI) }
func (in OrImmediate) String() string  { return in.render(ORI) }
func (in XorImmediate) String() string { return in.render(XORI) }
