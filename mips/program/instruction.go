package program

// Instruction is one decoded instruction. The set of implementations is
// closed: the seventeen variant types below, all plain values.
type Instruction interface {
	Opcode() Opcode
	String() string
	isInstruction()
}

// Jump transfers control to an absolute word address.
type Jump struct {
	Target uint32
}

// BranchEqual branches to Target when R[Rs] == R[Rt].
type BranchEqual struct {
	Rs, Rt uint8
	Offset int32 // already shifted left 2
	Target uint32
}

// BranchGreaterThanZero branches to Target when R[Rs] > 0.
type BranchGreaterThanZero struct {
	Rs     uint8
	Offset int32 // already shifted left 2
	Target uint32
}

// Break ends the instruction segment.
type Break struct{}

// MemOperand is the offset(Rbase) addressing shared by SW and LW.
type MemOperand struct {
	Base   uint8
	Rt     uint8
	Offset int32
}

type StoreWord struct{ MemOperand }
type LoadWord struct{ MemOperand }

// RType is the operand set of category 2: R[Dst] = R[Src1] op R[Src2].
type RType struct {
	Dst, Src1, Src2 uint8
}

type Add struct{ RType }
type Sub struct{ RType }
type Mul struct{ RType }
type And struct{ RType }
type Or struct{ RType }
type Xor struct{ RType }
type Nor struct{ RType }

// IType is the operand set of category 3: R[Dst] = R[Src] op Imm.
type IType struct {
	Dst, Src uint8
	Imm      int32
}

type AddImmediate struct{ IType }
type AndImmediate struct{ IType }
type OrImmediate struct{ IType }
type XorImmediate struct{ IType }

func (Jump) Opcode() Opcode                  { return J }
func (BranchEqual) Opcode() Opcode           { return BEQ }
func (BranchGreaterThanZero) Opcode() Opcode { return BGTZ }
func (Break) Opcode() Opcode                 { return BREAK }
func (StoreWord) Opcode() Opcode             { return SW }
func (LoadWord) Opcode() Opcode              { return LW }
func (Add) Opcode() Opcode                   { return ADD }
func (Sub) Opcode() Opcode                   { return SUB }
func (Mul) Opcode() Opcode                   { return MUL }
func (And) Opcode() Opcode                   { return AND }
func (Or) Opcode() Opcode                    { return OR }
func (Xor) Opcode() Opcode                   { return XOR }
func (Nor) Opcode() Opcode                   { return NOR }
func (AddImmediate) Opcode() Opcode          { return ADDI }
func (AndImmediate) Opcode() Opcode          { return ANDI }
func (OrImmediate) Opcode() Opcode           { return ORI }
func (XorImmediate) Opcode() Opcode          { return XORI }

func (Jump) isInstruction()                  {}
func (BranchEqual) isInstruction()           {}
func (BranchGreaterThanZero) isInstruction() {}
func (Break) isInstruction()                 {}
func (StoreWord) isInstruction()             {}
func (LoadWord) isInstruction()              {}
func (Add) isInstruction()                   {}
func (Sub) isInstruction()                   {}
func (Mul) isInstruction()                   {}
func (And) isInstruction()                   {}
func (Or) isInstruction()                    {}
func (Xor) isInstruction()                   {}
func (Nor) isInstruction()                   {}
func (AddImmediate) isInstruction()          {}
func (AndImmediate) isInstruction()          {}
func (OrImmediate) isInstruction()           {}
func (XorImmediate) isInstruction()          {}

// BranchTarget returns the static target of a control-transfer instruction.
func BranchTarget(inst Instruction) (uint32, bool) {
	switch in := inst.(type) {
	case Jump:
		return in.Target, true
	case BranchEqual:
		return in.Target, true
	case BranchGreaterThanZero:
		return in.Target, true
	}
	return 0, false
}
