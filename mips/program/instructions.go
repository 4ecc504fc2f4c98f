package program

// Opcode identifies one instruction across all categories: the category
// index (0, 1, 2 for bit patterns 00, 01, 10) in the high nibble and the
// in-category opcode field in the low nibble.
type Opcode uint8

// Category 1: control transfer and memory (leading bits 00).
const (
	J     Opcode = 0x00
	BEQ   Opcode = 0x02
	BGTZ  Opcode = 0x04
	BREAK Opcode = 0x05
	SW    Opcode = 0x06
	LW    Opcode = 0x07
)

// Category 2: register-register ALU (leading bits 01).
const (
	ADD Opcode = 0x10
	SUB Opcode = 0x11
	MUL Opcode = 0x12
	AND Opcode = 0x13
	OR  Opcode = 0x14
	XOR Opcode = 0x15
	NOR Opcode = 0x16
)

// Category 3: register-immediate ALU (leading bits 10).
const (
	ADDI Opcode = 0x20
	ANDI Opcode = 0x21
	ORI  Opcode = 0x22
	XORI Opcode = 0x23
)

// Category bit patterns.
const (
	Category1 = 0 // 00
	Category2 = 1 // 01
	Category3 = 2 // 10
)

// opcodeNames maps opcodes to their mnemonics
var opcodeNames = map[Opcode]string{
	J:     "J",
	BEQ:   "BEQ",
	BGTZ:  "BGTZ",
	BREAK: "BREAK",
	SW:    "SW",
	LW:    "LW",
	ADD:   "ADD",
	SUB:   "SUB",
	MUL:   "MUL",
	AND:   "AND",
	OR:    "OR",
	XOR:   "XOR",
	NOR:   "NOR",
	ADDI:  "ADDI",
	ANDI:  "ANDI",
	ORI:   "ORI",
	XORI:  "XORI",
}

// String returns the mnemonic of an opcode
func (op Opcode) String() string {
	name, exists := opcodeNames[op]
	if !exists {
		return "UNKNOWN"
	}
	return name
}

// Category returns the category index encoded in the opcode.
func (op Opcode) Category() int {
	return int(op >> 4)
}

// IsControlTransfer returns true if the opcode may redirect the program counter
func IsControlTransfer(op Opcode) bool {
	switch op {
	case J, BEQ, BGTZ:
		return true
	}
	return false
}

// IsConditional returns true for branches that may fall through
func IsConditional(op Opcode) bool {
	return op == BEQ || op == BGTZ
}

// IsMemoryAccess returns true if the opcode reads or writes data memory
func IsMemoryAccess(op Opcode) bool {
	return op == SW || op == LW
}

// IsBitwise returns true for the bit-by-bit logical family
func IsBitwise(op Opcode) bool {
	switch op {
	case AND, OR, XOR, NOR, ANDI, ORI, XORI:
		return true
	}
	return false
}
