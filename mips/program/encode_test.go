package program

import "fmt"

// Test helpers assembling 32-character words field by field.

func bin(v int64, width int) string {
	mask := uint64(1)<<uint(width) - 1
	return fmt.Sprintf("%0*b", width, uint64(v)&mask)
}

func encCat1(op Opcode, rs, rt uint8, offset int64) string {
	return "00" + bin(int64(op), 4) + bin(int64(rs), 5) + bin(int64(rt), 5) + bin(offset, 16)
}

func encJump(field uint32) string {
	return "00" + bin(int64(J), 4) + bin(int64(field), 26)
}

func encCat2(op Opcode, dst, src1, src2 uint8) string {
	return "01" + bin(int64(src1), 5) + bin(int64(src2), 5) + bin(int64(op&0xF), 4) + bin(int64(dst), 5) + bin(0, 11)
}

func encCat3(op Opcode, dst, src uint8, value int64) string {
	return "10" + bin(int64(src), 5) + bin(int64(dst), 5) + bin(int64(op&0xF), 4) + bin(value, 16)
}

func encData(v int32) string {
	return bin(int64(v), 32)
}
