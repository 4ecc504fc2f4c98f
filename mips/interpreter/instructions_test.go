package interpreter

import (
	"math"
	"math/rand"
	"testing"

	"github.com/colorfulnotion/mipssim/mips/program"
	"github.com/colorfulnotion/mipssim/simerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(data ...int32) *MachineState {
	return &MachineState{Memory: data, MemoryBase: 200}
}

func TestBitwiseMatchesNativeOperators(t *testing.T) {
	pairs := [][2]int32{
		{0, 0}, {-1, 0}, {-1, -1}, {5, -3}, {-5, 3}, {math.MinInt32, -1},
		{math.MaxInt32, math.MinInt32}, {0x0F0F0F0F, -0x0F0F0F10}, {-2, 1},
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		pairs = append(pairs, [2]int32{int32(rng.Uint32()), int32(rng.Uint32())})
	}

	r := program.RType{Dst: 3, Src1: 1, Src2: 2}
	for _, p := range pairs {
		a, b := p[0], p[1]
		want := map[program.Instruction]int32{
			program.And{RType: r}: a & b,
			program.Or{RType: r}:  a | b,
			program.Xor{RType: r}: a ^ b,
			program.Nor{RType: r}: ^(a | b),
		}
		for inst, expected := range want {
			st := newState()
			st.Registers[1], st.Registers[2] = a, b
			_, err := Execute(inst, st)
			require.NoError(t, err)
			require.Equal(t, expected, st.Registers[3], "%s with %d, %d", inst.Opcode(), a, b)
		}
	}
}

func TestBitwiseImmediateWithNegativeOperands(t *testing.T) {
	i := program.IType{Dst: 2, Src: 1}
	for _, a := range []int32{-1, -12345, 77, math.MinInt32} {
		for _, imm := range []int32{-1, -32768, 32767, 0, 0x00F0} {
			i.Imm = imm
			for inst, expected := range map[program.Instruction]int32{
				program.AndImmediate{IType: i}: a & imm,
				program.OrImmediate{IType: i}:  a | imm,
				program.XorImmediate{IType: i}: a ^ imm,
			} {
				st := newState()
				st.Registers[1] = a
				_, err := Execute(inst, st)
				require.NoError(t, err)
				assert.Equal(t, expected, st.Registers[2], "%s %d, %d", inst.Opcode(), a, imm)
			}
		}
	}
}

func TestArithmeticWrapsAround(t *testing.T) {
	r := program.RType{Dst: 3, Src1: 1, Src2: 2}
	st := newState()

	st.Registers[1], st.Registers[2] = math.MaxInt32, 1
	_, err := Execute(program.Add{RType: r}, st)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), st.Registers[3])

	st.Registers[1], st.Registers[2] = math.MinInt32, 1
	_, err = Execute(program.Sub{RType: r}, st)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), st.Registers[3])

	st.Registers[1], st.Registers[2] = 0x10000, 0x10000
	_, err = Execute(program.Mul{RType: r}, st)
	require.NoError(t, err)
	assert.Equal(t, int32(0), st.Registers[3])

	st.Registers[1], st.Registers[2] = -7, 6
	_, err = Execute(program.Mul{RType: r}, st)
	require.NoError(t, err)
	assert.Equal(t, int32(-42), st.Registers[3])

	st.Registers[1] = math.MaxInt32
	_, err = Execute(program.AddImmediate{IType: program.IType{Dst: 4, Src: 1, Imm: 2}}, st)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32+1), st.Registers[4])
}

func TestStoreThenLoadSameAddress(t *testing.T) {
	st := newState(0, 0, 0)
	st.Registers[1] = 196 // base
	st.Registers[2] = -99

	_, err := Execute(program.StoreWord{MemOperand: program.MemOperand{Base: 1, Rt: 2, Offset: 8}}, st)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, -99, 0}, st.Memory)

	_, err = Execute(program.LoadWord{MemOperand: program.MemOperand{Base: 1, Rt: 3, Offset: 8}}, st)
	require.NoError(t, err)
	assert.Equal(t, int32(-99), st.Registers[3])
}

func TestMemoryFaults(t *testing.T) {
	for _, tc := range []struct {
		name   string
		base   int32
		offset int32
	}{
		{"misaligned", 200, 2},
		{"below segment", 200, -4},
		{"past end", 200, 8},
		{"negative address", -4, 0},
		{"no 32-bit wrap", math.MaxInt32, 32767},
	} {
		t.Run(tc.name, func(t *testing.T) {
			st := newState(1, 2)
			st.Registers[1] = tc.base
			_, err := Execute(program.LoadWord{MemOperand: program.MemOperand{Base: 1, Rt: 2, Offset: tc.offset}}, st)
			assert.ErrorIs(t, err, simerrors.ErrMemoryFault)
			_, err = Execute(program.StoreWord{MemOperand: program.MemOperand{Base: 1, Rt: 2, Offset: tc.offset}}, st)
			assert.ErrorIs(t, err, simerrors.ErrMemoryFault)
			assert.Equal(t, []int32{1, 2}, st.Memory)
		})
	}
}

func TestBranchDecisions(t *testing.T) {
	st := newState()
	beq := program.NewBranchEqual(128, 1, 2, 12)

	st.Registers[1], st.Registers[2] = 3, 3
	res, err := Execute(beq, st)
	require.NoError(t, err)
	assert.Equal(t, StepResult{Next: 144, Redirected: true, Taken: true}, res)

	st.Registers[2] = 4
	res, err = Execute(beq, st)
	require.NoError(t, err)
	assert.False(t, res.Redirected)

	bgtz := program.NewBranchGreaterThanZero(128, 1, -4)
	for v, taken := range map[int32]bool{1: true, 0: false, -1: false, math.MinInt32: false, math.MaxInt32: true} {
		st.Registers[1] = v
		res, err = Execute(bgtz, st)
		require.NoError(t, err)
		assert.Equal(t, taken, res.Redirected, "R1=%d", v)
		if taken {
			assert.Equal(t, uint32(128), res.Next)
		}
	}

	res, err = Execute(program.Jump{Target: 400}, st)
	require.NoError(t, err)
	assert.Equal(t, StepResult{Next: 400, Redirected: true}, res)

	res, err = Execute(program.Break{}, st)
	require.NoError(t, err)
	assert.Equal(t, StepResult{}, res)
}
