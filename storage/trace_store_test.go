package storage

import (
	"testing"

	"github.com/colorfulnotion/mipssim/mips/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStep(cycle int, r1 int32, mem ...int32) *trace.TraceStep {
	s := trace.NewTraceStep(cycle, uint32(124+4*cycle), "ADDI R1, R1, #1")
	var regs [trace.NumRegisters]int32
	regs[1] = r1
	s.SetPostRegisters(&regs)
	s.SetPostMemory(160, mem)
	return s
}

func TestTraceStorePutGet(t *testing.T) {
	ts, err := OpenTraceStore("")
	require.NoError(t, err)
	defer ts.Close()

	want := makeStep(3, -7, 1, 2, 3)
	require.NoError(t, ts.PutStep(want))

	got, err := ts.GetStep(3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ts.GetStep(4)
	assert.ErrorIs(t, err, ErrStepNotFound)
}

func TestTraceStoreStepsInCycleOrder(t *testing.T) {
	ts, err := OpenTraceStore("")
	require.NoError(t, err)
	defer ts.Close()

	// 256 and 1 would misorder under a decimal key encoding
	for _, c := range []int{256, 2, 1, 10} {
		require.NoError(t, ts.PutStep(makeStep(c, int32(c))))
	}
	steps, err := ts.Steps()
	require.NoError(t, err)
	var cycles []int
	for _, s := range steps {
		cycles = append(cycles, s.Cycle)
	}
	assert.Equal(t, []int{1, 2, 10, 256}, cycles)

	n, err := ts.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestTraceStoreBatchAndSummary(t *testing.T) {
	dir := t.TempDir()
	ts, err := OpenTraceStore(dir)
	require.NoError(t, err)

	require.NoError(t, ts.PutSteps([]*trace.TraceStep{makeStep(1, 1), makeStep(2, 2, 9)}))
	_, found, err := ts.GetSummary()
	require.NoError(t, err)
	assert.False(t, found)

	sum := RunSummary{Input: "sample.txt", Cycles: 2, MemoryBase: 160, Status: "faulted", Error: "X1|MemoryFault"}
	require.NoError(t, ts.PutSummary(sum))
	require.NoError(t, ts.Close())

	ts, err = OpenTraceStore(dir)
	require.NoError(t, err)
	defer ts.Close()

	got, found, err := ts.GetSummary()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sum, got)

	step, err := ts.GetStep(2)
	require.NoError(t, err)
	assert.Equal(t, []int32{9}, step.Memory)
}
