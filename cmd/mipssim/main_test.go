package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colorfulnotion/mipssim/config"
	"github.com/colorfulnotion/mipssim/mips/program"
	"github.com/colorfulnotion/mipssim/mips/trace"
	"github.com/colorfulnotion/mipssim/simerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addi(dst, src uint8, imm int32) program.Instruction {
	return program.AddImmediate{IType: program.IType{Dst: dst, Src: src, Imm: imm}}
}

// storeFive: 128 ADD, 132 ADDI, 136 SW, 140 BREAK, data at 144.
var storeFive = []program.Instruction{
	program.Add{RType: program.RType{Dst: 1}},
	addi(1, 1, 5),
	program.StoreWord{MemOperand: program.MemOperand{Rt: 1, Offset: 144}},
	program.Break{},
}

func writeProgram(t *testing.T, dir string, insts []program.Instruction, data ...int32) string {
	t.Helper()
	lines, err := program.Assemble(insts, data)
	require.NoError(t, err)
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func testConfig(t *testing.T, insts []program.Instruction, data ...int32) *config.CommandConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input = writeProgram(t, dir, insts, data...)
	cfg.DisassemblyFile = filepath.Join(dir, "disassembly.txt")
	cfg.SimulationFile = filepath.Join(dir, "simulation.txt")
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSimulateWritesBothReports(t *testing.T) {
	cfg := testConfig(t, storeFive, 0, -2)
	require.NoError(t, simulate(cfg))

	lines, err := program.Assemble(storeFive, []int32{0, -2})
	require.NoError(t, err)
	wantDisasm := lines[0] + "\t128\tADD R1, R0, R0\n" +
		lines[1] + "\t132\tADDI R1, R1, #5\n" +
		lines[2] + "\t136\tSW R1, 144(R0)\n" +
		lines[3] + "\t140\tBREAK\n" +
		lines[4] + "\t144\t0\n" +
		lines[5] + "\t148\t-2\n"
	assert.Equal(t, wantDisasm, readFile(t, cfg.DisassemblyFile))

	sim := readFile(t, cfg.SimulationFile)
	assert.Equal(t, 4, strings.Count(sim, "--------------------\n"))
	assert.Contains(t, sim, "Cycle:1\t128\tADD R1, R0, R0\n\nRegisters\n")
	assert.Contains(t, sim, "Cycle:4\t140\tBREAK\n")
	assert.True(t, strings.HasSuffix(sim, "Data\n144:\t5\t-2\n\n"))
}

func TestSimulateKeepsPartialTraceOnFault(t *testing.T) {
	cfg := testConfig(t, []program.Instruction{
		addi(1, 0, 1),
		program.LoadWord{MemOperand: program.MemOperand{Rt: 2, Offset: 3}},
		program.Break{},
	})
	err := simulate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, simerrors.ErrMemoryFault)
	assert.Equal(t, exitExecution, exitCode(err))

	sim := readFile(t, cfg.SimulationFile)
	assert.Equal(t, 1, strings.Count(sim, "Cycle:"))
	assert.Contains(t, sim, "Cycle:1\t128\tADDI R1, R0, #1")
}

func TestSimulateRejectsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input = filepath.Join(dir, "bad.txt")
	cfg.DisassemblyFile = filepath.Join(dir, "disassembly.txt")
	cfg.SimulationFile = filepath.Join(dir, "simulation.txt")
	require.NoError(t, os.WriteFile(cfg.Input, []byte("11000000000000000000000000000000\n"), 0o644))

	err := simulate(cfg)
	assert.ErrorIs(t, err, simerrors.ErrUnknownCategory)
	assert.Equal(t, exitDecode, exitCode(err))
	assert.NoFileExists(t, cfg.DisassemblyFile)
	assert.NoFileExists(t, cfg.SimulationFile)

	cfg.Input = filepath.Join(dir, "missing.txt")
	err = simulate(cfg)
	assert.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestRunRecordsTraceAndVerifies(t *testing.T) {
	cfg := testConfig(t, storeFive, 0, -2)
	dir := filepath.Dir(cfg.Input)
	cfg.TraceFile = filepath.Join(dir, "trace.jsonl")
	require.NoError(t, simulate(cfg))

	var out bytes.Buffer
	require.NoError(t, verify(cfg, cfg.TraceFile, &out))
	assert.Equal(t, "traces match\n", out.String())

	steps, err := trace.ReadJSONLFile(cfg.TraceFile)
	require.NoError(t, err)
	require.Len(t, steps, 4)
	steps[1].Registers[1] = 6
	tampered := filepath.Join(dir, "tampered.jsonl")
	w, err := trace.NewJSONLTraceWriterFile(tampered)
	require.NoError(t, err)
	for _, s := range steps {
		require.NoError(t, w.WriteStep(s))
	}
	require.NoError(t, w.Close())

	out.Reset()
	err = verify(cfg, tampered, &out)
	assert.ErrorIs(t, err, errTraceMismatch)
	assert.Contains(t, out.String(), "cycle 2")
}

func TestRunStoreThenInspect(t *testing.T) {
	cfg := testConfig(t, storeFive, 0, -2)
	cfg.StoreDir = filepath.Join(t.TempDir(), "store")
	require.NoError(t, simulate(cfg))

	var out bytes.Buffer
	require.NoError(t, inspect(cfg.StoreDir, 0, &out))
	assert.Contains(t, out.String(), "cycles: 4\nstatus: halted\nmemory base: 144\n")
	assert.Contains(t, out.String(), "3\t136\tSW R1, 144(R0)\n")

	out.Reset()
	require.NoError(t, inspect(cfg.StoreDir, 2, &out))
	assert.Contains(t, out.String(), "Cycle:2\t132\tADDI R1, R1, #5\n")

	assert.Error(t, inspect(cfg.StoreDir, 9, &out))
	assert.Error(t, inspect(filepath.Join(t.TempDir(), "nope"), 0, &out))
}

func TestShowControlFlow(t *testing.T) {
	cfg := testConfig(t, storeFive, 0)
	html := filepath.Join(t.TempDir(), "cfg.html")

	var out bytes.Buffer
	require.NoError(t, showControlFlow(cfg, html, &out))
	assert.Contains(t, out.String(), "program: 1 blocks")
	assert.Contains(t, out.String(), "[B128-140 x1]  4 instructions")
	assert.Contains(t, readFile(t, html), "B128-140")
}

func TestRootCommandWithConfigFile(t *testing.T) {
	cfg := testConfig(t, storeFive, 7)
	cfgPath := filepath.Join(t.TempDir(), "run.json")
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", cfgPath})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, cfg.DisassemblyFile)
	assert.Contains(t, readFile(t, cfg.SimulationFile), "Cycle:4\t140\tBREAK")
}

func TestDisasmCommandToStdout(t *testing.T) {
	cfg := testConfig(t, storeFive)
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"disasm", "--stdout", cfg.Input})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, 4, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), "\t140\tBREAK\n")
}

func TestRunCommandMaxCycles(t *testing.T) {
	cfg := testConfig(t, []program.Instruction{program.Jump{Target: 128}, program.Break{}})
	cfgPath := filepath.Join(t.TempDir(), "run.json")
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cmd := newRootCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--config", cfgPath, "--max-cycles", "25"})
	err = cmd.Execute()
	assert.ErrorIs(t, err, simerrors.ErrCycleLimit)
	assert.Equal(t, 25, strings.Count(readFile(t, cfg.SimulationFile), "Cycle:"))
}
