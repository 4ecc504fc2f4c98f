package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/colorfulnotion/mipssim/config"
	"github.com/colorfulnotion/mipssim/log"
	"github.com/colorfulnotion/mipssim/mips/interpreter"
	"github.com/colorfulnotion/mipssim/mips/program"
	"github.com/colorfulnotion/mipssim/mips/trace"
	"github.com/colorfulnotion/mipssim/storage"
)

func loadProgram(path string) (*program.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := program.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info(log.CLIMonitoring, "loaded program", "input", path, "instructions", p.Len(), "data", len(p.Data))
	return p, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// attachSinks registers the optional JSONL trace file and LevelDB store on
// vm. The returned finish func records the outcome and closes both.
func attachSinks(cfg *config.CommandConfig, vm *interpreter.VM) (func(runErr error) error, error) {
	var tw *trace.JSONLTraceWriter
	if cfg.TraceFile != "" {
		var err error
		if tw, err = trace.NewJSONLTraceWriterFile(cfg.TraceFile); err != nil {
			return nil, err
		}
		vm.OnStep(tw.WriteStep)
	}

	var store *storage.TraceStore
	if cfg.StoreDir != "" {
		var err error
		if store, err = storage.OpenTraceStore(cfg.StoreDir); err != nil {
			if tw != nil {
				tw.Close()
			}
			return nil, err
		}
		vm.OnStep(store.PutStep)
	}

	return func(runErr error) error {
		var errs []error
		if tw != nil {
			errs = append(errs, tw.Close())
		}
		if store != nil {
			sum := storage.RunSummary{
				Input:      cfg.Input,
				Cycles:     len(vm.Trace()),
				MemoryBase: vm.Program().MemoryBase,
				Status:     vm.Status().String(),
			}
			if runErr != nil {
				sum.Error = runErr.Error()
			}
			errs = append(errs, store.PutSummary(sum), store.Close())
		}
		return errors.Join(errs...)
	}, nil
}

// simulate is the whole default pipeline: decode the input, write the
// disassembly, run, and write the simulation report. The report is written
// even when the run faults, holding every step executed before the fault.
func simulate(cfg *config.CommandConfig) error {
	p, err := loadProgram(cfg.Input)
	if err != nil {
		return err
	}
	if err := writeFile(cfg.DisassemblyFile, func(w io.Writer) error {
		return trace.WriteDisassembly(w, p.Lines)
	}); err != nil {
		return err
	}

	vm := interpreter.NewVM(p)
	finish, err := attachSinks(cfg, vm)
	if err != nil {
		return err
	}
	_, runErr := vm.RunWithLimit(cfg.MaxCycles)
	if err := finish(runErr); err != nil && runErr == nil {
		runErr = err
	}

	if err := writeFile(cfg.SimulationFile, func(w io.Writer) error {
		return trace.WriteSimulation(w, vm.Trace())
	}); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}
	log.Info(log.CLIMonitoring, "simulation complete", "cycles", len(vm.Trace()), "disassembly", cfg.DisassemblyFile, "simulation", cfg.SimulationFile)
	return nil
}

// disassemble writes only the disassembly listing, to out or to the configured file.
func disassemble(cfg *config.CommandConfig, out io.Writer) error {
	p, err := loadProgram(cfg.Input)
	if err != nil {
		return err
	}
	if out != nil {
		return trace.WriteDisassembly(out, p.Lines)
	}
	return writeFile(cfg.DisassemblyFile, func(w io.Writer) error {
		return trace.WriteDisassembly(w, p.Lines)
	})
}
