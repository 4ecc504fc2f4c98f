package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/colorfulnotion/mipssim/config"
	"github.com/colorfulnotion/mipssim/log"
	"github.com/colorfulnotion/mipssim/mips/draw"
	"github.com/colorfulnotion/mipssim/mips/interpreter"
	"github.com/colorfulnotion/mipssim/mips/trace"
	"github.com/colorfulnotion/mipssim/storage"
)

const (
	maxReportedMismatches = 5
	// bound for runs made only to gather statistics
	visitCycleLimit = 100000
)

var errTraceMismatch = errors.New("trace does not match expected")

// verify runs the input and compares its trace with a recorded JSONL trace.
func verify(cfg *config.CommandConfig, expectedPath string, out io.Writer) error {
	p, err := loadProgram(cfg.Input)
	if err != nil {
		return err
	}
	expected, err := trace.ReadJSONLFile(expectedPath)
	if err != nil {
		return err
	}

	vm := interpreter.NewVM(p)
	if _, err := vm.RunWithLimit(cfg.MaxCycles); err != nil {
		log.Warn(log.CLIMonitoring, "run stopped early", "cycles", len(vm.Trace()), "err", err)
	}

	report, err := trace.Diff(expected, vm.Trace(), maxReportedMismatches)
	if err != nil {
		return err
	}
	fmt.Fprint(out, report.String())
	if !report.Equal() {
		return fmt.Errorf("%s: %w", expectedPath, errTraceMismatch)
	}
	return nil
}

// showControlFlow prints the basic-block tree of the input, annotated with
// how often each block ran, and optionally writes the graph page to htmlPath.
func showControlFlow(cfg *config.CommandConfig, htmlPath string, out io.Writer) error {
	p, err := loadProgram(cfg.Input)
	if err != nil {
		return err
	}
	cf := draw.BuildControlFlow(p)

	limit := cfg.MaxCycles
	if limit == 0 {
		limit = visitCycleLimit
	}
	vm := interpreter.NewVM(p)
	if _, err := vm.RunWithLimit(limit); err != nil {
		log.Warn(log.CLIMonitoring, "visit counts are partial", "cycles", len(vm.Trace()), "err", err)
	}
	visits := cf.Visits(vm.Trace())

	fmt.Fprintln(out, draw.ControlFlowTree(cf, visits).String())
	if htmlPath == "" {
		return nil
	}
	return writeFile(htmlPath, func(w io.Writer) error {
		return draw.RenderGraphPage(w, cf, visits, filepath.Base(cfg.Input))
	})
}

// inspect prints a stored run: its summary and either one cycle or the step list.
func inspect(dir string, cycle int, out io.Writer) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	ts, err := storage.OpenTraceStore(dir)
	if err != nil {
		return err
	}
	defer ts.Close()

	sum, found, err := ts.GetSummary()
	if err != nil {
		return err
	}
	if found {
		fmt.Fprintf(out, "input: %s\ncycles: %d\nstatus: %s\nmemory base: %d\n", sum.Input, sum.Cycles, sum.Status, sum.MemoryBase)
		if sum.Error != "" {
			fmt.Fprintf(out, "error: %s\n", sum.Error)
		}
	}

	if cycle > 0 {
		step, err := ts.GetStep(cycle)
		if err != nil {
			return err
		}
		fmt.Fprint(out, trace.FormatStep(step))
		return nil
	}

	steps, err := ts.Steps()
	if err != nil {
		return err
	}
	for _, s := range steps {
		fmt.Fprintf(out, "%d\t%d\t%s\n", s.Cycle, s.Address, s.Text)
	}
	return nil
}
