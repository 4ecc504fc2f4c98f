package interpreter

import (
	"fmt"

	"github.com/colorfulnotion/mipssim/log"
	"github.com/colorfulnotion/mipssim/mips/program"
	"github.com/colorfulnotion/mipssim/mips/trace"
	"github.com/colorfulnotion/mipssim/simerrors"
)

// Status is the execution state of a VM.
type Status int

const (
	Ready Status = iota
	Running
	Halted
	Faulted
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// StepHook observes each trace step as it is produced. A hook error stops the run.
type StepHook func(step *trace.TraceStep) error

// VM runs a Program one instruction per cycle.
type VM struct {
	prog   *program.Program
	state  *MachineState
	pc     uint32
	cycle  int
	status Status
	steps  []*trace.TraceStep
	hooks  []StepHook
}

// NewVM prepares prog for execution from its first instruction.
func NewVM(prog *program.Program) *VM {
	vm := &VM{
		prog:  prog,
		state: NewMachineState(prog),
		cycle: 1,
	}
	if prog.Len() > 0 {
		vm.pc = prog.Entries[0].Address
	} else {
		vm.status = Halted
	}
	return vm
}

// OnStep registers a hook run after every step, in registration order.
func (vm *VM) OnStep(h StepHook) {
	vm.hooks = append(vm.hooks, h)
}

func (vm *VM) State() *MachineState      { return vm.state }
func (vm *VM) Program() *program.Program { return vm.prog }
func (vm *VM) PC() uint32                { return vm.pc }
func (vm *VM) Cycle() int                { return vm.cycle }
func (vm *VM) Status() Status            { return vm.status }

// Trace returns every step produced so far, including those before a fault.
func (vm *VM) Trace() []*trace.TraceStep {
	return vm.steps
}

// ExecError is an execution-time fault at a given cycle and address.
type ExecError struct {
	Cycle   int
	Address uint32
	Text    string
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("cycle %d address %d %q: %v", e.Cycle, e.Address, e.Text, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Step fetches, executes and traces one instruction.
func (vm *VM) Step() (*trace.TraceStep, error) {
	switch vm.status {
	case Halted, Faulted:
		return nil, simerrors.ErrHalted
	case Ready:
		vm.status = Running
	}

	entry, ok := vm.prog.At(vm.pc)
	if !ok {
		return nil, vm.fault(vm.pc, "", fmt.Errorf("no instruction at address %d: %w", vm.pc, simerrors.ErrInvalidTarget))
	}

	res, err := Execute(entry.Instruction, vm.state)
	if err != nil {
		return nil, vm.fault(entry.Address, entry.Text, err)
	}

	step := trace.NewTraceStep(vm.cycle, entry.Address, entry.Text)
	vm.state.Snapshot(step)
	vm.steps = append(vm.steps, step)
	log.Debug(log.VMMonitoring, "step", "cycle", vm.cycle, "address", entry.Address, "text", entry.Text)

	for _, h := range vm.hooks {
		if err := h(step); err != nil {
			vm.status = Faulted
			return step, err
		}
	}

	var next program.Entry
	halt := false
	if res.Redirected {
		next, ok = vm.prog.At(res.Next)
		if !ok {
			return step, vm.fault(entry.Address, entry.Text, fmt.Errorf("target %d: %w", res.Next, simerrors.ErrInvalidTarget))
		}
	} else {
		next, ok = vm.prog.Next(entry.Address)
		halt = !ok
	}

	vm.cycle++
	if halt {
		vm.status = Halted
		log.Debug(log.VMMonitoring, "halted", "cycles", len(vm.steps))
		return step, nil
	}
	vm.pc = next.Address
	return step, nil
}

func (vm *VM) fault(addr uint32, text string, err error) error {
	vm.status = Faulted
	log.Warn(log.VMMonitoring, "execution fault", "cycle", vm.cycle, "address", addr, "err", err)
	return &ExecError{Cycle: vm.cycle, Address: addr, Text: text, Err: err}
}

// Run executes until the VM halts. On a fault the partial trace remains available from Trace.
func (vm *VM) Run() ([]*trace.TraceStep, error) {
	return vm.RunWithLimit(0)
}

// RunWithLimit is Run bounded to maxCycles steps (0 means unbounded).
func (vm *VM) RunWithLimit(maxCycles int) ([]*trace.TraceStep, error) {
	for vm.status == Ready || vm.status == Running {
		if maxCycles > 0 && len(vm.steps) >= maxCycles {
			vm.status = Faulted
			return vm.steps, fmt.Errorf("stopped after %d cycles at address %d: %w", len(vm.steps), vm.pc, simerrors.ErrCycleLimit)
		}
		if _, err := vm.Step(); err != nil {
			return vm.steps, err
		}
	}
	return vm.steps, nil
}
