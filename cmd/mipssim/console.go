package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dop251/goja"

	"github.com/colorfulnotion/mipssim/mips/interpreter"
	"github.com/colorfulnotion/mipssim/mips/program"
	"github.com/colorfulnotion/mipssim/mips/trace"
)

const consoleHelp = `reg(n)     register n
regs()     all registers
mem(addr)  data word at addr
pc()       address of the next instruction
cycle()    next cycle number
status()   ready, running, halted or faulted
step(n)    execute n instructions (default 1), returns the last text
run()      execute until halt or fault
show()     the last simulation block
exit       leave the console`

// console is a JavaScript front end to a single VM.
type console struct {
	vm  *interpreter.VM
	js  *goja.Runtime
	out io.Writer
}

func newConsole(p *program.Program, out io.Writer) *console {
	c := &console{vm: interpreter.NewVM(p), js: goja.New(), out: out}

	c.js.Set("reg", func(n int) int32 {
		if n < 0 || n >= trace.NumRegisters {
			c.throw(fmt.Errorf("no register R%d", n))
		}
		return c.vm.State().Registers[n]
	})
	c.js.Set("regs", func() []int32 {
		regs := c.vm.State().Registers
		return regs[:]
	})
	c.js.Set("mem", func(addr int64) int32 {
		v, err := c.vm.State().LoadWord(addr)
		if err != nil {
			c.throw(err)
		}
		return v
	})
	c.js.Set("pc", func() uint32 { return c.vm.PC() })
	c.js.Set("cycle", func() int { return c.vm.Cycle() })
	c.js.Set("status", func() string { return c.vm.Status().String() })
	c.js.Set("step", func(call goja.FunctionCall) goja.Value {
		n := int(call.Argument(0).ToInteger())
		if n <= 0 {
			n = 1
		}
		var text string
		for i := 0; i < n; i++ {
			s, err := c.vm.Step()
			if err != nil {
				c.throw(err)
			}
			text = s.Text
		}
		return c.js.ToValue(text)
	})
	c.js.Set("run", func() string {
		if _, err := c.vm.Run(); err != nil {
			c.throw(err)
		}
		return c.vm.Status().String()
	})
	c.js.Set("show", func() string {
		steps := c.vm.Trace()
		if len(steps) == 0 {
			return ""
		}
		return trace.FormatStep(steps[len(steps)-1])
	})
	c.js.Set("help", func() string { return consoleHelp })
	c.js.Set("print", func(args ...goja.Value) {
		for _, arg := range args {
			fmt.Fprintln(c.out, arg.Export())
		}
	})
	return c
}

func (c *console) throw(err error) {
	panic(c.js.NewGoError(err))
}

func (c *console) eval(line string) (goja.Value, error) {
	return c.js.RunString(line)
}

// repl reads lines until exit or EOF.
func (c *console) repl(rl *readline.Instance) {
	fmt.Fprintln(c.out, "mipssim console, type help() for commands, exit to quit")
	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		}
		v, err := c.eval(line)
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
			continue
		}
		if v != nil && !goja.IsUndefined(v) {
			fmt.Fprintln(c.out, v)
		}
	}
}

func runConsole(p *program.Program, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "mips> ",
		HistoryFile: filepath.Join(os.TempDir(), "mipssim_console_history.txt"),
		Stdout:      out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	newConsole(p, rl.Stdout()).repl(rl)
	return nil
}
