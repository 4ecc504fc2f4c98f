package program

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/colorfulnotion/mipssim/log"
	"github.com/colorfulnotion/mipssim/simerrors"
)

// BaseAddress is the address of the first input line.
const BaseAddress uint32 = 128

// Line is one input line as it appears in the disassembly listing.
type Line struct {
	Number  int // 1-based input line number
	Raw     string
	Address uint32
	Text    string // canonical instruction text, or the data value in decimal
	IsData  bool
	Value   int32 // data value when IsData
}

// Entry pairs an instruction with the address it was loaded at.
type Entry struct {
	Address     uint32
	Instruction Instruction
	Text        string
}

// Program is the immutable, address-indexed result of loading an input file.
type Program struct {
	Base       uint32
	MemoryBase uint32
	Entries    []Entry
	Data       []int32
	Lines      []Line

	index map[uint32]int
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Entries)
}

// IndexOf returns the position of the instruction at addr.
func (p *Program) IndexOf(addr uint32) (int, bool) {
	i, ok := p.index[addr]
	return i, ok
}

// At returns the entry loaded at addr.
func (p *Program) At(addr uint32) (Entry, bool) {
	i, ok := p.index[addr]
	if !ok {
		return Entry{}, false
	}
	return p.Entries[i], true
}

// Next returns the entry structurally following addr, if any.
func (p *Program) Next(addr uint32) (Entry, bool) {
	i, ok := p.index[addr]
	if !ok || i+1 >= len(p.Entries) {
		return Entry{}, false
	}
	return p.Entries[i+1], true
}

// Loader builds a Program from input lines fed one at a time. Lines are
// instructions until a BREAK has been decoded and data words afterwards.
type Loader struct {
	address uint32
	lineNo  int
	halted  bool
	prog    *Program
}

func NewLoader() *Loader {
	return &Loader{
		address: BaseAddress,
		prog: &Program{
			Base:  BaseAddress,
			index: make(map[uint32]int),
		},
	}
}

// DecodeError reports the input line whose word failed to decode.
type DecodeError struct {
	Line    int
	Address uint32
	Word    string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d (address %d) %q: %v", e.Line, e.Address, e.Word, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Feed consumes a single input line.
func (l *Loader) Feed(raw string) error {
	l.lineNo++
	line := Line{Number: l.lineNo, Raw: raw, Address: l.address}
	if l.halted {
		v, err := ParseData(raw)
		if err != nil {
			return &DecodeError{Line: l.lineNo, Address: l.address, Word: raw, Err: err}
		}
		line.IsData = true
		line.Value = v
		line.Text = fmt.Sprintf("%d", v)
		l.prog.Data = append(l.prog.Data, v)
	} else {
		inst, err := Decode(l.address, raw)
		if err != nil {
			return &DecodeError{Line: l.lineNo, Address: l.address, Word: raw, Err: err}
		}
		line.Text = inst.String()
		l.prog.index[l.address] = len(l.prog.Entries)
		l.prog.Entries = append(l.prog.Entries, Entry{Address: l.address, Instruction: inst, Text: line.Text})
		if _, ok := inst.(Break); ok {
			l.halted = true
			l.prog.MemoryBase = l.address + InstructionStep
		}
	}
	l.prog.Lines = append(l.prog.Lines, line)
	l.address += InstructionStep
	return nil
}

// Halted reports whether a BREAK has been decoded, so further lines are data.
func (l *Loader) Halted() bool {
	return l.halted
}

// Finish validates the loaded program and hands it over. The Loader must not be fed afterwards.
func (l *Loader) Finish() (*Program, error) {
	p := l.prog
	if len(p.Entries) == 0 {
		return nil, simerrors.ErrEmptyProgram
	}
	if !l.halted {
		return nil, fmt.Errorf("%d instructions, last at address %d: %w", len(p.Entries), p.Entries[len(p.Entries)-1].Address, simerrors.ErrMissingBreak)
	}
	for _, e := range p.Entries {
		target, ok := BranchTarget(e.Instruction)
		if !ok {
			continue
		}
		if _, found := p.index[target]; !found {
			// fatal only once the transfer is actually taken
			log.Warn(log.DecoderMonitoring, "control transfer target has no instruction", "address", e.Address, "text", e.Text, "target", target)
		}
	}
	log.Debug(log.DecoderMonitoring, "program loaded", "instructions", len(p.Entries), "data", len(p.Data), "memoryBase", p.MemoryBase)
	return p, nil
}

// Load reads an input file, one 32-digit word per line. Blank lines are skipped
// and trailing whitespace (including \r) is ignored.
func Load(r io.Reader) (*Program, error) {
	l := NewLoader()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), " \t\r")
		if raw == "" {
			l.lineNo++
			continue
		}
		if err := l.Feed(raw); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return l.Finish()
}

// LoadLines is Load over an in-memory slice of lines.
func LoadLines(lines []string) (*Program, error) {
	return Load(strings.NewReader(strings.Join(lines, "\n")))
}
