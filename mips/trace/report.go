package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/colorfulnotion/mipssim/mips/program"
)

const (
	itemsPerRow = 8
	separator   = "--------------------"
)

var registerRowHeaders = [...]string{"R00:", "R08:", "R16:", "R24:"}

// WriteDisassembly writes one "raw<TAB>address<TAB>text" line per input line.
func WriteDisassembly(w io.Writer, lines []program.Line) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		bw.WriteString(l.Raw)
		bw.WriteByte('\t')
		bw.WriteString(strconv.FormatUint(uint64(l.Address), 10))
		bw.WriteByte('\t')
		bw.WriteString(l.Text)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteSimulation writes one block per executed instruction.
func WriteSimulation(w io.Writer, steps []*TraceStep) error {
	bw := bufio.NewWriter(w)
	for _, s := range steps {
		bw.WriteString(FormatStep(s))
	}
	return bw.Flush()
}

// FormatStep renders a single simulation block, separator included.
func FormatStep(s *TraceStep) string {
	var b strings.Builder
	b.WriteString(separator)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Cycle:%d\t%d\t%s\n", s.Cycle, s.Address, s.Text)
	b.WriteByte('\n')

	b.WriteString("Registers\n")
	writeRegisters(&b, &s.Registers)
	b.WriteByte('\n')

	b.WriteString("Data")
	for i, v := range s.Memory {
		if i%itemsPerRow == 0 {
			fmt.Fprintf(&b, "\n%d:", s.MemoryBase+uint32(i*4))
		}
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteString("\n\n")
	return b.String()
}

func writeRegisters(b *strings.Builder, regs *[NumRegisters]int32) {
	for i, v := range regs {
		col := i % itemsPerRow
		if col == 0 {
			b.WriteString(registerRowHeaders[i/itemsPerRow])
			b.WriteByte('\t')
		}
		b.WriteString(strconv.Itoa(int(v)))
		if col == itemsPerRow-1 {
			b.WriteByte('\n')
		} else {
			b.WriteByte('\t')
		}
	}
}

// FormatRegisters renders the register section only, as used by the debugger.
func FormatRegisters(regs *[NumRegisters]int32) string {
	var b strings.Builder
	writeRegisters(&b, regs)
	return b.String()
}
