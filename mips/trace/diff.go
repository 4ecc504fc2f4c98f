package trace

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/colorfulnotion/mipssim/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// StepDiff is one cycle whose expected and actual records differ.
type StepDiff struct {
	Cycle int
	Delta string // ascii rendering of the JSON delta
}

// DiffReport summarises the comparison of two traces.
type DiffReport struct {
	ExpectedSteps int
	ActualSteps   int
	Mismatches    []StepDiff
}

// Equal reports whether the traces matched step for step.
func (r *DiffReport) Equal() bool {
	return r.ExpectedSteps == r.ActualSteps && len(r.Mismatches) == 0
}

func (r *DiffReport) String() string {
	var b strings.Builder
	if r.ExpectedSteps != r.ActualSteps {
		fmt.Fprintf(&b, "step count: expected %d, actual %d\n", r.ExpectedSteps, r.ActualSteps)
	}
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "------ cycle %d ------\n%s\n", m.Cycle, m.Delta)
	}
	if r.Equal() {
		b.WriteString("traces match\n")
	}
	return b.String()
}

// Diff compares expected and actual traces cycle by cycle, stopping after
// maxMismatches differing cycles (0 means no limit).
func Diff(expected, actual []*TraceStep, maxMismatches int) (*DiffReport, error) {
	report := &DiffReport{ExpectedSteps: len(expected), ActualSteps: len(actual)}
	differ := gojsondiff.New()
	n := min(len(expected), len(actual))
	for i := 0; i < n; i++ {
		expJSON, err := json.Marshal(expected[i])
		if err != nil {
			return nil, err
		}
		actJSON, err := json.Marshal(actual[i])
		if err != nil {
			return nil, err
		}
		delta, err := differ.Compare(expJSON, actJSON)
		if err != nil {
			return nil, fmt.Errorf("diffing cycle %d: %w", expected[i].Cycle, err)
		}
		if !delta.Modified() {
			continue
		}
		var leftObj map[string]interface{}
		if err := json.Unmarshal(expJSON, &leftObj); err != nil {
			return nil, err
		}
		cfg := formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
			Coloring:       false,
		}
		asciiDiff, err := formatter.NewAsciiFormatter(leftObj, cfg).Format(delta)
		if err != nil {
			return nil, fmt.Errorf("formatting cycle %d: %w", expected[i].Cycle, err)
		}
		log.Debug(log.TraceMonitoring, "cycle differs", "cycle", expected[i].Cycle, "text", actual[i].Text)
		report.Mismatches = append(report.Mismatches, StepDiff{Cycle: expected[i].Cycle, Delta: asciiDiff})
		if maxMismatches > 0 && len(report.Mismatches) >= maxMismatches {
			break
		}
	}
	return report, nil
}
