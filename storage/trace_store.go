package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/colorfulnotion/mipssim/log"
	"github.com/colorfulnotion/mipssim/mips/trace"
)

var (
	stepPrefix = []byte("step/")
	summaryKey = []byte("meta/summary")
)

// ErrStepNotFound is returned by GetStep for a cycle that was never stored.
var ErrStepNotFound = errors.New("trace step not found")

// RunSummary describes a stored run as a whole.
type RunSummary struct {
	Input      string `json:"input"`
	Cycles     int    `json:"cycles"`
	MemoryBase uint32 `json:"memory_base"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// TraceStore persists the trace steps of one run, keyed by cycle.
type TraceStore struct {
	ps *PersistenceStore
}

// OpenTraceStore opens a trace store at dir; an empty dir keeps it in memory.
func OpenTraceStore(dir string) (*TraceStore, error) {
	ps, err := NewPersistenceStore(dir)
	if err != nil {
		return nil, err
	}
	return &TraceStore{ps: ps}, nil
}

// NewTraceStore wraps an already open PersistenceStore.
func NewTraceStore(ps *PersistenceStore) *TraceStore {
	return &TraceStore{ps: ps}
}

// stepKey sorts lexicographically in cycle order.
func stepKey(cycle int) []byte {
	key := make([]byte, len(stepPrefix)+8)
	copy(key, stepPrefix)
	binary.BigEndian.PutUint64(key[len(stepPrefix):], uint64(cycle))
	return key
}

// PutStep stores step under its cycle. Its signature matches the VM step hook.
func (s *TraceStore) PutStep(step *trace.TraceStep) error {
	data, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("marshal cycle %d: %w", step.Cycle, err)
	}
	if err := s.ps.Put(stepKey(step.Cycle), data); err != nil {
		return fmt.Errorf("put cycle %d: %w", step.Cycle, err)
	}
	log.Trace(log.StoreMonitoring, "stored step", "cycle", step.Cycle, "bytes", len(data))
	return nil
}

// GetStep loads the step recorded for cycle.
func (s *TraceStore) GetStep(cycle int) (*trace.TraceStep, error) {
	data, found, err := s.ps.Get(stepKey(cycle))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("cycle %d: %w", cycle, ErrStepNotFound)
	}
	var step trace.TraceStep
	if err := json.Unmarshal(data, &step); err != nil {
		return nil, fmt.Errorf("decode cycle %d: %w", cycle, err)
	}
	return &step, nil
}

// Steps returns every stored step in cycle order.
func (s *TraceStore) Steps() ([]*trace.TraceStep, error) {
	pairs, err := s.ps.GetWithPrefix(stepPrefix)
	if err != nil {
		return nil, err
	}
	steps := make([]*trace.TraceStep, 0, len(pairs))
	for _, kv := range pairs {
		var step trace.TraceStep
		if err := json.Unmarshal(kv[1], &step); err != nil {
			return nil, fmt.Errorf("decode key %x: %w", kv[0], err)
		}
		steps = append(steps, &step)
	}
	return steps, nil
}

// Len returns the number of stored steps.
func (s *TraceStore) Len() (int, error) {
	return s.ps.CountPrefix(stepPrefix)
}

// PutSteps stores a whole trace in a single batch.
func (s *TraceStore) PutSteps(steps []*trace.TraceStep) error {
	pairs := make([][2][]byte, 0, len(steps))
	for _, step := range steps {
		data, err := json.Marshal(step)
		if err != nil {
			return fmt.Errorf("marshal cycle %d: %w", step.Cycle, err)
		}
		pairs = append(pairs, [2][]byte{stepKey(step.Cycle), data})
	}
	return s.ps.PutBatch(pairs)
}

func (s *TraceStore) PutSummary(sum RunSummary) error {
	data, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	log.Debug(log.StoreMonitoring, "stored run summary", "cycles", sum.Cycles, "status", sum.Status)
	return s.ps.Put(summaryKey, data)
}

// GetSummary returns the run summary, or false when none was written.
func (s *TraceStore) GetSummary() (RunSummary, bool, error) {
	var sum RunSummary
	data, found, err := s.ps.Get(summaryKey)
	if err != nil || !found {
		return sum, false, err
	}
	if err := json.Unmarshal(data, &sum); err != nil {
		return sum, false, fmt.Errorf("decode summary: %w", err)
	}
	return sum, true, nil
}

func (s *TraceStore) Close() error {
	return s.ps.Close()
}
