package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/colorfulnotion/mipssim/log"
)

const (
	DefaultDisassemblyFile = "disassembly.txt"
	DefaultSimulationFile  = "simulation.txt"
	DefaultLogLevel        = "warn"
)

var ErrNoInput = errors.New("no input file")

type CommandConfig struct {
	Input           string `json:"input"`
	DisassemblyFile string `json:"disassembly"`
	SimulationFile  string `json:"simulation"`
	TraceFile       string `json:"trace,omitempty"`
	StoreDir        string `json:"store,omitempty"`
	MaxCycles       int    `json:"maxcycles"`
	LogLevel        string `json:"loglevel"`
	DebugModules    string `json:"debug,omitempty"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *CommandConfig {
	return &CommandConfig{
		DisassemblyFile: DefaultDisassemblyFile,
		SimulationFile:  DefaultSimulationFile,
		LogLevel:        DefaultLogLevel,
	}
}

// Load reads a JSON file over the defaults; fields absent from the file keep their default.
func Load(path string) (*CommandConfig, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the fields every command relies on.
func (c *CommandConfig) Validate() error {
	if c.Input == "" {
		return ErrNoInput
	}
	if c.DisassemblyFile == "" || c.SimulationFile == "" {
		return fmt.Errorf("output file names must not be empty")
	}
	if c.MaxCycles < 0 {
		return fmt.Errorf("maxcycles %d is negative", c.MaxCycles)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String method returns the CommandConfig as a formatted JSON string
func (c *CommandConfig) String() string {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling JSON: %v", err)
	}
	return string(jsonData)
}
