package simerrors

import (
	"errors"
	"strings"
)

// Decode (D) Errors
var (
	ErrMalformedField  = errors.New("D1|MalformedField: Bit field is empty, out of range, or holds a character other than 0 or 1.")
	ErrMalformedWord   = errors.New("D2|MalformedWord: Input line is not exactly 32 binary digits.")
	ErrUnknownCategory = errors.New("D3|UnknownCategory: Leading two bits select no instruction category.")
	ErrUnknownOpcode   = errors.New("D4|UnknownOpcode: Opcode field selects no instruction in its category.")
)

// Program (P) Errors
var (
	ErrEmptyProgram  = errors.New("P1|EmptyProgram: Input contains no instructions.")
	ErrMissingBreak  = errors.New("P2|MissingBreak: Input ended before a BREAK instruction.")
	ErrInvalidTarget = errors.New("P3|InvalidTarget: Jump or branch target has no instruction.")
)

// Execution (X) Errors
var (
	ErrMemoryFault = errors.New("X1|MemoryFault: Memory access is misaligned or outside the data segment.")
	ErrCycleLimit  = errors.New("X2|CycleLimit: Execution exceeded the configured cycle limit.")
	ErrHalted      = errors.New("X3|Halted: Machine has already halted.")
)

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := base(err).Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	nameParts := strings.SplitN(parts[1], ":", 2)
	return strings.TrimSpace(nameParts[0])
}

func GetErrorNames(errs []error) []string {
	errStrs := make([]string, len(errs))
	for i, err := range errs {
		errStrs[i] = GetErrorName(err)
	}
	return errStrs
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	errStr := base(err).Error()
	if !strings.Contains(errStr, "|") {
		return ""
	}
	parts := strings.SplitN(errStr, "|", 2)
	return strings.TrimSpace(parts[0])
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// GetErrorDesc extracts the error description from the error message.
func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	parts := strings.SplitN(base(err).Error(), ":", 2)
	if len(parts) < 2 {
		return "DESC NOT SET"
	}
	return strings.TrimSpace(parts[1])
}

var all = []error{
	ErrMalformedField, ErrMalformedWord, ErrUnknownCategory, ErrUnknownOpcode,
	ErrEmptyProgram, ErrMissingBreak, ErrInvalidTarget,
	ErrMemoryFault, ErrCycleLimit, ErrHalted,
}

// base returns the sentinel wrapped somewhere inside err, or err itself.
func base(err error) error {
	for _, s := range all {
		if errors.Is(err, s) {
			return s
		}
	}
	return err
}
