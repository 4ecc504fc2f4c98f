package simerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorParts(t *testing.T) {
	wrapped := fmt.Errorf("line 3 address 136: %w", ErrUnknownOpcode)

	assert.True(t, errors.Is(wrapped, ErrUnknownOpcode))
	assert.Equal(t, "UnknownOpcode", GetErrorName(wrapped))
	assert.Equal(t, "D4", GetErrorCode(wrapped))
	assert.Equal(t, "D4_UnknownOpcode", GetErrorCodeWithName(wrapped))
	assert.Equal(t, "Opcode field selects no instruction in its category.", GetErrorDesc(wrapped))
}

func TestErrorNamesForForeignErrors(t *testing.T) {
	plain := errors.New("disk full")
	assert.Equal(t, "disk full", GetErrorName(plain))
	assert.Equal(t, "", GetErrorCode(plain))
	assert.Equal(t, "No Error", GetErrorName(nil))
	assert.Equal(t, []string{"MemoryFault", "InvalidTarget"}, GetErrorNames([]error{ErrMemoryFault, ErrInvalidTarget}))
}
