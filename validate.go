package mdh

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 is returned when input is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid utf-8")
	// ErrBinaryInput is returned when input looks like binary data.
	ErrBinaryInput = errors.New("input appears to be binary data")
)

const (
	binarySampleMin   = 64
	binaryControlPct  = 2
	binaryControlHigh = 10
)

// ValidateInput checks whether data looks like Markdown text. It rejects
// NUL bytes outright, invalid UTF-8, and samples with an implausible share
// of control characters. Callers typically validate the first chunk of an
// untrusted stream before rendering it.
func ValidateInput(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	controls := 0
	for _, c := range data {
		if c == 0 {
			return ErrBinaryInput
		}
		if isControlByte(c) {
			controls++
		}
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	pct := controls * 100 / len(data)
	if len(data) >= binarySampleMin && pct > binaryControlPct {
		return ErrBinaryInput
	}
	if pct > binaryControlHigh {
		return ErrBinaryInput
	}
	return nil
}

// isControlByte reports bytes that never occur in plain Markdown. Tab,
// newline and carriage return are text.
func isControlByte(c byte) bool {
	if c == '\t' || c == '\n' || c == '\r' {
		return false
	}
	return c < 0x20 || c == 0x7f
}
