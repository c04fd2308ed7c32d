package config

import (
	"errors"
	"fmt"
	"strings"
)

// Specification of requested rule listing.
// ENUM(css, style, debug, specificity)
type OutputMode int

const (
	OutputModeCss OutputMode = iota
	OutputModeStyle
	OutputModeDebug
	OutputModeSpecificity
)

var ErrInvalidOutputMode = errors.New("not a valid OutputMode")

var outputModeNames = []string{"css", "style", "debug", "specificity"}

// OutputModeNames returns a list of possible string values of OutputMode.
func OutputModeNames() []string {
	return append([]string(nil), outputModeNames...)
}

func (x OutputMode) String() string {
	if x.IsValid() {
		return outputModeNames[x]
	}
	return fmt.Sprintf("OutputMode(%d)", int(x))
}

// IsValid provides a quick way to determine if the typed value is part of
// the allowed enumerated values.
func (x OutputMode) IsValid() bool {
	return x >= 0 && int(x) < len(outputModeNames)
}

// ParseOutputMode attempts to convert a string to an OutputMode, ignoring
// case.
func ParseOutputMode(name string) (OutputMode, error) {
	for i, n := range outputModeNames {
		if strings.EqualFold(n, name) {
			return OutputMode(i), nil
		}
	}
	return OutputMode(0), fmt.Errorf("%s is %w", name, ErrInvalidOutputMode)
}

// MustParseOutputMode converts a string to an OutputMode, and panics if is
// not valid.
func MustParseOutputMode(name string) OutputMode {
	val, err := ParseOutputMode(name)
	if err != nil {
		panic(err)
	}
	return val
}

func (x OutputMode) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

func (x *OutputMode) UnmarshalText(text []byte) error {
	tmp, err := ParseOutputMode(string(text))
	if err != nil {
		return err
	}
	*x = tmp
	return nil
}
