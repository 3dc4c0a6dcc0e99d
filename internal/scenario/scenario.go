// Package scenario replays scripted sequences of filesystem calls against a
// fresh userfs instance and checks each call against its expectation.
package scenario

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirillLvov/userfs"
)

// Step operations
const (
	OpOpen   = "open"
	OpWrite  = "write"
	OpRead   = "read"
	OpSeek   = "seek"
	OpClose  = "close"
	OpDelete = "delete"
	OpResize = "resize"
	OpStat   = "stat"
)

var flagNames = map[string]int{
	"create":     userfs.FlagCreate,
	"read_only":  userfs.FlagReadOnly,
	"write_only": userfs.FlagWriteOnly,
	"read_write": userfs.FlagReadWrite,
}

var whenceNames = map[string]int{
	"":        io.SeekStart,
	"start":   io.SeekStart,
	"current": io.SeekCurrent,
	"end":     io.SeekEnd,
}

// Scenario is a named list of steps. MaxDescriptors and BlockPoolSize, when
// set, override the options the runner was given.
type Scenario struct {
	Name           string `yaml:"name"`
	MaxDescriptors int    `yaml:"max_descriptors,omitempty"`
	BlockPoolSize  int    `yaml:"block_pool_size,omitempty"`
	Steps          []Step `yaml:"steps"`
}

// Step is a single filesystem call.
//
// Handle is a symbolic alias for a descriptor: open binds it, close unbinds
// it, and the descriptor operations resolve it. An unbound alias resolves to
// descriptor -1. For read, Size is the number of bytes requested.
type Step struct {
	Op     string   `yaml:"op"`
	Name   string   `yaml:"name,omitempty"`
	Handle string   `yaml:"handle,omitempty"`
	Flags  []string `yaml:"flags,omitempty"`
	Data   string   `yaml:"data,omitempty"`
	Size   int64    `yaml:"size,omitempty"`
	Offset int64    `yaml:"offset,omitempty"`
	Whence string   `yaml:"whence,omitempty"`
	Expect *Expect  `yaml:"expect,omitempty"`
}

// Expect describes the outcome a step must produce. Error is an error code
// name ("none", "no_file", "no_mem", "no_permission", "invalid"); nil N and
// Data are not checked.
type Expect struct {
	Error string  `yaml:"error,omitempty"`
	N     *int64  `yaml:"n,omitempty"`
	Data  *string `yaml:"data,omitempty"`
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate rejects unknown operations, flags, whence values and error names.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Op {
	case OpOpen, OpDelete, OpStat:
		if st.Name == "" {
			return fmt.Errorf("%s requires a name", st.Op)
		}
	case OpWrite, OpRead, OpSeek, OpClose, OpResize:
		if st.Handle == "" {
			return fmt.Errorf("%s requires a handle", st.Op)
		}
	case "":
		return fmt.Errorf("missing op")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	if st.Op == OpRead && st.Size < 0 {
		return fmt.Errorf("read size must not be negative")
	}
	if _, err := st.openFlags(); err != nil {
		return err
	}
	if _, ok := whenceNames[st.Whence]; !ok {
		return fmt.Errorf("unknown whence %q", st.Whence)
	}
	if st.Expect != nil {
		if _, ok := userfs.ParseErrorCode(st.Expect.Error); !ok {
			return fmt.Errorf("unknown error code %q", st.Expect.Error)
		}
	}
	return nil
}

func (st Step) openFlags() (int, error) {
	flags := 0
	for _, name := range st.Flags {
		f, ok := flagNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}
