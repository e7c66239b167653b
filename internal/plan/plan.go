// Package plan holds immutable command plans and the adapter that executes them.
package plan

import (
	"mediakit/internal/util"
)

// Plan is a fully resolved external command: program, ordered arguments and
// the file it is expected to produce. A Plan never changes after it is built.
type Plan struct {
	program string
	args    []string
	output  string
}

// New builds a plan from a program, its arguments and the expected output path.
func New(program string, args []string, expectedOutput string) Plan {
	cp := make([]string, len(args))
	copy(cp, args)
	return Plan{program: program, args: cp, output: expectedOutput}
}

func (p Plan) Program() string { return p.program }

// Args returns a copy of the argument list.
func (p Plan) Args() []string {
	cp := make([]string, len(p.args))
	copy(cp, p.args)
	return cp
}

// ExpectedOutputPath is empty for queries that produce no file.
func (p Plan) ExpectedOutputPath() string { return p.output }

// WithProgram returns a copy of the plan bound to another binary path.
func (p Plan) WithProgram(program string) Plan {
	return New(program, p.args, p.output)
}

// Contains reports whether arg appears verbatim in the argument list.
func (p Plan) Contains(arg string) bool {
	for _, a := range p.args {
		if a == arg {
			return true
		}
	}
	return false
}

// Value returns the argument following flag, if any.
func (p Plan) Value(flag string) (string, bool) {
	for i := 0; i < len(p.args)-1; i++ {
		if p.args[i] == flag {
			return p.args[i+1], true
		}
	}
	return "", false
}

// String renders the plan as a copy-pasteable shell command.
func (p Plan) String() string {
	return util.ShellQuote(p.program, p.args)
}

// MarshalYAML renders dry-run output.
func (p Plan) MarshalYAML() (interface{}, error) {
	return struct {
		Program string   `yaml:"program"`
		Args    []string `yaml:"args,flow"`
		Output  string   `yaml:"output,omitempty"`
		Command string   `yaml:"command"`
	}{p.program, p.Args(), p.output, p.String()}, nil
}

// Builder accumulates arguments in order. Conditional helpers keep optional
// fragments out of the plan when their guard is false.
type Builder struct {
	program string
	args    []string
}

func NewBuilder(program string) *Builder {
	return &Builder{program: program}
}

// Flag appends bare arguments.
func (b *Builder) Flag(args ...string) *Builder {
	b.args = append(b.args, args...)
	return b
}

// FlagIf appends bare arguments when cond holds.
func (b *Builder) FlagIf(cond bool, args ...string) *Builder {
	if cond {
		b.args = append(b.args, args...)
	}
	return b
}

// Opt appends a flag and its value.
func (b *Builder) Opt(flag, value string) *Builder {
	b.args = append(b.args, flag, value)
	return b
}

// OptIf appends a flag and its value when cond holds.
func (b *Builder) OptIf(cond bool, flag, value string) *Builder {
	if cond {
		b.args = append(b.args, flag, value)
	}
	return b
}

// Build freezes the arguments into a Plan.
func (b *Builder) Build(expectedOutput string) Plan {
	return New(b.program, b.args, expectedOutput)
}
