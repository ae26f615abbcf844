package scanner

import "fmt"

// Spec is one named parser spec: a pattern set compiled into a scanning
// procedure. The default spec of a program has the empty name when the
// specification mixes named and unnamed rules.
type Spec struct {
	Name string
	Scan ScanFunc
}

// Program is the full set of parser specs of a compiled lexer. The first
// spec is the default, active when a session starts.
type Program struct {
	specs  []Spec
	byName map[string]*Spec
}

// NewProgram assembles a program from specs in declaration order.
func NewProgram(specs ...Spec) (*Program, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("program needs at least one parser spec")
	}
	p := &Program{
		specs:  specs,
		byName: make(map[string]*Spec, len(specs)),
	}
	for i := range p.specs {
		spec := &p.specs[i]
		if spec.Scan == nil {
			return nil, fmt.Errorf("parser spec %q has no scanning procedure", spec.Name)
		}
		if _, dup := p.byName[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate parser spec %q", spec.Name)
		}
		p.byName[spec.Name] = spec
	}
	return p, nil
}

// MustProgram is like NewProgram but panics on error. Generated code
// assembles its program with it, the spec set being known good.
func MustProgram(specs ...Spec) *Program {
	p, err := NewProgram(specs...)
	if err != nil {
		panic(err)
	}
	return p
}

// Default returns the spec that is active when a session starts.
func (p *Program) Default() *Spec {
	return &p.specs[0]
}

// Lookup finds a spec by name.
func (p *Program) Lookup(name string) (*Spec, bool) {
	spec, ok := p.byName[name]
	return spec, ok
}
