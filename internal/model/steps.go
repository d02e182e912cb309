package model

// Step invokes an inner template as part of a composite template, wiring its
// inputs from literal values or placeholder references.
type Step struct {
	Name       string      `yaml:"name" json:"name"`
	Template   *Template   `yaml:"template" json:"template"`
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Artifacts  []Artifact  `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
}

// Steps is a composite template: a named sequence of steps executed in order
// by the host engine, with inputs/outputs re-declared at the composite level.
type Steps struct {
	Name    string  `yaml:"name" json:"name"`
	Inputs  Inputs  `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs Outputs `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Steps   []Step  `yaml:"steps" json:"steps"`
	PVCs    []PVC   `yaml:"pvcs,omitempty" json:"pvcs,omitempty"`
}

// NewSteps creates an empty composite template.
func NewSteps(name string) *Steps {
	return &Steps{Name: name}
}

func (s *Steps) TemplateName() string { return s.Name }

// Add appends a step to the sequence.
func (s *Steps) Add(step Step) {
	s.Steps = append(s.Steps, step)
}

// Step returns the named step, or nil.
func (s *Steps) Step(name string) *Step {
	for i := range s.Steps {
		if s.Steps[i].Name == name {
			return &s.Steps[i]
		}
	}
	return nil
}
