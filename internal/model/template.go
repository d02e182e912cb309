package model

import "fmt"

// InternalPrefix marks parameter names that carry pipeline plumbing values
// (staging paths and the like) through otherwise-opaque steps. Executors route
// these to whichever inner step declared them.
const InternalPrefix = "sfl_"

// VolPathParameter is the internal parameter carrying the staging volume path
// between pipeline phases.
const VolPathParameter = InternalPrefix + "vol_path"

// Parameter is a declared input or output parameter of a template.
// Output parameters are sourced either from a literal Value or from a file
// read after execution (ValueFromPath); ValueFromParameter routes an output
// through another step's output.
type Parameter struct {
	Name               string `yaml:"name" json:"name"`
	Value              string `yaml:"value,omitempty" json:"value,omitempty"`
	Default            string `yaml:"default,omitempty" json:"default,omitempty"`
	ValueFromPath      string `yaml:"valueFromPath,omitempty" json:"valueFromPath,omitempty"`
	ValueFromParameter string `yaml:"valueFromParameter,omitempty" json:"valueFromParameter,omitempty"`
}

// Artifact is a declared input or output artifact. Path is where the engine
// places (or expects) the artifact inside the step; From routes it from
// another step's output.
type Artifact struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	From string `yaml:"from,omitempty" json:"from,omitempty"`
}

// Inputs holds the declared inputs of a template in declaration order.
type Inputs struct {
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Artifacts  []Artifact  `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
}

// Outputs holds the declared outputs of a template in declaration order.
type Outputs struct {
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Artifacts  []Artifact  `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
}

// Template is the abstract unit-of-work contract consumed by executors: named
// inputs/outputs plus a script (or a resource manifest) to run.
type Template struct {
	Name     string        `yaml:"name" json:"name"`
	Inputs   Inputs        `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs  Outputs       `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Image    string        `yaml:"image,omitempty" json:"image,omitempty"`
	Command  []string      `yaml:"command,omitempty" json:"command,omitempty"`
	Script   string        `yaml:"script,omitempty" json:"script,omitempty"`
	Volumes  []Volume      `yaml:"volumes,omitempty" json:"volumes,omitempty"`
	Mounts   []VolumeMount `yaml:"mounts,omitempty" json:"mounts,omitempty"`
	PVCs     []PVC         `yaml:"pvcs,omitempty" json:"pvcs,omitempty"`
	Resource *Resource     `yaml:"resource,omitempty" json:"resource,omitempty"`
}

// AnyTemplate is either a single-step Template or a composite Steps template.
// The host engine schedules both the same way.
type AnyTemplate interface {
	TemplateName() string
}

func (t *Template) TemplateName() string { return t.Name }

// Validate checks the name-uniqueness invariant of the four input/output maps.
// A collision indicates a malformed descriptor and is reported rather than
// silently dropping a declaration.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template has no name")
	}
	if err := uniqueParameters("input parameter", t.Inputs.Parameters); err != nil {
		return fmt.Errorf("template %s: %w", t.Name, err)
	}
	if err := uniqueArtifacts("input artifact", t.Inputs.Artifacts); err != nil {
		return fmt.Errorf("template %s: %w", t.Name, err)
	}
	if err := uniqueParameters("output parameter", t.Outputs.Parameters); err != nil {
		return fmt.Errorf("template %s: %w", t.Name, err)
	}
	if err := uniqueArtifacts("output artifact", t.Outputs.Artifacts); err != nil {
		return fmt.Errorf("template %s: %w", t.Name, err)
	}
	return nil
}

func uniqueParameters(kind string, params []Parameter) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			return fmt.Errorf("duplicate %s name: %s", kind, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func uniqueArtifacts(kind string, arts []Artifact) error {
	seen := make(map[string]bool, len(arts))
	for _, a := range arts {
		if seen[a.Name] {
			return fmt.Errorf("duplicate %s name: %s", kind, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// DeepCopy returns an independent copy of the template. Executors must never
// alias caller-owned declarations into the templates they return.
func (t *Template) DeepCopy() *Template {
	out := *t
	out.Inputs = t.Inputs.DeepCopy()
	out.Outputs = t.Outputs.DeepCopy()
	out.Command = append([]string(nil), t.Command...)
	out.Volumes = append([]Volume(nil), t.Volumes...)
	out.Mounts = append([]VolumeMount(nil), t.Mounts...)
	out.PVCs = append([]PVC(nil), t.PVCs...)
	if t.Resource != nil {
		res := *t.Resource
		out.Resource = &res
	}
	return &out
}

// DeepCopy returns an independent copy of the inputs.
func (in Inputs) DeepCopy() Inputs {
	return Inputs{
		Parameters: append([]Parameter(nil), in.Parameters...),
		Artifacts:  append([]Artifact(nil), in.Artifacts...),
	}
}

// DeepCopy returns an independent copy of the outputs.
func (out Outputs) DeepCopy() Outputs {
	return Outputs{
		Parameters: append([]Parameter(nil), out.Parameters...),
		Artifacts:  append([]Artifact(nil), out.Artifacts...),
	}
}
