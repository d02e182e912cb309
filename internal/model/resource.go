package model

// Resource describes a custom resource the engine should manage on behalf of
// a step: the action to take, the serialized manifest, and the status
// predicates the engine evaluates to decide the step's outcome.
type Resource struct {
	Action           string `yaml:"action" json:"action"`
	SuccessCondition string `yaml:"successCondition,omitempty" json:"successCondition,omitempty"`
	FailureCondition string `yaml:"failureCondition,omitempty" json:"failureCondition,omitempty"`
	Manifest         string `yaml:"manifest,omitempty" json:"manifest,omitempty"`
}
