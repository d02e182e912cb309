package model

import "fmt"

// Reference is a placeholder resolved by the host engine at run time. This
// package only constructs and wires references; it never parses them.
type Reference string

func (r Reference) String() string { return string(r) }

// Placeholders owned by the scheduling engine.
const (
	PodName      Reference = "{{pod.name}}"
	WorkflowName Reference = "{{workflow.name}}"
)

// InputParameterRef references a parameter of the enclosing template's inputs.
func InputParameterRef(name string) Reference {
	return Reference(fmt.Sprintf("{{inputs.parameters.%s}}", name))
}

// InputArtifactRef references an artifact of the enclosing template's inputs.
func InputArtifactRef(name string) Reference {
	return Reference(fmt.Sprintf("{{inputs.artifacts.%s}}", name))
}

// StepOutputParameterRef references an output parameter of a sibling step.
func StepOutputParameterRef(step, name string) Reference {
	return Reference(fmt.Sprintf("{{steps.%s.outputs.parameters.%s}}", step, name))
}

// StepOutputArtifactRef references an output artifact of a sibling step.
func StepOutputArtifactRef(step, name string) Reference {
	return Reference(fmt.Sprintf("{{steps.%s.outputs.artifacts.%s}}", step, name))
}
