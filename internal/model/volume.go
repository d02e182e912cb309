package model

// HostPathSource exposes a node-local directory as a volume. Valid only on
// the node it was created on; steps sharing one must land on the same node.
type HostPathSource struct {
	Path string `yaml:"path" json:"path"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Volume is a pod volume definition.
type Volume struct {
	Name     string          `yaml:"name" json:"name"`
	HostPath *HostPathSource `yaml:"hostPath,omitempty" json:"hostPath,omitempty"`
}

// VolumeMount mounts a named volume into a step's filesystem.
type VolumeMount struct {
	Name      string `yaml:"name" json:"name"`
	MountPath string `yaml:"mountPath" json:"mountPath"`
	SubPath   string `yaml:"subPath,omitempty" json:"subPath,omitempty"`
}

// PVC is a persistent volume claim shared across pipeline steps.
type PVC struct {
	Name string `yaml:"name" json:"name"`
	Size string `yaml:"size,omitempty" json:"size,omitempty"`
}
