package executor

import "github.com/sourceplane/slurmflow/internal/model"

// Executor rewrites a template so its work runs somewhere else while keeping
// the declared inputs/outputs intact. The host engine schedules the result
// like any other template.
type Executor interface {
	Render(t *model.Template) (model.AnyTemplate, error)
}

// Func adapts a render function to the Executor interface.
type Func func(t *model.Template) (model.AnyTemplate, error)

func (f Func) Render(t *model.Template) (model.AnyTemplate, error) { return f(t) }
