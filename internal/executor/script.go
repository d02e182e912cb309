package executor

import (
	"fmt"
	"strings"
)

type command struct {
	text     string
	failFast bool
}

// Script is an ordered list of shell commands, each with an explicit failure
// policy. Fail-fast commands abort the whole script with a non-zero exit, so
// a failed upload or submission surfaces as a failed step instead of running
// the remaining commands against missing state.
type Script struct {
	cmds []command
}

func NewScript() *Script {
	return &Script{}
}

// Add appends a command whose failure does not abort the script.
func (s *Script) Add(text string) {
	s.cmds = append(s.cmds, command{text: text})
}

// Addf is Add with formatting.
func (s *Script) Addf(format string, args ...interface{}) {
	s.Add(fmt.Sprintf(format, args...))
}

// AddFatal appends a command whose failure aborts the script immediately.
func (s *Script) AddFatal(text string) {
	s.cmds = append(s.cmds, command{text: text, failFast: true})
}

// AddFatalf is AddFatal with formatting.
func (s *Script) AddFatalf(format string, args ...interface{}) {
	s.AddFatal(fmt.Sprintf(format, args...))
}

// String renders the script, one command per line, fail-fast commands
// suffixed with "|| exit 1".
func (s *Script) String() string {
	var b strings.Builder
	for _, c := range s.cmds {
		b.WriteString(c.text)
		if c.failFast {
			b.WriteString(" || exit 1")
		}
		b.WriteString("\n")
	}
	return b.String()
}
