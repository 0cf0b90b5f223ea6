package session

import "github.com/harrison/labeller/internal/question"

// Captured is one preserved (prompt, value) pair. Prompts are the
// matching key across a rebuild; index positions are never assumed
// stable.
type Captured struct {
	Prompt string
	Value  question.Value
}

// Snapshot captures every entry that currently holds a usable answer.
// Entries that are empty or errored are skipped. The result is a plain
// transport structure: it survives the destruction of the controllers
// it came from.
func (s *Session) Snapshot() []Captured {
	var snap []Captured
	for _, e := range s.entries {
		if !e.Controller.HasAnswer() {
			continue
		}
		v, err := e.Controller.Answer()
		if err != nil || v.IsZero() {
			continue
		}
		snap = append(snap, Captured{Prompt: e.Descriptor.Prompt, Value: v})
	}
	return snap
}

// Apply restores a snapshot onto this session. Each entry, in order,
// consumes the first not-yet-used captured pair whose prompt matches
// its own exactly. Restoration is best effort: captured answers with
// no surviving question are dropped, and a value the new controller
// rejects is skipped rather than failing the rebuild.
func (s *Session) Apply(snap []Captured) {
	used := make([]bool, len(snap))
	for _, e := range s.entries {
		for i, c := range snap {
			if used[i] || c.Prompt != e.Descriptor.Prompt {
				continue
			}
			used[i] = true
			_ = e.Controller.SetAnswer(c.Value)
			break
		}
	}
}
