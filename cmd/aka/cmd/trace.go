package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// sessionTrace accumulates the frames and decisions taken during one AKA
// run; it is not part of the protocol's data model, just a CLI aid that
// renders those decisions as a table at the end of a session.
type sessionTrace struct {
	role string
	rows [][2]string
}

func newSessionTrace(role string) *sessionTrace {
	return &sessionTrace{role: role}
}

func (s *sessionTrace) record(step, detail string) {
	s.rows = append(s.rows, [2]string{step, detail})
}

func (s *sessionTrace) render() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	style := table.StyleRounded
	style.Color.Header = text.Colors{text.FgCyan, text.Bold}
	t.SetStyle(style)
	t.SetTitle(fmt.Sprintf("AKA SESSION TRACE (%s)", s.role))
	t.AppendHeader(table.Row{"Step", "Detail"})
	for _, row := range s.rows {
		t.AppendRow(table.Row{row[0], row[1]})
	}
	t.Render()
}
