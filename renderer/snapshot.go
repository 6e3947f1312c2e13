// Package renderer turns the engine's report structures into markdown, the
// single presentation format shared by the CLI and the assistant.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/finlens/thirteenf"
)

// SnapshotMarkdown renders a fund's one-quarter summary.
func SnapshotMarkdown(s *thirteenf.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s, %s", s.Fund, s.Quarter))
	doc.PlainTextf("Total value %s across %d positions, concentration %.4f.",
		s.TotalValue, s.Positions, s.Concentration)
	doc.PlainText("")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Security", "Shares", "Value", "Weight"},
		Rows:   [][]string{},
	}
	for _, h := range s.Top {
		table.Rows = append(table.Rows, []string{
			string(h.Security),
			h.Shares.String(),
			h.Value.String(),
			h.Weight.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
