package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/finlens/thirteenf"
	"github.com/finlens/thirteenf/quarter"
)

// MoversMarkdown renders the cross-fund ranking of securities for one
// action in one quarter.
func MoversMarkdown(q quarter.Quarter, action thirteenf.Action, movers []thirteenf.Mover) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Most %s in %s", action, q))

	if len(movers) == 0 {
		doc.PlainText("No fund performed this action in this quarter.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Security", "Funds", "Value Delta", "Who"},
		Rows:   [][]string{},
	}
	for _, m := range movers {
		table.Rows = append(table.Rows, []string{
			string(m.Security),
			fmt.Sprintf("%d", len(m.Funds)),
			m.ValueDelta.SignedString(),
			strings.Join(m.Funds, ", "),
		})
	}
	doc.Table(table)

	return doc.String()
}
