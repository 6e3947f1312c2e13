package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/finlens/thirteenf"
)

// TimelineMarkdown renders a fund's quarter-by-quarter history with the
// delta against the nearest earlier filing.
func TimelineMarkdown(fund string, entries []thirteenf.TimelineEntry) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Timeline for %s", fund))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Quarter", "Positions", "Total", "Opened", "Closed", "Increased", "Decreased"},
		Rows:   [][]string{},
	}
	for _, e := range entries {
		row := []string{
			e.Filing.Quarter().String(),
			fmt.Sprintf("%d", e.Filing.Len()),
			e.Filing.TotalValue().String(),
		}
		if e.Delta == nil {
			// Baseline quarter: nothing to diff against.
			row = append(row, "-", "-", "-", "-")
		} else {
			counts := actionCounts(e.Delta)
			row = append(row,
				fmt.Sprintf("%d", counts[thirteenf.Opened]),
				fmt.Sprintf("%d", counts[thirteenf.Closed]),
				fmt.Sprintf("%d", counts[thirteenf.Increased]),
				fmt.Sprintf("%d", counts[thirteenf.Decreased]),
			)
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)

	return doc.String()
}

// HistoryMarkdown renders a fund's stored filings, one row per quarter.
func HistoryMarkdown(fund string, filings []*thirteenf.Filing) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Filings for %s", fund))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Quarter", "Positions", "Total", "Rejected rows"},
		Rows:   [][]string{},
	}
	for _, f := range filings {
		table.Rows = append(table.Rows, []string{
			f.Quarter().String(),
			fmt.Sprintf("%d", f.Len()),
			f.TotalValue().String(),
			fmt.Sprintf("%d", f.RejectedRows()),
		})
	}
	doc.Table(table)

	return doc.String()
}

// DeltaMarkdown renders one quarter-to-quarter diff in full.
func DeltaMarkdown(d *thirteenf.Delta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s to %s\n\n", d.Fund(), d.From(), d.To())
	fmt.Fprintf(&b, "Turnover %s.\n\n", d.Turnover())
	fmt.Fprintln(&b, "| Security | Action | Shares | Value |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for e := range d.Entries() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			e.Security,
			e.Action,
			e.ShareChange.SignedString(),
			e.ValueChange.SignedString(),
		)
	}
	return b.String()
}

func actionCounts(d *thirteenf.Delta) map[thirteenf.Action]int {
	counts := make(map[thirteenf.Action]int)
	for e := range d.Entries() {
		counts[e.Action]++
	}
	return counts
}
