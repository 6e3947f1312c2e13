package renderer

import (
	"fmt"
	"strings"

	"github.com/finlens/thirteenf"
	"github.com/finlens/thirteenf/quarter"
)

// SeriesMarkdown renders a security's value series in one fund, one row per
// quarter over the fund's whole observed range. Zero rows are kept: an
// explicit zero distinguishes an exited position from missing data.
func SeriesMarkdown(fund string, key thirteenf.Key, series *quarter.History[float64]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s in %s\n\n", key, fund)
	fmt.Fprintln(&b, "| Quarter | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	for q, v := range series.Values() {
		fmt.Fprintf(&b, "| %s | %s |\n", q, thirteenf.USD(v))
	}
	return b.String()
}

// FundsMarkdown renders the list of funds known to a store.
func FundsMarkdown(funds []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Funds\n\n")
	for _, fund := range funds {
		fmt.Fprintf(&b, "- %s\n", fund)
	}
	return b.String()
}
