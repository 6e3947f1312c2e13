package renderer

import (
	"fmt"
	"strings"

	"github.com/finlens/thirteenf"
)

// Still used by `assist` because that is the only way to let Gemini know the
// security keys (key and name are what it quotes back to the user).

// SecuritiesMarkdown renders the full alias table of a normalizer.
func SecuritiesMarkdown(n *thirteenf.Normalizer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Securities\n\n")
	fmt.Fprintln(&b, "| Key | Name | Confidence | Aliases |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|")

	for sec := range n.Securities() {
		confidence := "identifier"
		if sec.NameKeyed() {
			confidence = "name only"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			sec.Key(),
			sec.Name(),
			confidence,
			strings.Join(sec.Aliases(), ", "),
		)
	}
	return b.String()
}

// WarningsMarkdown renders a filing's data-quality warnings as a list.
func WarningsMarkdown(f *thirteenf.Filing) string {
	warnings := f.Warnings()
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Warnings for %s, %s\n\n", f.Fund(), f.Quarter())
	for _, w := range warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	return b.String()
}
