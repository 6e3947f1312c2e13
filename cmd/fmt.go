package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// printMarkdown renders markdown to the terminal. On a plain pipe the raw
// markdown is printed as-is so output stays scriptable.
func printMarkdown(doc string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(doc)
		return
	}
	out, err := glamour.Render(doc, "auto")
	if err != nil {
		// Fall back to the raw markdown rather than losing the report.
		fmt.Print(doc)
		return
	}
	fmt.Print(out)
}
