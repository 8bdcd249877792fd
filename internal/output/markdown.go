package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// wrapWidth is the stdout terminal width clamped to [20, 120], or 80 when
// stdout is not a terminal.
func wrapWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return min(max(width, 20), 120)
}

func renderMarkdown(text string, width int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	out, err := r.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// Markdown writes text rendered for the terminal to w, or the raw text when
// rendering fails.
func Markdown(w io.Writer, text string) {
	rendered, err := renderMarkdown(text, wrapWidth())
	if err != nil {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprintln(w, rendered)
}
