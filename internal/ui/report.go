package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the column limit for wrapped messages.
const DefaultWidth = 80

// Reporter prints command results for humans.
type Reporter struct {
	out   io.Writer
	width int
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, width: DefaultWidth}
}

// Title prints a heading.
func (r *Reporter) Title(text string) {
	fmt.Fprintln(r.out, TitleStyle.Render(text))
}

func (r *Reporter) Success(text string) {
	fmt.Fprintln(r.out, SuccessStyle.Render("✓")+" "+r.wrap(text, 2))
}

func (r *Reporter) Warning(text string) {
	fmt.Fprintln(r.out, WarningStyle.Render("!")+" "+r.wrap(text, 2))
}

func (r *Reporter) Error(err error) {
	fmt.Fprintln(r.out, ErrorStyle.Render("✗")+" "+r.wrap(err.Error(), 2))
}

// Info prints a faint line.
func (r *Reporter) Info(text string) {
	fmt.Fprintln(r.out, MutedStyle.Render(r.wrap(text, 0)))
}

// Files prints header followed by one path per line. Nothing is printed
// for an empty list.
func (r *Reporter) Files(header string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(r.out, header)
	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		lines = append(lines, "- "+PathStyle.Render(p))
	}
	fmt.Fprintln(r.out, ListStyle.Render(strings.Join(lines, "\n")))
}

// Duplicates reports server names defined by more than one provider.
func (r *Reporter) Duplicates(names []string) {
	if len(names) == 0 {
		return
	}
	r.Warning(fmt.Sprintf(
		"%d MCP server(s) were defined by more than one provider; the last definition was kept: %s",
		len(names), strings.Join(names, ", "),
	))
}

// wrap word-wraps text to the reporter width, indenting continuation lines.
func (r *Reporter) wrap(text string, indent int) string {
	if r.width <= indent {
		return text
	}
	wrapped := wordwrap.String(text, r.width-indent)
	if indent == 0 {
		return wrapped
	}
	return strings.ReplaceAll(wrapped, "\n", "\n"+strings.Repeat(" ", indent))
}
