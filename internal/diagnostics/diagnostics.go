// Package diagnostics prints translation errors for humans: the message,
// the query line, and a caret under the offending rune.
//
//	error[grammar]: after SELECT must be argument/s
//	  --> query:1:8
//	   |
//	 1 | select from c
//	   |        ^
//
// Output is colored with fatih/color unless disabled by the printer or the
// NO_COLOR environment variable.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer writes diagnostics to W.
type Printer struct {
	W io.Writer

	// Color allows ANSI colors. Colors are still dropped when NO_COLOR is
	// set or when W is not a terminal.
	Color bool
}

// NewPrinter creates a Printer.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	return &Printer{W: w, Color: useColor}
}

// Render writes one error diagnostic with colors allowed.
func Render(w io.Writer, query string, pos int, kind, msg string) error {
	return NewPrinter(w, true).Error(query, pos, kind, msg)
}

func (p *Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if !p.Color || os.Getenv("NO_COLOR") != "" {
		c.DisableColor()
	}
	return c
}

// Error writes an error diagnostic. pos is a rune offset into query; a
// negative pos prints the message alone.
func (p *Printer) Error(query string, pos int, kind, msg string) error {
	title := p.paint(color.FgRed, color.Bold)
	bold := p.paint(color.Bold)

	label := "error"
	if kind != "" {
		label = fmt.Sprintf("error[%s]", kind)
	}
	if _, err := title.Fprint(p.W, label); err != nil {
		return err
	}
	if _, err := bold.Fprintf(p.W, ": %s\n", msg); err != nil {
		return err
	}

	if pos < 0 {
		return nil
	}
	return p.excerpt(query, pos, title)
}

// Warning writes a one-line warning.
func (p *Printer) Warning(msg string) error {
	if _, err := p.paint(color.FgYellow, color.Bold).Fprint(p.W, "warning"); err != nil {
		return err
	}
	_, err := p.paint(color.Bold).Fprintf(p.W, ": %s\n", msg)
	return err
}

// excerpt prints the source line holding pos with a caret below it.
func (p *Printer) excerpt(query string, pos int, caret *color.Color) error {
	gutter := p.paint(color.FgCyan, color.Bold)

	line, col, text := locate(query, pos)
	width := len(fmt.Sprint(line))
	pad := strings.Repeat(" ", width)

	var b strings.Builder
	gutter.Fprintf(&b, "%s--> ", pad)
	fmt.Fprintf(&b, "query:%d:%d\n", line, col+1)
	gutter.Fprintf(&b, "%s |\n", pad)
	gutter.Fprintf(&b, "%d | ", line)
	fmt.Fprintf(&b, "%s\n", text)
	gutter.Fprintf(&b, "%s | ", pad)
	fmt.Fprintf(&b, "%s", strings.Repeat(" ", col))
	caret.Fprint(&b, "^")
	b.WriteString("\n")

	_, err := io.WriteString(p.W, b.String())
	return err
}

// locate maps a rune offset to a 1-based line number, a 0-based rune column,
// and the text of that line. Offsets past the end point just after the last
// rune.
func locate(query string, pos int) (line, col int, text string) {
	runes := []rune(query)
	if pos > len(runes) {
		pos = len(runes)
	}

	line, start := 1, 0
	for i := 0; i < pos; i++ {
		if runes[i] == '\n' {
			line++
			start = i + 1
		}
	}

	end := start
	for end < len(runes) && runes[end] != '\n' {
		end++
	}

	// Tabs print as one space so the caret column matches.
	return line, pos - start, strings.ReplaceAll(string(runes[start:end]), "\t", " ")
}
