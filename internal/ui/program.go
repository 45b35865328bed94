package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes result boxes, or plain lines when the output is not a
// terminal.
type Printer struct {
	out    io.Writer
	styled bool
	width  int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer, styled bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:    w,
		styled: styled,
		width:  GetTerminalWidth(),
	}
}

// Styled reports whether the printer renders boxes.
func (p *Printer) Styled() bool {
	return p.styled
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintResult prints r as a box, or as plain lines.
func (p *Printer) PrintResult(r *Result) {
	if p.styled {
		p.Println(r.SetWidth(p.width).Render())
		return
	}
	p.Println(plainResult(r))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.PrintResult(NewSuccessResult(title, details...))
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.PrintResult(NewWarningResult(title, details...))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error) {
	p.PrintResult(NewFailureResult(title, err))
}

func plainResult(r *Result) string {
	var marker string
	switch r.Type {
	case ResultFailure:
		marker = FailureMarker
	case ResultWarning:
		marker = WarningMarker
	default:
		marker = SuccessMarker
	}
	s := marker + " " + r.Title
	for _, d := range r.Details {
		s += fmt.Sprintf("\n  %s: %s", d.Key, d.Value)
	}
	if r.Error != nil {
		s += "\n  Error: " + r.Error.Error()
	}
	for _, tip := range r.Troubleshooting {
		s += "\n  • " + tip
	}
	return s
}
