package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/protocol"
	"github.com/muurk/mipow/internal/ui"
)

const (
	labelWidth  = 30
	statusWidth = 12
	notAvail    = "n/a"
)

var separator = strings.Repeat("-", 47)

// Printer writes the --print and --status layouts. Styled output colors
// labels and missing values and is meant for terminals only.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, styled: styled}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

type lines struct {
	p *Printer
	b strings.Builder
}

func (l *lines) raw(s string) {
	l.b.WriteString(s)
	l.b.WriteString("\n")
}

func (l *lines) blank() {
	l.b.WriteString("\n")
}

func (l *lines) separator() {
	l.raw(l.p.style(ui.SeparatorStyle, separator))
}

// field writes a label padded to width followed by the value.
func (l *lines) field(width int, label, value string) {
	padded := fmt.Sprintf("%-*s", width, label)
	style := ui.ValueStyle
	if strings.HasPrefix(value, notAvail) {
		style = ui.MissingStyle
	}
	l.raw(l.p.style(ui.LabelStyle, padded) + l.p.style(style, value))
}

func text[T any](f *bulb.Field[T], format func(T) string) string {
	v, ok := f.Get()
	if ok {
		return format(v)
	}
	if f == nil {
		return notAvail
	}
	return notAvail + " (" + f.Reason() + ")"
}

func plain(s string) string { return s }

func aliases(r bulb.DeviceReport) string {
	if len(r.Aliases) == 0 {
		return notAvail
	}
	return strings.Join(r.Aliases, ", ")
}

// Print writes the full report of each bulb.
func (p *Printer) Print(reports []bulb.DeviceReport) error {
	l := &lines{p: p}
	for _, r := range reports {
		l.separator()
		l.field(labelWidth, "Device mac:", r.Address.String())
		l.field(labelWidth, "Device name:", text(r.Name, plain))
		l.field(labelWidth, "Alias:", aliases(r))
		l.blank()
		l.field(labelWidth, "Device PIN:", text(r.PIN, plain))
		l.field(labelWidth, "Battery level:", text(r.Battery, func(v int) string { return fmt.Sprintf("%d%%", v) }))
		l.blank()
		l.field(labelWidth, "Manufacturer:", text(r.Manufacturer, plain))
		l.field(labelWidth, "Serial no.:", text(r.Serial, plain))
		l.field(labelWidth, "Hardware:", text(r.Hardware, plain))
		l.field(labelWidth, "Software:", text(r.Software, plain))
		l.field(labelWidth, "Firmware:", text(r.Firmware, plain))
		l.field(labelWidth, "pnpID:", text(r.PnPID, protocol.PnPID.String))
		l.blank()
		l.field(labelWidth, "Light:", text(r.Color, protocol.Color.String))
		l.blank()

		if e, ok := r.Effect.Get(); ok {
			l.field(labelWidth, "Effect:", e.Type.String())
			l.field(labelWidth, "- Light:", e.Color.String())
			l.field(labelWidth, "- Delay:", fmt.Sprint(e.Delay))
			l.field(labelWidth, "- Repititions:", fmt.Sprint(e.Repetitions))
			l.field(labelWidth, "- Pause:", fmt.Sprint(e.Pause))
		} else {
			l.field(labelWidth, "Effect:", text(r.Effect, protocol.Effect.String))
		}
		l.blank()

		if bank, ok := r.Timers.Get(); ok {
			for _, t := range bank.Timers {
				l.blank()
				l.field(labelWidth, fmt.Sprintf("Timer %d:", t.Slot+1), t.Type.String())
				l.field(labelWidth, "- Time:", t.Start.String())
				l.field(labelWidth, "- Runtime:", t.RuntimeString())
				l.field(labelWidth, "- Light:", t.Color.String())
			}
			l.blank()
			l.field(labelWidth, "Time:", bank.Clock.String())
		} else {
			l.field(labelWidth, "Timers:", text(r.Timers, func(protocol.TimerBank) string { return "" }))
		}
		l.blank()

		if s, ok := r.Security.Get(); ok {
			state := "inactive"
			if s.Active {
				state = "running"
			}
			l.field(labelWidth, "Security:", state)
			l.field(labelWidth, "- Start:", s.Start.String())
			l.field(labelWidth, "- End:", s.End.String())
			l.field(labelWidth, "- min. interval:", fmt.Sprint(s.MinInterval))
			l.field(labelWidth, "- max. interval:", fmt.Sprint(s.MaxInterval))
			l.field(labelWidth, "- Light:", s.Color.String())
		} else {
			l.field(labelWidth, "Security:", text(r.Security, protocol.Security.String))
		}
		l.blank()

		p.failures(l, r)
	}
	_, err := io.WriteString(p.w, l.b.String())
	return err
}

// Status writes the short status of each bulb.
func (p *Printer) Status(reports []bulb.DeviceReport) error {
	l := &lines{p: p}
	for _, r := range reports {
		l.separator()
		l.field(statusWidth, "Address:", r.Address.String())
		if len(r.Aliases) > 0 {
			l.field(statusWidth, "Alias:", aliases(r))
			l.blank()
		}

		if e, ok := r.Effect.Get(); ok && e.Running() {
			l.field(statusWidth, "Effect:", e.String())
		} else {
			l.field(statusWidth, "Light:", text(r.Color, protocol.Color.String))
		}

		if bank, ok := r.Timers.Get(); ok {
			first := true
			for _, t := range bank.Timers {
				if !t.Active() {
					continue
				}
				if first {
					l.blank()
					first = false
				}
				l.field(statusWidth, fmt.Sprintf("Timer %d:", t.Slot+1),
					fmt.Sprintf("%s, %s, %sm", t.Start, t.Color, t.RuntimeString()))
			}
		}

		if s, ok := r.Security.Get(); ok && s.Scheduled() {
			l.blank()
			l.field(statusWidth+1, "Security:",
				fmt.Sprintf("%s - %s, %s, %d - %dm", s.Start, s.End, s.Color, s.MinInterval, s.MaxInterval))
		}

		p.failures(l, r)
	}
	_, err := io.WriteString(p.w, l.b.String())
	return err
}

func (p *Printer) failures(l *lines, r bulb.DeviceReport) {
	if len(r.Failures) == 0 && !r.Aborted {
		return
	}
	l.blank()
	for _, f := range r.Failures {
		l.raw(p.style(ui.ErrorMessageStyle, fmt.Sprintf("%s --%s: %s", ui.FailureMarker, f.Command, ble.GetShortErrorMessage(f.Err))))
	}
	if r.Aborted {
		l.raw(p.style(ui.WarningStyle, "Remaining commands were skipped"))
	}
}
