package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/identity"
)

// ScanResult is what one scan saw.
type ScanResult struct {
	Seen  int                 // advertising devices of any kind
	Bulbs []ble.Advertisement // Playbulbs, sorted by address
}

func (r *ScanResult) add(ad ble.Advertisement) {
	r.Seen++
	if !ad.Address.IsPlaybulb() {
		return
	}
	i, found := slices.BinarySearchFunc(r.Bulbs, ad.Address, func(a ble.Advertisement, addr identity.Address) int {
		return strings.Compare(a.Address.String(), addr.String())
	})
	if !found {
		r.Bulbs = slices.Insert(r.Bulbs, i, ad)
	}
}

// Messages fed into the scan view
type advertisementMsg ble.Advertisement
type scanDoneMsg struct{ err error }

// ScanModel shows a spinner with the number of devices seen and the
// Playbulbs found so far.
type ScanModel struct {
	spinner  spinner.Model
	result   ScanResult
	deadline time.Time
	now      func() time.Time
	done     bool
	quit     bool
	err      error
}

// NewScanModel creates a scan view for a scan ending at deadline.
func NewScanModel(deadline time.Time) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = PlaybulbStyle
	return ScanModel{spinner: s, deadline: deadline, now: time.Now}
}

// Init implements tea.Model
func (m ScanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		}

	case advertisementMsg:
		m.result.add(ble.Advertisement(msg))

	case scanDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m ScanModel) View() string {
	var b strings.Builder
	if !m.done && !m.quit {
		left := max(0, m.deadline.Sub(m.now()).Round(time.Second))
		fmt.Fprintf(&b, "%s Scanning for Playbulbs... %d devices seen (%s left)\n",
			m.spinner.View(), m.result.Seen, left)
	}
	for _, ad := range m.result.Bulbs {
		fmt.Fprintf(&b, "  %s %s  %s\n", PlaybulbStyle.Render(SuccessMarker), ad.Address, ad.Name)
	}
	return b.String()
}

// Result returns what the view has collected.
func (m ScanModel) Result() ScanResult {
	return m.result
}

// Scan runs a scan of the given duration. On a terminal the spinner view
// is shown on out; otherwise the scan runs silently. Stopping the view
// with q or ctrl+c ends the scan early.
func Scan(ctx context.Context, t ble.Transport, d time.Duration, out io.Writer, interactive bool) (ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	if !interactive {
		var mu sync.Mutex
		var result ScanResult
		err := t.Scan(ctx, func(ad ble.Advertisement) {
			mu.Lock()
			defer mu.Unlock()
			result.add(ad)
		})
		return result, scanErr(err)
	}

	deadline, _ := ctx.Deadline()
	p := tea.NewProgram(NewScanModel(deadline), tea.WithOutput(out), tea.WithContext(ctx))

	scanned := make(chan struct{})
	go func() {
		defer close(scanned)
		err := t.Scan(ctx, func(ad ble.Advertisement) {
			p.Send(advertisementMsg(ad))
		})
		p.Send(scanDoneMsg{err: scanErr(err)})
	}()

	final, err := p.Run()
	cancel()
	<-scanned

	m, ok := final.(ScanModel)
	if !ok {
		return ScanResult{}, err
	}
	if m.err != nil {
		return m.result, m.err
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return m.result, err
	}
	return m.result, nil
}

// scanErr drops the error a scan returns when its time is up.
func scanErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
