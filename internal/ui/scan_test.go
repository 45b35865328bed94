package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/ble/bletest"
	"github.com/muurk/mipow/internal/identity"
)

func TestScanCollectsPlaybulbsSorted(t *testing.T) {
	tr := bletest.New()
	tr.AddBulb(identity.MustParseAddress("4C:24:98:6E:AC:E6"))
	tr.AddBulb(identity.MustParseAddress("4C:24:98:6D:AC:E6"))
	tr.AddBulb(identity.MustParseAddress("00:11:22:33:44:55"))

	result, err := Scan(context.Background(), tr, time.Second, io.Discard, false)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Seen != 3 {
		t.Errorf("Seen = %d, want 3", result.Seen)
	}
	if len(result.Bulbs) != 2 {
		t.Fatalf("len(Bulbs) = %d, want 2", len(result.Bulbs))
	}
	if got := result.Bulbs[0].Address.String(); got != "4C:24:98:6D:AC:E6" {
		t.Errorf("Bulbs[0] = %s, want 4C:24:98:6D:AC:E6", got)
	}
}

type failingScanner struct{ ble.Transport }

func (failingScanner) Scan(context.Context, func(ble.Advertisement)) error {
	return &ble.Error{Type: ble.ErrTypeAdapter, Op: "scan", Err: errors.New("adapter off")}
}

func TestScanReportsAdapterErrors(t *testing.T) {
	_, err := Scan(context.Background(), failingScanner{}, time.Second, io.Discard, false)
	if err == nil {
		t.Fatal("Scan() error = nil, want adapter error")
	}
}

func TestScanModelCountsDevices(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewScanModel(start.Add(10 * time.Second))
	m.now = func() time.Time { return start }

	for _, s := range []string{"4C:24:98:6D:AC:E6", "00:11:22:33:44:55"} {
		next, _ := m.Update(advertisementMsg{Address: identity.MustParseAddress(s), Name: "Candle"})
		m = next.(ScanModel)
	}

	view := m.View()
	if !strings.Contains(view, "2 devices seen (10s left)") {
		t.Errorf("View() = %q, want device count and time left", view)
	}
	if !strings.Contains(view, "4C:24:98:6D:AC:E6  Candle") {
		t.Errorf("View() = %q, want the Playbulb listed", view)
	}

	next, cmd := m.Update(scanDoneMsg{})
	m = next.(ScanModel)
	if cmd == nil {
		t.Error("scanDoneMsg should quit the program")
	}
	if strings.Contains(m.View(), "Scanning") {
		t.Error("finished view still shows the spinner line")
	}
	if got := len(m.Result().Bulbs); got != 1 {
		t.Errorf("len(Result().Bulbs) = %d, want 1", got)
	}
}

func TestSplitHint(t *testing.T) {
	err := &ble.Error{Type: ble.ErrTypeTimeout, Op: "connect"}
	summary, tips := SplitHint(ble.GetTroubleshootingHint(err))
	if summary != "The bulb did not respond in time." {
		t.Errorf("summary = %q", summary)
	}
	if len(tips) != 3 {
		t.Errorf("len(tips) = %d, want 3", len(tips))
	}
}

func TestPlainResult(t *testing.T) {
	r := NewWarningResult("unknown alias", Detail{Key: "Token", Value: "garage"})
	got := plainResult(r)
	want := WarningMarker + " unknown alias\n  Token: garage"
	if got != want {
		t.Errorf("plainResult() = %q, want %q", got, want)
	}
}
