package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/ble/bletest"
	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/protocol"
)

var testAddr = identity.MustParseAddress("11:22:33:44:AC:E6")

// fullReport reads the complete state of a red bulb with timer 2 set and
// a PIN it refuses to reveal.
func fullReport(t *testing.T) bulb.DeviceReport {
	t.Helper()
	tr := bletest.New()
	b := tr.AddBulb(testAddr)
	b.Set(protocol.CharColor, protocol.EncodeColor(protocol.Color{Red: 255}))
	b.DenyRead(protocol.CharPIN)

	bank := protocol.ClearedTimerBank()
	bank.Clock = protocol.TimeOfDay{Hour: 12}
	bank.Timers[1] = protocol.Timer{Slot: 1, Type: protocol.TimerDoze, Start: protocol.TimeOfDay{Hour: 22}, Runtime: 30, Color: protocol.ColorWhite}
	b.Set(protocol.CharTimerSchedule, protocol.EncodeTimerSchedule(bank))
	b.Set(protocol.CharTimerEffect, protocol.EncodeTimerEffect(bank))

	ctx := context.Background()
	conn, err := tr.Connect(ctx, testAddr)
	require.NoError(t, err)
	s := bulb.New(conn, bulb.WithClock(tr.Now), bulb.WithAliases([]string{"kitchen"}))
	defer func() { _ = s.Close() }()
	require.NoError(t, s.FullState(ctx))
	return s.Report().Snapshot()
}

func row(label, value string) string {
	return fmt.Sprintf("%-30s%s", label, value)
}

func TestPrintLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Print([]bulb.DeviceReport{fullReport(t)}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, strings.Repeat("-", 47)+"\n"))
	for _, want := range []string{
		row("Device mac:", "11:22:33:44:AC:E6"),
		row("Device name:", "PLAYBULB CANDLE"),
		row("Alias:", "kitchen"),
		row("Device PIN:", "n/a (Bulb refused the request)"),
		row("Battery level:", "87%"),
		row("Manufacturer:", "MIPOW"),
		row("Light:", "WRGB(0,255,0,0)"),
		row("Effect:", "off"),
		row("- Repititions:", "0"),
		row("Timer 2:", "doze"),
		row("- Time:", "22:00"),
		row("- Runtime:", "00:30"),
		row("Time:", "12:00"),
		row("Security:", "inactive"),
		row("- Start:", "--:--"),
	} {
		assert.Contains(t, out, want+"\n")
	}
	assert.Equal(t, 4, strings.Count(out, "\nTimer "), "every slot is listed")
	assert.NotContains(t, out, "✗")
}

func TestPrintUnreadFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Print([]bulb.DeviceReport{*bulb.NewReport(testAddr)}))
	out := buf.String()

	for _, label := range []string{"Device name:", "Alias:", "Battery level:", "Light:", "Effect:", "Timers:", "Security:"} {
		assert.Contains(t, out, row(label, "n/a")+"\n")
	}
}

func TestPrintFailures(t *testing.T) {
	r := bulb.NewReport(testAddr)
	r.AddFailure("name", &ble.Error{Type: ble.ErrTypePermissionDenied, Op: "write", Address: testAddr, Characteristic: protocol.CharName})
	r.Aborted = true

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Status([]bulb.DeviceReport{*r}))
	out := buf.String()
	assert.Contains(t, out, "✗ --name: Bulb refused the request")
	assert.Contains(t, out, "Remaining commands were skipped")
}

func TestStatusLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Status([]bulb.DeviceReport{fullReport(t)}))

	want := strings.Join([]string{
		strings.Repeat("-", 47),
		"Address:    11:22:33:44:AC:E6",
		"Alias:      kitchen",
		"",
		"Light:      WRGB(0,255,0,0)",
		"",
		"Timer 2:    22:00, WRGB(255,0,0,0), 00:30m",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestStatusShowsRunningEffectAndSecurity(t *testing.T) {
	r := bulb.NewReport(testAddr)
	r.Color = bulb.Available(protocol.Color{Red: 255})
	r.Effect = bulb.Available(protocol.CandleEffect(protocol.Color{Red: 200}))
	r.Security = bulb.Available(protocol.Security{
		Active:      true,
		Clock:       protocol.TimeOfDay{Hour: 19},
		Start:       protocol.TimeOfDay{Hour: 18},
		End:         protocol.TimeOfDay{Hour: 23, Minute: 30},
		MinInterval: 5,
		MaxInterval: 20,
		Color:       protocol.ColorWhite,
	})

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Status([]bulb.DeviceReport{*r}))
	out := buf.String()
	assert.Contains(t, out, "Effect:     Effect(type=candle")
	assert.NotContains(t, out, "Light:")
	assert.Contains(t, out, "\nSecurity:    18:00 - 23:30, WRGB(255,0,0,0), 5 - 20m\n")
}

func TestStyledOutputKeepsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, true).Status([]bulb.DeviceReport{*bulb.NewReport(testAddr)}))
	assert.Contains(t, buf.String(), "11:22:33:44:AC:E6")
}

func decodeJSON(t *testing.T, reports ...bulb.DeviceReport) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, reports))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {\n"), "indented array")

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, len(reports))
	return docs
}

func TestJSONDocument(t *testing.T) {
	doc := decodeJSON(t, fullReport(t))[0]

	assert.Equal(t, "11:22:33:44:AC:E6", doc["address"])
	assert.Equal(t, []any{"kitchen"}, doc["aliases"])
	assert.Equal(t, "PLAYBULB CANDLE", doc["name"])
	assert.Nil(t, doc["pin"], "a refused read is null")
	assert.Contains(t, doc, "pin")
	assert.EqualValues(t, 87, doc["batteryLevel"])
	assert.Equal(t, "BTL300_v5", doc["firmwareRevision"])
	assert.NotContains(t, doc, "errors")

	color := doc["color"].(map[string]any)
	assert.EqualValues(t, 255, color["red"])
	assert.Equal(t, "WRGB(0,255,0,0)", color["color_str"])

	effect := doc["effect"].(map[string]any)
	assert.Equal(t, "off", effect["type_str"])

	timers := doc["timers"].(map[string]any)
	assert.Equal(t, "12:00", timers["time_str"])
	slots := timers["timers"].([]any)
	require.Len(t, slots, 4)
	first := slots[0].(map[string]any)
	assert.Nil(t, first["hour"])
	assert.Equal(t, "--:--", first["time_str"])
	second := slots[1].(map[string]any)
	assert.EqualValues(t, 2, second["id"])
	assert.EqualValues(t, 22, second["hour"])
	assert.Equal(t, "doze", second["type_str"])
	assert.Equal(t, "00:30", second["runtime_str"])

	security := doc["security"].(map[string]any)
	assert.Equal(t, false, security["active"])
	assert.Nil(t, security["startingHour"])
	assert.EqualValues(t, 12, security["hour"])
}

func TestJSONUnreadAndFailures(t *testing.T) {
	r := bulb.NewReport(testAddr)
	r.AddFailure("connect", &ble.Error{Type: ble.ErrTypeTimeout, Op: "connect", Address: testAddr})
	r.Aborted = true

	doc := decodeJSON(t, *r)[0]
	for _, key := range []string{"name", "pin", "color", "effect", "timers", "security"} {
		assert.Contains(t, doc, key)
		assert.Nil(t, doc[key], key)
	}
	assert.Equal(t, []any{}, doc["aliases"])
	assert.Equal(t, true, doc["aborted"])

	errs := doc["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "connect", errs[0].(map[string]any)["command"])
	assert.Equal(t, "Bulb not responding (timeout)", errs[0].(map[string]any)["error"])
}
