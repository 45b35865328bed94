package report

import (
	"encoding/json"
	"io"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/protocol"
)

// JSON document of one bulb. Values that were not read, or that the bulb
// refused, are null.
type deviceJSON struct {
	Address          string        `json:"address"`
	Aliases          []string      `json:"aliases"`
	Name             *string       `json:"name"`
	SerialNumber     *string       `json:"serialNumber"`
	PIN              *string       `json:"pin"`
	BatteryLevel     *int          `json:"batteryLevel"`
	FirmwareRevision *string       `json:"firmwareRevision"`
	HardwareRevision *string       `json:"hardwareRevision"`
	SoftwareRevision *string       `json:"softwareRevision"`
	Manufacturer     *string       `json:"manufacturer"`
	PnPID            *string       `json:"pnpId"`
	Color            *colorJSON    `json:"color"`
	Effect           *effectJSON   `json:"effect"`
	Timers           *timersJSON   `json:"timers"`
	Security         *securityJSON `json:"security"`
	Errors           []failureJSON `json:"errors,omitempty"`
	Aborted          bool          `json:"aborted,omitempty"`
}

type colorJSON struct {
	White    uint8  `json:"white"`
	Red      uint8  `json:"red"`
	Green    uint8  `json:"green"`
	Blue     uint8  `json:"blue"`
	ColorStr string `json:"color_str"`
}

type effectJSON struct {
	Color       colorJSON `json:"color"`
	Type        uint8     `json:"type"`
	TypeStr     string    `json:"type_str"`
	Repetitions uint8     `json:"repetitions"`
	Delay       uint8     `json:"delay"`
	Pause       uint8     `json:"pause"`
}

type timerJSON struct {
	ID         int       `json:"id"`
	Type       uint8     `json:"type"`
	TypeStr    string    `json:"type_str"`
	Hour       *uint8    `json:"hour"`
	Minute     *uint8    `json:"minute"`
	TimeStr    string    `json:"time_str"`
	Runtime    int       `json:"runtime"`
	RuntimeStr string    `json:"runtime_str"`
	Color      colorJSON `json:"color"`
}

type timersJSON struct {
	Hour    *uint8      `json:"hour"`
	Minute  *uint8      `json:"minute"`
	TimeStr string      `json:"time_str"`
	Timers  []timerJSON `json:"timers"`
}

type securityJSON struct {
	Active         bool      `json:"active"`
	Hour           *uint8    `json:"hour"`
	Minute         *uint8    `json:"minute"`
	TimeStr        string    `json:"time_str"`
	StartingHour   *uint8    `json:"startingHour"`
	StartingMinute *uint8    `json:"startingMinute"`
	StartStr       string    `json:"start_str"`
	EndingHour     *uint8    `json:"endingHour"`
	EndingMinute   *uint8    `json:"endingMinute"`
	EndStr         string    `json:"end_str"`
	MinInterval    uint8     `json:"minInterval"`
	MaxInterval    uint8     `json:"maxInterval"`
	Color          colorJSON `json:"color"`
}

type failureJSON struct {
	Command string `json:"command"`
	Error   string `json:"error"`
}

func value[T any, R any](f *bulb.Field[T], conv func(T) R) *R {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	r := conv(v)
	return &r
}

func same[T any](v T) T { return v }

func newColorJSON(c protocol.Color) colorJSON {
	return colorJSON{White: c.White, Red: c.Red, Green: c.Green, Blue: c.Blue, ColorStr: c.String()}
}

// clock splits t into hour and minute, both null when unset.
func clock(t protocol.TimeOfDay) (*uint8, *uint8) {
	if !t.IsSet() {
		return nil, nil
	}
	h, m := t.Hour, t.Minute
	return &h, &m
}

func newEffectJSON(e protocol.Effect) effectJSON {
	return effectJSON{
		Color:       newColorJSON(e.Color),
		Type:        uint8(e.Type),
		TypeStr:     e.Type.String(),
		Repetitions: e.Repetitions,
		Delay:       e.Delay,
		Pause:       e.Pause,
	}
}

func newTimersJSON(bank protocol.TimerBank) timersJSON {
	out := timersJSON{TimeStr: bank.Clock.String(), Timers: make([]timerJSON, 0, len(bank.Timers))}
	out.Hour, out.Minute = clock(bank.Clock)
	for _, t := range bank.Timers {
		tj := timerJSON{
			ID:         t.Slot + 1,
			Type:       uint8(t.Type),
			TypeStr:    t.Type.String(),
			TimeStr:    t.Start.String(),
			Runtime:    t.Runtime,
			RuntimeStr: t.RuntimeString(),
			Color:      newColorJSON(t.Color),
		}
		tj.Hour, tj.Minute = clock(t.Start)
		out.Timers = append(out.Timers, tj)
	}
	return out
}

func newSecurityJSON(s protocol.Security) securityJSON {
	out := securityJSON{
		Active:      s.Active,
		TimeStr:     s.Clock.String(),
		StartStr:    s.Start.String(),
		EndStr:      s.End.String(),
		MinInterval: s.MinInterval,
		MaxInterval: s.MaxInterval,
		Color:       newColorJSON(s.Color),
	}
	out.Hour, out.Minute = clock(s.Clock)
	out.StartingHour, out.StartingMinute = clock(s.Start)
	out.EndingHour, out.EndingMinute = clock(s.End)
	return out
}

func newDeviceJSON(r bulb.DeviceReport) deviceJSON {
	d := deviceJSON{
		Address:          r.Address.String(),
		Aliases:          r.Aliases,
		Name:             value(r.Name, same[string]),
		SerialNumber:     value(r.Serial, same[string]),
		PIN:              value(r.PIN, same[string]),
		BatteryLevel:     value(r.Battery, same[int]),
		FirmwareRevision: value(r.Firmware, same[string]),
		HardwareRevision: value(r.Hardware, same[string]),
		SoftwareRevision: value(r.Software, same[string]),
		Manufacturer:     value(r.Manufacturer, same[string]),
		PnPID:            value(r.PnPID, protocol.PnPID.String),
		Color:            value(r.Color, newColorJSON),
		Effect:           value(r.Effect, newEffectJSON),
		Timers:           value(r.Timers, newTimersJSON),
		Security:         value(r.Security, newSecurityJSON),
		Aborted:          r.Aborted,
	}
	if d.Aliases == nil {
		d.Aliases = []string{}
	}
	for _, f := range r.Failures {
		d.Errors = append(d.Errors, failureJSON{Command: f.Command, Error: ble.GetShortErrorMessage(f.Err)})
	}
	return d
}

// MarshalDevice returns the JSON document of one bulb.
func MarshalDevice(r bulb.DeviceReport) ([]byte, error) {
	return json.Marshal(newDeviceJSON(r))
}

// WriteJSON writes the reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []bulb.DeviceReport) error {
	docs := make([]deviceJSON, 0, len(reports))
	for _, r := range reports {
		docs = append(docs, newDeviceJSON(r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
