package queue

import (
	"fmt"
	"time"

	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/protocol"
)

// Command is one parsed queue entry. The set of commands is closed; the
// engine dispatches on the concrete type.
type Command interface {
	// Name is the command word without the leading dashes.
	Name() string
	command()
}

// Format selects how an Output command renders the collected reports.
type Format string

// Output formats
const (
	FormatPrint   Format = "print"
	FormatJSON    Format = "json"
	FormatStatus  Format = "status"
	FormatPublish Format = "publish"
)

// Light
type (
	On         struct{}
	Off        struct{}
	Toggle     struct{}
	Up         struct{}
	Down       struct{}
	ReadColor  struct{}
	SetColor   struct{ Color protocol.Color }
	ReadEffect struct{}
)

// Built-in effects
type (
	// Pulse channels are 0 or 1.
	Pulse struct {
		Channels protocol.Color
		Hold     uint8
	}
	Flash struct {
		Color       protocol.Color
		Time        uint8 // 1/100 s
		Repetitions uint8
		Pause       uint8 // 1/10 s
	}
	Rainbow struct{ Hold uint8 }
	Candle  struct{ Color protocol.Color }
	Disco   struct{ Hold uint8 }
	Hold    struct{ Delay, Repetitions, Pause uint8 }
	Halt    struct{}
)

// Timers and scenes
type (
	ReadTimers struct{}

	// ClearTimers switches off Slot (0-3), or every slot for bulb.AllSlots.
	ClearTimers struct{ Slot int }

	SetTimer struct {
		Slot    int // 0-3
		Type    protocol.TimerType
		Start   bulb.StartTime
		Runtime int // minutes
		Color   protocol.Color
	}

	Scene struct{ Request bulb.SceneRequest }
)

// Security
type (
	ReadSecurity  struct{}
	SetSecurity   struct{ Request bulb.SecurityRequest }
	ClearSecurity struct{}
)

// Device info and maintenance
type (
	ReadName struct{}
	SetName  struct{ Value string }
	ReadPIN  struct{}
	SetPIN   struct{ PIN string }
	Dump     struct{}
	Status   struct{}
	Reset    struct{}
)

// Queue control
type (
	// Sleep pauses the stream of the bulb it runs on.
	Sleep struct{ Duration time.Duration }

	// Output captures the report at its position in the queue.
	Output struct{ Format Format }
)

func (On) Name() string            { return "on" }
func (Off) Name() string           { return "off" }
func (Toggle) Name() string        { return "toggle" }
func (Up) Name() string            { return "up" }
func (Down) Name() string          { return "down" }
func (ReadColor) Name() string     { return "color" }
func (SetColor) Name() string      { return "color" }
func (ReadEffect) Name() string    { return "effect" }
func (Pulse) Name() string         { return "pulse" }
func (Flash) Name() string         { return "flash" }
func (Rainbow) Name() string       { return "rainbow" }
func (Candle) Name() string        { return "candle" }
func (Disco) Name() string         { return "disco" }
func (Hold) Name() string          { return "hold" }
func (Halt) Name() string          { return "halt" }
func (ReadTimers) Name() string    { return "timer" }
func (ClearTimers) Name() string   { return "timer" }
func (SetTimer) Name() string      { return "timer" }
func (c Scene) Name() string       { return c.Request.Scene.Kind.String() }
func (ReadSecurity) Name() string  { return "security" }
func (SetSecurity) Name() string   { return "security" }
func (ClearSecurity) Name() string { return "security" }
func (ReadName) Name() string      { return "name" }
func (SetName) Name() string       { return "name" }
func (ReadPIN) Name() string       { return "pin" }
func (SetPIN) Name() string        { return "pin" }
func (Dump) Name() string          { return "dump" }
func (Status) Name() string        { return "status" }
func (Reset) Name() string         { return "reset" }
func (Sleep) Name() string         { return "sleep" }
func (c Output) Name() string      { return string(c.Format) }

func (On) command()            {}
func (Off) command()           {}
func (Toggle) command()        {}
func (Up) command()            {}
func (Down) command()          {}
func (ReadColor) command()     {}
func (SetColor) command()      {}
func (ReadEffect) command()    {}
func (Pulse) command()         {}
func (Flash) command()         {}
func (Rainbow) command()       {}
func (Candle) command()        {}
func (Disco) command()         {}
func (Hold) command()          {}
func (Halt) command()          {}
func (ReadTimers) command()    {}
func (ClearTimers) command()   {}
func (SetTimer) command()      {}
func (Scene) command()         {}
func (ReadSecurity) command()  {}
func (SetSecurity) command()   {}
func (ClearSecurity) command() {}
func (ReadName) command()      {}
func (SetName) command()       {}
func (ReadPIN) command()       {}
func (SetPIN) command()        {}
func (Dump) command()          {}
func (Status) command()        {}
func (Reset) command()         {}
func (Sleep) command()         {}
func (Output) command()        {}

// IsRead reports whether c only reads state from the bulb. A read that the
// bulb refuses leaves its report field unavailable instead of failing.
func IsRead(c Command) bool {
	switch c.(type) {
	case ReadColor, ReadEffect, ReadTimers, ReadSecurity, ReadName, ReadPIN, Dump, Status:
		return true
	}
	return false
}

// Describe renders c with its parameters for logs.
func Describe(c Command) string {
	switch c := c.(type) {
	case SetColor:
		return fmt.Sprintf("color %s", c.Color)
	case Pulse:
		return fmt.Sprintf("pulse %s hold=%d", c.Channels, c.Hold)
	case Flash:
		return fmt.Sprintf("flash %s time=%d repetitions=%d pause=%d", c.Color, c.Time, c.Repetitions, c.Pause)
	case Rainbow:
		return fmt.Sprintf("rainbow hold=%d", c.Hold)
	case Candle:
		return fmt.Sprintf("candle %s", c.Color)
	case Disco:
		return fmt.Sprintf("disco hold=%d", c.Hold)
	case Hold:
		return fmt.Sprintf("hold delay=%d repetitions=%d pause=%d", c.Delay, c.Repetitions, c.Pause)
	case ClearTimers:
		if c.Slot == bulb.AllSlots {
			return "timer off"
		}
		return fmt.Sprintf("timer %d off", c.Slot+1)
	case SetTimer:
		return fmt.Sprintf("timer %d start=%s runtime=%dm %s", c.Slot+1, c.Start, c.Runtime, c.Color)
	case Scene:
		return fmt.Sprintf("%s start=%s runtime=%dm", c.Request.Scene, c.Request.Start, c.Request.Runtime)
	case SetSecurity:
		return fmt.Sprintf("security %s-%s interval=%d-%dm %s",
			c.Request.Start, c.Request.End, c.Request.MinInterval, c.Request.MaxInterval, c.Request.Color)
	case ClearSecurity:
		return "security off"
	case SetName:
		return fmt.Sprintf("name %q", c.Value)
	case SetPIN:
		return "pin ****"
	case Sleep:
		return fmt.Sprintf("sleep %s", c.Duration)
	default:
		return c.Name()
	}
}
