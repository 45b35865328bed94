package protocol

import (
	"fmt"
	"strings"
)

// SceneKind names a multi-slot timer program.
type SceneKind uint8

// Scene programs
const (
	SceneNone SceneKind = iota
	SceneFade
	SceneAmbient
	SceneWakeup
	SceneDoze
	SceneWheel
)

func (k SceneKind) String() string {
	switch k {
	case SceneNone:
		return "timer"
	case SceneFade:
		return "fade"
	case SceneAmbient:
		return "ambient"
	case SceneWakeup:
		return "wakeup"
	case SceneDoze:
		return "doze"
	case SceneWheel:
		return "wheel"
	default:
		return fmt.Sprintf("scene(%d)", uint8(k))
	}
}

// WheelOrder is the channel order the color wheel walks through.
type WheelOrder string

// Supported wheel orders
const (
	WheelBGR WheelOrder = "bgr"
	WheelGRB WheelOrder = "grb"
	WheelRBG WheelOrder = "rbg"
)

// ParseWheelOrder accepts bgr, grb or rbg in any case.
func ParseWheelOrder(s string) (WheelOrder, error) {
	switch o := WheelOrder(strings.ToLower(s)); o {
	case WheelBGR, WheelGRB, WheelRBG:
		return o, nil
	}
	return "", fmt.Errorf("invalid wheel order %q: want bgr, grb or rbg", s)
}

// Scene tags a planned timer with the program that produced it. Order is
// only set for SceneWheel.
type Scene struct {
	Kind  SceneKind
	Order WheelOrder
}

func (s Scene) String() string {
	if s.Kind == SceneWheel && s.Order != "" {
		return fmt.Sprintf("wheel(%s)", s.Order)
	}
	return s.Kind.String()
}

// Scene colors
var (
	ambientColor = Color{Red: 255, Green: 47}
	nightBlue    = Color{Blue: 20}
	dawnCyan     = Color{Green: 60, Blue: 255}
)

// SceneProgram is a request to fill the timer bank with a scene.
type SceneProgram struct {
	Scene      Scene
	Start      TimeOfDay // ignored by fade
	Runtime    int       // minutes
	Color      Color     // fade only
	Brightness uint8     // wheel only
}

// CutRuntimeToDay shortens runtime so a program starting at start ends at
// midnight at the latest.
func CutRuntimeToDay(start TimeOfDay, runtime int) int {
	if start.Minutes()+runtime >= MinutesPerDay {
		return MinutesPerDay - start.Minutes()
	}
	return runtime
}

// PlanScene lays p out over all four slots. now is the bulb clock and is
// only used by fade, which starts one minute from now.
func PlanScene(p SceneProgram, now TimeOfDay) (TimerBank, error) {
	if p.Runtime < 0 {
		return TimerBank{}, &RangeError{Field: "scene runtime", Value: p.Runtime, Min: 0, Max: MinutesPerDay}
	}

	bank := ClearedTimerBank()
	bank.Clock = now

	switch p.Scene.Kind {
	case SceneFade:
		if !now.IsSet() {
			return TimerBank{}, fmt.Errorf("fade needs the bulb clock")
		}
		if err := checkRange("fade runtime", p.Runtime, 0, MaxTimerRuntime); err != nil {
			return TimerBank{}, err
		}
		bank.Timers[3] = Timer{Type: TimerWakeup, Start: now.Add(1), Runtime: p.Runtime, Color: p.Color}

	case SceneAmbient:
		start, runtime, err := sceneWindow(p)
		if err != nil {
			return TimerBank{}, err
		}
		bank.Timers[2] = Timer{Type: TimerWakeup, Start: start, Runtime: 1, Color: ambientColor}
		bank.Timers[3] = Timer{Type: TimerDoze, Start: start.Add(runtime - 1), Runtime: 1}

	case SceneWakeup:
		start, runtime, err := sceneWindow(p)
		if err != nil {
			return TimerBank{}, err
		}
		r1 := clampRuntime(runtime * 16 / 60)
		start2 := start.Add(r1)
		r2 := clampRuntime(runtime * 8 / 60)
		start3 := start2.Add(r2)
		bank.Timers[0] = Timer{Type: TimerWakeup, Start: start, Runtime: r1, Color: nightBlue}
		bank.Timers[1] = Timer{Type: TimerWakeup, Start: start2, Runtime: r2, Color: dawnCyan}
		bank.Timers[2] = Timer{Type: TimerWakeup, Start: start3, Runtime: 1, Color: ColorWhite}
		bank.Timers[3] = Timer{Type: TimerDoze, Start: start3.Add(runtime * 36 / 60), Runtime: 1}

	case SceneDoze:
		start, runtime, err := sceneWindow(p)
		if err != nil {
			return TimerBank{}, err
		}
		r3 := runtime * 2 / 3
		bank.Timers[2] = Timer{Type: TimerWakeup, Start: start, Runtime: clampRuntime(r3), Color: ambientColor}
		bank.Timers[3] = Timer{Type: TimerDoze, Start: start.Add(r3), Runtime: clampRuntime(runtime / 3)}

	case SceneWheel:
		order, err := ParseWheelOrder(string(p.Scene.Order))
		if err != nil {
			return TimerBank{}, err
		}
		p.Scene.Order = order
		start, runtime, err := sceneWindow(p)
		if err != nil {
			return TimerBank{}, err
		}
		lap := min(runtime/4, 480)
		slotRuntime := clampRuntime(lap)
		starts := [TimerSlots]TimeOfDay{start}
		starts[1] = starts[0].Add(lap)
		starts[2] = starts[1].Add(lap)
		starts[3] = starts[2].Add(min(lap, 479))

		for i, c := range string(order) {
			switch c {
			case 'b':
				bank.Timers[0] = Timer{Type: TimerWakeup, Start: starts[i], Runtime: slotRuntime, Color: Color{Blue: p.Brightness}}
			case 'g':
				bank.Timers[1] = Timer{Type: TimerWakeup, Start: starts[i], Runtime: slotRuntime, Color: Color{Green: p.Brightness}}
			case 'r':
				bank.Timers[2] = Timer{Type: TimerWakeup, Start: starts[i], Runtime: slotRuntime, Color: Color{Red: p.Brightness}}
			}
		}
		bank.Timers[3] = Timer{Type: TimerDoze, Start: starts[3], Runtime: slotRuntime}

	default:
		return TimerBank{}, fmt.Errorf("not a scene program: %s", p.Scene)
	}

	for i := range bank.Timers {
		bank.Timers[i].Slot = i
		if bank.Timers[i].Type != TimerOff {
			bank.Timers[i].Scene = p.Scene
		}
	}
	return bank, nil
}

func sceneWindow(p SceneProgram) (TimeOfDay, int, error) {
	if !p.Start.IsSet() {
		return TimeOfDay{}, 0, fmt.Errorf("%s needs a start time", p.Scene)
	}
	return p.Start, CutRuntimeToDay(p.Start, p.Runtime), nil
}

func clampRuntime(m int) int {
	return max(0, min(m, MaxTimerRuntime))
}
