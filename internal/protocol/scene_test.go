package protocol

import "testing"

type slotWant struct {
	typ     TimerType
	start   string
	runtime int
	color   Color
}

func checkBank(t *testing.T, bank TimerBank, want [TimerSlots]slotWant) {
	t.Helper()
	for i, w := range want {
		got := bank.Timers[i]
		if got.Slot != i {
			t.Errorf("slot %d: Slot = %d", i+1, got.Slot)
		}
		if got.Type != w.typ || got.Start.String() != w.start || got.Runtime != w.runtime || got.Color != w.color {
			t.Errorf("slot %d = %s %s %dm %s, want %s %s %dm %s",
				i+1, got.Type, got.Start, got.Runtime, got.Color,
				w.typ, w.start, w.runtime, w.color)
		}
	}
}

var offSlot = slotWant{typ: TimerOff, start: "--:--"}

func TestPlanSceneFade(t *testing.T) {
	bank, err := PlanScene(SceneProgram{
		Scene:   Scene{Kind: SceneFade},
		Runtime: 30,
		Color:   Color{Red: 255, Blue: 80},
	}, TimeOfDay{Hour: 10, Minute: 0})
	if err != nil {
		t.Fatalf("PlanScene() error = %v", err)
	}

	checkBank(t, bank, [TimerSlots]slotWant{
		offSlot, offSlot, offSlot,
		{TimerWakeup, "10:01", 30, Color{Red: 255, Blue: 80}},
	})
	if bank.Timers[3].Scene.Kind != SceneFade {
		t.Errorf("slot 4 scene = %s, want fade", bank.Timers[3].Scene)
	}
	if bank.Timers[0].Scene.Kind != SceneNone {
		t.Errorf("cleared slot tagged with scene %s", bank.Timers[0].Scene)
	}
}

func TestPlanSceneFadeRejectsLongRuntime(t *testing.T) {
	_, err := PlanScene(SceneProgram{Scene: Scene{Kind: SceneFade}, Runtime: 256}, TimeOfDay{Hour: 10})
	if err == nil {
		t.Error("PlanScene() accepted fade runtime 256")
	}
}

func TestPlanSceneAmbient(t *testing.T) {
	tests := []struct {
		name    string
		start   TimeOfDay
		runtime int
		dozeAt  string
	}{
		{"one hour", TimeOfDay{Hour: 20}, 60, "20:59"},
		{"cut at midnight", TimeOfDay{Hour: 23, Minute: 30}, 60, "23:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, err := PlanScene(SceneProgram{Scene: Scene{Kind: SceneAmbient}, Start: tt.start, Runtime: tt.runtime}, UnsetTime)
			if err != nil {
				t.Fatalf("PlanScene() error = %v", err)
			}
			checkBank(t, bank, [TimerSlots]slotWant{
				offSlot, offSlot,
				{TimerWakeup, tt.start.String(), 1, Color{Red: 255, Green: 47}},
				{TimerDoze, tt.dozeAt, 1, Color{}},
			})
		})
	}
}

func TestPlanSceneWakeup(t *testing.T) {
	bank, err := PlanScene(SceneProgram{Scene: Scene{Kind: SceneWakeup}, Start: TimeOfDay{Hour: 6}, Runtime: 60}, UnsetTime)
	if err != nil {
		t.Fatalf("PlanScene() error = %v", err)
	}

	checkBank(t, bank, [TimerSlots]slotWant{
		{TimerWakeup, "06:00", 16, Color{Blue: 20}},
		{TimerWakeup, "06:16", 8, Color{Green: 60, Blue: 255}},
		{TimerWakeup, "06:24", 1, Color{White: 255}},
		{TimerDoze, "07:00", 1, Color{}},
	})
}

func TestPlanSceneDoze(t *testing.T) {
	bank, err := PlanScene(SceneProgram{Scene: Scene{Kind: SceneDoze}, Start: TimeOfDay{Hour: 22}, Runtime: 90}, UnsetTime)
	if err != nil {
		t.Fatalf("PlanScene() error = %v", err)
	}

	checkBank(t, bank, [TimerSlots]slotWant{
		offSlot, offSlot,
		{TimerWakeup, "22:00", 60, Color{Red: 255, Green: 47}},
		{TimerDoze, "23:00", 30, Color{}},
	})
}

func TestPlanSceneDozeClampsSlotRuntime(t *testing.T) {
	bank, err := PlanScene(SceneProgram{Scene: Scene{Kind: SceneDoze}, Start: TimeOfDay{Hour: 1}, Runtime: 600}, UnsetTime)
	if err != nil {
		t.Fatalf("PlanScene() error = %v", err)
	}
	if bank.Timers[2].Runtime != MaxTimerRuntime {
		t.Errorf("slot 3 runtime = %d, want %d", bank.Timers[2].Runtime, MaxTimerRuntime)
	}
	if got := bank.Timers[3].Start.String(); got != "07:40" {
		t.Errorf("slot 4 start = %s, want 07:40", got)
	}
}

func TestPlanSceneWheel(t *testing.T) {
	bank, err := PlanScene(SceneProgram{
		Scene:      Scene{Kind: SceneWheel, Order: "GRB"},
		Start:      TimeOfDay{Hour: 18},
		Runtime:    120,
		Brightness: 128,
	}, UnsetTime)
	if err != nil {
		t.Fatalf("PlanScene() error = %v", err)
	}

	checkBank(t, bank, [TimerSlots]slotWant{
		{TimerWakeup, "19:00", 30, Color{Blue: 128}},
		{TimerWakeup, "18:00", 30, Color{Green: 128}},
		{TimerWakeup, "18:30", 30, Color{Red: 128}},
		{TimerDoze, "19:30", 30, Color{}},
	})
	if got := bank.Timers[0].Scene.String(); got != "wheel(grb)" {
		t.Errorf("scene = %s, want wheel(grb)", got)
	}
}

func TestPlanSceneErrors(t *testing.T) {
	tests := []struct {
		name    string
		program SceneProgram
	}{
		{"wheel bad order", SceneProgram{Scene: Scene{Kind: SceneWheel, Order: "rgb"}, Start: TimeOfDay{Hour: 1}, Runtime: 10}},
		{"ambient without start", SceneProgram{Scene: Scene{Kind: SceneAmbient}, Start: UnsetTime, Runtime: 10}},
		{"negative runtime", SceneProgram{Scene: Scene{Kind: SceneDoze}, Start: TimeOfDay{Hour: 1}, Runtime: -1}},
		{"plain timer", SceneProgram{Scene: Scene{Kind: SceneNone}, Start: TimeOfDay{Hour: 1}, Runtime: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlanScene(tt.program, TimeOfDay{Hour: 12}); err == nil {
				t.Errorf("PlanScene(%+v) returned no error", tt.program)
			}
		})
	}
}

func TestCutRuntimeToDay(t *testing.T) {
	tests := []struct {
		start   TimeOfDay
		runtime int
		want    int
	}{
		{TimeOfDay{Hour: 22}, 60, 60},
		{TimeOfDay{Hour: 23}, 60, 60},
		{TimeOfDay{Hour: 23, Minute: 1}, 60, 59},
		{TimeOfDay{Hour: 0}, 2000, 1440},
	}

	for _, tt := range tests {
		if got := CutRuntimeToDay(tt.start, tt.runtime); got != tt.want {
			t.Errorf("CutRuntimeToDay(%s, %d) = %d, want %d", tt.start, tt.runtime, got, tt.want)
		}
	}
}
