package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/protocol"
)

func TestParseSplitsTargetsAndCommands(t *testing.T) {
	inv, err := Parse([]string{"kitchen", "AC:E6", "--on", "--color", "1", "2", "3", "4", "--off"})
	require.NoError(t, err)

	assert.Equal(t, []string{"kitchen", "AC:E6"}, inv.Targets)
	assert.Equal(t, []Command{
		On{},
		SetColor{Color: protocol.Color{White: 1, Red: 2, Green: 3, Blue: 4}},
		Off{},
	}, inv.Commands)
}

func TestParseCollectsEveryProblem(t *testing.T) {
	_, err := Parse([]string{"kitchen", "--frobnicate", "--color", "300", "0", "0", "0", "--on", "--timer", "5", "off"})
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 3)
	assert.Equal(t, "frobnicate", verr.Problems[0].Command)
	assert.Equal(t, "color", verr.Problems[1].Command)
	assert.Equal(t, "timer", verr.Problems[2].Command)

	msg := err.Error()
	assert.Contains(t, msg, "--frobnicate: unknown command")
	assert.Contains(t, msg, "--timer [<n:1-4> <start> <minutes>", "usage is shown for known commands")
}

func TestParseEmptyQueues(t *testing.T) {
	_, err := Parse([]string{"kitchen"})
	assert.ErrorIs(t, err, ErrNoCommands)

	_, err = Parse([]string{"kitchen", "--log", "DEBUG"})
	assert.ErrorIs(t, err, ErrNoCommands)

	_, err = Parse([]string{"--on"})
	assert.ErrorIs(t, err, ErrNoTargets)
}

func TestParseTimerForms(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{"read", nil, ReadTimers{}},
		{"clear all", []string{"off"}, ClearTimers{Slot: bulb.AllSlots}},
		{"clear one", []string{"3", "off"}, ClearTimers{Slot: 2}},
		{"set at clock time", []string{"1", "06:30", "15"},
			SetTimer{Slot: 0, Type: protocol.TimerDoze, Start: bulb.At(protocol.TimeOfDay{Hour: 6, Minute: 30}), Runtime: 15, Color: protocol.ColorWhite}},
		{"set from now with color", []string{"4", "90", "255", "0", "10", "20", "30"},
			SetTimer{Slot: 3, Type: protocol.TimerDoze, Start: bulb.FromNow(90), Runtime: 255, Color: protocol.Color{Red: 10, Green: 20, Blue: 30}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, err := parseTimer(tt.args)
			require.NoError(t, err)
			assert.Equal(t, []Command{tt.want}, cmds)
		})
	}

	for _, bad := range [][]string{
		{"0", "off"},
		{"5", "10:00", "10"},
		{"1", "24:00", "10"},
		{"1", "1440", "10"},
		{"1", "10:00", "256"},
		{"1", "10:00"},
		{"1", "10:00", "10", "1", "2"},
	} {
		_, err := parseTimer(bad)
		assert.Error(t, err, "args %v", bad)
	}
}

func TestParseScenes(t *testing.T) {
	_, err := Parse([]string{"x", "--doze", "1:30", "soon"})
	require.Error(t, err, "start must be hh:mm or minutes")

	_, err = Parse([]string{"x", "--wakeup", "24:00"})
	require.Error(t, err, "wakeup runtime stops at 23:59")

	_, err = Parse([]string{"x", "--wheel", "rgb", "60"})
	require.Error(t, err)

	inv, err := Parse([]string{"x", "--wheel", "GRB", "2:00", "22:30", "128", "--ambient", "30", "--fade", "20", "0", "255", "0", "0", "--wheel", "rbg", "24:00"})
	require.NoError(t, err)
	require.Len(t, inv.Commands, 4)

	assert.Equal(t, Scene{Request: bulb.SceneRequest{
		Scene:      protocol.Scene{Kind: protocol.SceneWheel, Order: protocol.WheelGRB},
		Start:      bulb.At(protocol.TimeOfDay{Hour: 22, Minute: 30}),
		Runtime:    120,
		Brightness: 128,
	}}, inv.Commands[0])
	assert.Equal(t, Scene{Request: bulb.SceneRequest{
		Scene:   protocol.Scene{Kind: protocol.SceneAmbient},
		Runtime: 30,
	}}, inv.Commands[1])
	assert.Equal(t, Scene{Request: bulb.SceneRequest{
		Scene:   protocol.Scene{Kind: protocol.SceneFade},
		Runtime: 20,
		Color:   protocol.Color{Red: 255},
	}}, inv.Commands[2])
	assert.Equal(t, Scene{Request: bulb.SceneRequest{
		Scene:      protocol.Scene{Kind: protocol.SceneWheel, Order: protocol.WheelRBG},
		Runtime:    protocol.MinutesPerDay,
		Brightness: 255,
	}}, inv.Commands[3])
	assert.Equal(t, "wheel", inv.Commands[0].Name())
}

func TestParseSceneRuntimeLimits(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"--ambient", "1439"}, false},
		{[]string{"--ambient", "1440"}, true},
		{[]string{"--wakeup", "1440"}, true},
		{[]string{"--doze", "23:59"}, false},
		{[]string{"--wheel", "bgr", "1440"}, false},
		{[]string{"--wheel", "bgr", "1441"}, true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := Parse(append([]string{"x"}, tt.args...))
			assert.Equal(t, tt.wantErr, err != nil, "error = %v", err)
		})
	}
}

func TestParseSecurity(t *testing.T) {
	cmds, err := parseSecurity([]string{"18:00", "23:30", "5", "20"})
	require.NoError(t, err)
	assert.Equal(t, []Command{SetSecurity{Request: bulb.SecurityRequest{
		Start:       bulb.At(protocol.TimeOfDay{Hour: 18}),
		End:         bulb.At(protocol.TimeOfDay{Hour: 23, Minute: 30}),
		MinInterval: 5,
		MaxInterval: 20,
		Color:       protocol.ColorWhite,
	}}}, cmds)

	cmds, err = parseSecurity([]string{"off"})
	require.NoError(t, err)
	assert.Equal(t, []Command{ClearSecurity{}}, cmds)

	_, err = parseSecurity([]string{"18:00", "23:30", "30", "20"})
	assert.Error(t, err, "min above max")
	_, err = parseSecurity([]string{"18:00", "23:30", "5"})
	assert.Error(t, err)
}

func TestParseStatusAndOutputs(t *testing.T) {
	inv, err := Parse([]string{"x", "--status"})
	require.NoError(t, err)
	assert.Equal(t, []Command{Status{}, Output{Format: FormatStatus}}, inv.Commands)

	inv, err = Parse([]string{"x", "--color", "--json"})
	require.NoError(t, err)
	assert.Equal(t, []Command{ReadColor{}, Output{Format: FormatJSON}}, inv.Commands)

	inv, err = Parse([]string{"x", "--dump"})
	require.NoError(t, err)
	assert.Equal(t, []Command{Dump{}, Output{Format: FormatPrint}}, inv.Commands, "reads get an implicit print")

	inv, err = Parse([]string{"x", "--on", "--sleep", "250", "--off"})
	require.NoError(t, err)
	assert.Equal(t, []Command{On{}, Sleep{Duration: 250 * time.Millisecond}, Off{}}, inv.Commands)
}

func TestParseNameAndPIN(t *testing.T) {
	inv, err := Parse([]string{"x", "--name", "a_very_long_name_19", "--pin", "0815", "--name", "--pin"})
	require.NoError(t, err)
	assert.Equal(t, SetName{Value: "a_very_long_na"}, inv.Commands[0])
	assert.Equal(t, SetPIN{PIN: "0815"}, inv.Commands[1])
	assert.Equal(t, ReadName{}, inv.Commands[2])
	assert.Equal(t, ReadPIN{}, inv.Commands[3])

	_, err = Parse([]string{"x", "--name", "two words?"})
	assert.Error(t, err)
	_, err = Parse([]string{"x", "--pin", "12345"})
	assert.Error(t, err)
}

func TestParseEffects(t *testing.T) {
	inv, err := Parse([]string{"x",
		"--pulse", "1", "0", "1", "0", "20",
		"--flash", "0", "255", "0", "0", "10",
		"--flash", "0", "255", "0", "0", "10", "3", "20",
		"--rainbow", "5", "--disco", "6", "--candle", "0", "200", "80", "0",
		"--hold", "12", "--hold", "12", "2", "30", "--halt",
	})
	require.NoError(t, err)
	assert.Equal(t, []Command{
		Pulse{Channels: protocol.Color{White: 1, Green: 1}, Hold: 20},
		Flash{Color: protocol.Color{Red: 255}, Time: 10},
		Flash{Color: protocol.Color{Red: 255}, Time: 10, Repetitions: 3, Pause: 20},
		Rainbow{Hold: 5},
		Disco{Hold: 6},
		Candle{Color: protocol.Color{Red: 200, Green: 80}},
		Hold{Delay: 12},
		Hold{Delay: 12, Repetitions: 2, Pause: 30},
		Halt{},
	}, inv.Commands)

	_, err = Parse([]string{"x", "--pulse", "2", "0", "0", "0", "20"})
	assert.Error(t, err, "pulse channels are 0 or 1")
	_, err = Parse([]string{"x", "--flash", "0", "255", "0", "0", "10", "3"})
	assert.Error(t, err)
}

func TestParseLogAndHelp(t *testing.T) {
	inv, err := Parse([]string{"x", "--on", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, "INFO", inv.LogLevel)

	inv, err = Parse([]string{"x", "--log", "DEBUG", "--verbose", "--on"})
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", inv.LogLevel)

	_, err = Parse([]string{"x", "--log", "TRACE", "--on"})
	assert.Error(t, err)

	inv, err = Parse([]string{"--help", "timer"})
	require.NoError(t, err)
	assert.True(t, inv.Help)
	assert.Equal(t, "timer", inv.HelpTopic)

	inv, err = Parse([]string{"-h"})
	require.NoError(t, err)
	assert.True(t, inv.Help)

	_, err = Parse([]string{"x", "--on", "--scan"})
	assert.Error(t, err)
}

func TestUsageAlignsDescriptions(t *testing.T) {
	u := Usage("on")
	assert.True(t, strings.HasPrefix(u, " --on "))
	assert.Equal(t, 1+usageColumn, strings.Index(u, "turn bulb on"))

	lines := strings.Split(Usage("timer"), "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, " --timer [<n:1-4> <start> <minutes> [<white> <red> <green> <blue>]|[<n:1-4>] off]", lines[0],
		"a long usage puts the description on the next line")
	assert.Equal(t, " "+strings.Repeat(" ", usageColumn)+"schedules timer", lines[1])

	assert.Empty(t, Usage("nope"))
}

func TestHelpListsEveryCommand(t *testing.T) {
	h := Help()
	for _, g := range groups {
		assert.Contains(t, h, g+":")
	}
	for _, d := range definitions {
		assert.Contains(t, h, d.usage)
	}
	assert.Contains(t, CommandHelp("wheel"), "--wheel <bgr|grb|rbg>")
	assert.Equal(t, Help(), CommandHelp("nope"))
}
