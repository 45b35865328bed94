package queue

import (
	"strings"

	"github.com/muurk/mipow/internal/protocol"
)

type definition struct {
	name  string
	group string
	usage string
	descr string

	// parse is nil for commands the CLI handles itself
	parse func(args []string) ([]Command, error)
}

// Help groups in display order
var groups = []string{
	"Basic commands",
	"Build-in effects",
	"Timer commands",
	"Scene commands",
	"Security commands",
	"Other commands",
	"Setup commands",
}

var definitions = []definition{
	{"status", "Basic commands", "--status", "just read and print the basic information of the bulb",
		noArgs(Status{}, Output{Format: FormatStatus})},
	{"on", "Basic commands", "--on", "turn bulb on", noArgs(On{})},
	{"off", "Basic commands", "--off", "turn bulb off", noArgs(Off{})},
	{"toggle", "Basic commands", "--toggle", "turn off / on (remembers color!)", noArgs(Toggle{})},
	{"color", "Basic commands", "--color [<white> <red> <green> <blue>]",
		"set color\n- <color> each value 0 - 255\n- without parameters current color will be returned",
		parseColorArg},
	{"up", "Basic commands", "--up", "turn up light", noArgs(Up{})},
	{"down", "Basic commands", "--down", "dim light", noArgs(Down{})},

	{"effect", "Build-in effects", "--effect", "request current effect of bulb", noArgs(ReadEffect{})},
	{"pulse", "Build-in effects", "--pulse <white> <red> <green> <blue> <hold>",
		"run build-in pulse effect.\n- <color> values: 0=off, 1=on\n- <hold> per step in ms: 0 - 255",
		parsePulse},
	{"flash", "Build-in effects", "--flash <white> <red> <green> <blue> <time> [<repetitions> <pause>]",
		"run build-in flash effect.\n- color values: 0 - 255\n- <time> in 1/100s: 0 - 255\n- <repetitions> (optional) before pause: 0 - 255\n- <pause> (optional) in 1/10s: 0 - 255",
		parseFlash},
	{"rainbow", "Build-in effects", "--rainbow <hold>", "run build-in rainbow effect.\n- <hold> per step in ms: 0 - 255",
		parseHoldOnly(func(h uint8) Command { return Rainbow{Hold: h} })},
	{"candle", "Build-in effects", "--candle <white> <red> <green> <blue>", "run build-in candle effect.\n- color values: 0 - 255",
		parseCandle},
	{"disco", "Build-in effects", "--disco <hold>", "run build-in disco effect.\n- <hold> in 1/100s: 0 - 255",
		parseHoldOnly(func(h uint8) Command { return Disco{Hold: h} })},
	{"hold", "Build-in effects", "--hold <hold> [<repetitions> <pause>]",
		"change hold value of current effect.\n- <repetitions> (optional) before pause: 0 - 255\n- <pause> (optional) in 1/10s: 0 - 255",
		parseHold},
	{"halt", "Build-in effects", "--halt", "halt build-in effect, keeps color", noArgs(Halt{})},

	{"timer", "Timer commands", "--timer [<n:1-4> <start> <minutes> [<white> <red> <green> <blue>]|[<n:1-4>] off]",
		"schedules timer\n- <timer>: No. of timer 1 - 4\n- <start>: starting time (hh:mm or in minutes)\n- <minutes>: runtime in minutes\n- (optional) color values: 0 - 255\n- [<timer>] off: deactivates single or all timers\n- <timer>: (optional) No. of timer 1 - 4\n- without parameters: request current timer settings",
		parseTimer},

	{"fade", "Scene commands", "--fade <minutes> <white> <red> <green> <blue>",
		"change color smoothly\n- <minutes>: runtime in minutes (max. 255)\n- color values: 0 - 255",
		parseFade},
	{"ambient", "Scene commands", "--ambient <minutes> [<start>]",
		"schedules ambient program\n- <minutes>: runtime in minutes, best in steps of 15m\n- <start>: (optional) starting time (hh:mm or in minutes)",
		parseProgram(protocol.SceneAmbient)},
	{"wakeup", "Scene commands", "--wakeup <minutes> [<start>]",
		"schedules wake-up program\n- <minutes>: runtime in minutes, best in steps of 15m\n- <start>: (optional) starting time (hh:mm or in minutes)",
		parseProgram(protocol.SceneWakeup)},
	{"doze", "Scene commands", "--doze <minutes> [<start>]",
		"schedules doze program\n- <minutes>: runtime in minutes, best in steps of 15m\n- <start>: (optional) starting time (hh:mm or in minutes)",
		parseProgram(protocol.SceneDoze)},
	{"wheel", "Scene commands", "--wheel <bgr|grb|rbg> <minutes> [<start>] [<brightness>]",
		"schedules a program running through color wheel\n- <minutes>: runtime in minutes (best in steps of 4m, up to 1020m)\n- <start>: (optional) starting time (hh:mm or in minutes)\n- <brightness>: 0 - 255 (default: 255)",
		parseWheel},

	{"security", "Security commands", "--security [<start> <stop> <min> <max> [<white> <red> <green> <blue>]|off]",
		"schedules security mode\n- <start>: starting time (hh:mm or in minutes)\n- <stop>: ending time (hh:mm or in minutes)\n- <min>: min. runtime in minutes\n- <max>: max. runtime in minutes\n- (optional) color values: 0 - 255\n- off: deactivates security mode\n- without parameters: request current security mode",
		parseSecurity},

	{"help", "Other commands", "--help [<command>]", "prints help optionally for given command", nil},
	{"name", "Other commands", "--name <name>",
		"set the name of the bulb, max. 14 characters\n- without parameters current name will be returned",
		parseName},
	{"pin", "Other commands", "--pin <1234>",
		"set the pin for the bulb. Must be 4 digits\n- without parameters current pin will be returned",
		parsePIN},
	{"sleep", "Other commands", "--sleep <n>", "pause processing for n milliseconds", parseSleep},
	{"dump", "Other commands", "--dump", "request full state of bulb", noArgs(Dump{})},
	{"print", "Other commands", "--print", "prints collected data of bulb", noArgs(Output{Format: FormatPrint})},
	{"json", "Other commands", "--json", "prints information in json format", noArgs(Output{Format: FormatJSON})},
	{"publish", "Other commands", "--publish", "publishes collected data as json to the configured MQTT broker",
		noArgs(Output{Format: FormatPublish})},
	{"verbose", "Other commands", "--verbose", "print information about processing", nil},
	{"log", "Other commands", "--log <DEBUG|INFO|WARN|ERROR>", "set loglevel", nil},
	{"reset", "Other commands", "--reset", "perform factory reset", noArgs(Reset{})},

	{"scan", "Setup commands", "--scan", "scan for Mipow bulbs", nil},
	{"aliases", "Setup commands", "--aliases", "print known aliases from config file and .known_bulbs file", nil},
}

func lookup(name string) (definition, bool) {
	for _, d := range definitions {
		if d.name == name {
			return d, true
		}
	}
	return definition{}, false
}

// usageColumn is where descriptions start.
const usageColumn = 32

// Usage returns the usage line and description of one command, or "" for
// an unknown command.
func Usage(name string) string {
	d, ok := lookup(strings.TrimPrefix(name, "--"))
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(d.usage)
	lines := strings.Split(d.descr, "\n")
	for i, line := range lines {
		if i == 0 && len(d.usage) < usageColumn {
			b.WriteString(strings.Repeat(" ", usageColumn-len(d.usage)))
		} else {
			b.WriteString("\n ")
			b.WriteString(strings.Repeat(" ", usageColumn))
		}
		b.WriteString(line)
	}
	return b.String()
}

const helpHeader = `Mipow Bulb bluetooth command line interface for Linux / Raspberry Pi

USAGE:   mipow <mac_1/alias_1> [<mac_2/alias_2>] ... --<command_1> [<param_1> <param_2> ... --<command_2> ...]
         <mac_N>   : bluetooth mac address of bulb
         <alias_N> : alias or part of an alias from the config file or ~/.known_bulbs
         <command> : a list of commands and parameters
`

// Help returns the full command reference.
func Help() string {
	var b strings.Builder
	b.WriteString(helpHeader)
	for _, g := range groups {
		b.WriteString("\n")
		b.WriteString(g)
		b.WriteString(":")
		for _, d := range definitions {
			if d.group == g {
				b.WriteString("\n")
				b.WriteString(Usage(d.name))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CommandHelp returns the header and the usage of one command. It falls
// back to the full reference for an unknown name.
func CommandHelp(name string) string {
	u := Usage(name)
	if u == "" {
		return Help()
	}
	return helpHeader + "\n" + u + "\n"
}
