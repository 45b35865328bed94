package queue

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/protocol"
)

var (
	// ErrNoTargets is returned when no address or alias precedes the commands.
	ErrNoTargets = errors.New("no bulb address or alias given")

	// ErrNoCommands is returned when addresses are given without commands.
	ErrNoCommands = errors.New("no commands given. Use --help in order to get help")
)

// Log levels accepted by --log
var logLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

var nameRe = regexp.MustCompile(`^[0-9A-Za-z_+-]{1,19}$`)

// maxNameLength is what the bulb stores; longer names are cut.
const maxNameLength = 14

// Invocation is a parsed command line.
type Invocation struct {
	// Targets are the address and alias tokens in the order given.
	Targets  []string
	Commands []Command

	// LogLevel is set by --log or --verbose.
	LogLevel string

	// Help is set by --help; HelpTopic names the command asked about.
	Help      bool
	HelpTopic string
}

// Problem is one rejected command.
type Problem struct {
	Command string
	Err     error
}

// ValidationError lists every problem found in a command line. Nothing is
// sent to any bulb when parsing fails.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) add(command string, err error) {
	e.Problems = append(e.Problems, Problem{Command: command, Err: err})
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	for i, p := range e.Problems {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--%s: %v", p.Command, p.Err)
		if u := Usage(p.Command); u != "" {
			b.WriteString("\n")
			b.WriteString(u)
		}
	}
	return b.String()
}

// IsValidationError reports whether err came from Parse.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type group struct {
	name string
	args []string
}

func isCommandToken(s string) bool {
	return s == "-h" || (strings.HasPrefix(s, "--") && len(s) > 2)
}

// split cuts the command part of the line into --name groups.
func split(args []string) []group {
	var groups []group
	for _, a := range args {
		if isCommandToken(a) {
			name := strings.TrimPrefix(a, "--")
			if a == "-h" {
				name = "help"
			}
			groups = append(groups, group{name: name})
			continue
		}
		groups[len(groups)-1].args = append(groups[len(groups)-1].args, a)
	}
	return groups
}

// Parse reads "<mac|alias>... --cmd [params] --cmd ..." into an invocation.
// Every command is checked before returning, so a ValidationError names all
// problems at once.
func Parse(args []string) (*Invocation, error) {
	inv := &Invocation{}

	i := 0
	for ; i < len(args) && !isCommandToken(args[i]); i++ {
		inv.Targets = append(inv.Targets, args[i])
	}

	verr := &ValidationError{}
	verbose := false
	for _, g := range split(args[i:]) {
		switch g.name {
		case "help":
			inv.Help = true
			if len(g.args) > 1 {
				verr.add(g.name, arity(0, 1, len(g.args)))
			} else if len(g.args) == 1 {
				inv.HelpTopic = strings.TrimPrefix(g.args[0], "--")
			}
			continue
		case "log":
			if len(g.args) != 1 || !isLogLevel(g.args[0]) {
				verr.add(g.name, fmt.Errorf("want one of %s", strings.Join(logLevels, "|")))
				continue
			}
			inv.LogLevel = g.args[0]
			continue
		case "verbose":
			if len(g.args) != 0 {
				verr.add(g.name, arity(0, 0, len(g.args)))
			}
			verbose = true
			continue
		case "scan", "aliases":
			verr.add(g.name, errors.New("must be used on its own"))
			continue
		}

		def, ok := lookup(g.name)
		if !ok || def.parse == nil {
			verr.add(g.name, errors.New("unknown command"))
			continue
		}
		cmds, err := def.parse(g.args)
		if err != nil {
			verr.add(g.name, err)
			continue
		}
		inv.Commands = append(inv.Commands, cmds...)
	}
	if verbose && inv.LogLevel == "" {
		inv.LogLevel = "INFO"
	}

	if len(verr.Problems) > 0 {
		return inv, verr
	}
	if inv.Help {
		return inv, nil
	}
	if len(inv.Targets) == 0 {
		return inv, ErrNoTargets
	}
	if len(inv.Commands) == 0 {
		return inv, ErrNoCommands
	}
	inv.Commands = WithImplicitOutput(inv.Commands)
	return inv, nil
}

// WithImplicitOutput appends a print when the queue reads something but
// never asks for output, so reads are not silently discarded.
func WithImplicitOutput(cmds []Command) []Command {
	reads := false
	for _, c := range cmds {
		if _, ok := c.(Output); ok {
			return cmds
		}
		if IsRead(c) {
			reads = true
		}
	}
	if !reads {
		return cmds
	}
	return append(cmds, Output{Format: FormatPrint})
}

func isLogLevel(s string) bool {
	for _, l := range logLevels {
		if s == l {
			return true
		}
	}
	return false
}

func arity(min, max, got int) error {
	switch {
	case min == max && min == 0:
		return fmt.Errorf("takes no parameters, got %d", got)
	case min == max:
		return fmt.Errorf("want %d parameters, got %d", min, got)
	default:
		return fmt.Errorf("want %d to %d parameters, got %d", min, max, got)
	}
}

func noArgs(cmds ...Command) func([]string) ([]Command, error) {
	return func(args []string) ([]Command, error) {
		if len(args) != 0 {
			return nil, arity(0, 0, len(args))
		}
		return cmds, nil
	}
}

func parseInt(field, s string, min, max int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", field, s)
	}
	if v < min || v > max {
		return 0, &protocol.RangeError{Field: field, Value: v, Min: min, Max: max}
	}
	return v, nil
}

func parseByte(field, s string) (uint8, error) {
	v, err := parseInt(field, s, 0, 255)
	return uint8(v), err
}

func parseColor(args []string) (protocol.Color, error) {
	names := [4]string{"white", "red", "green", "blue"}
	var ch [4]uint8
	for i := range ch {
		v, err := parseByte(names[i], args[i])
		if err != nil {
			return protocol.Color{}, err
		}
		ch[i] = v
	}
	return protocol.Color{White: ch[0], Red: ch[1], Green: ch[2], Blue: ch[3]}, nil
}

// parseStart accepts "hh:mm" or minutes from now, 0-1439.
func parseStart(field, s string) (bulb.StartTime, error) {
	if strings.Contains(s, ":") {
		t, err := protocol.ParseTimeOfDay(s)
		if err != nil {
			return bulb.StartTime{}, fmt.Errorf("%s: %w", field, err)
		}
		return bulb.At(t), nil
	}
	m, err := parseInt(field, s, 0, protocol.MinutesPerDay-1)
	if err != nil {
		return bulb.StartTime{}, err
	}
	return bulb.FromNow(m), nil
}

// parseRuntime accepts minutes or "hh:mm", up to max minutes.
func parseRuntime(field, s string, max int) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return parseInt(field, s, 0, max)
	}
	h, err := parseInt(field+" hours", hh, 0, 24)
	if err != nil {
		return 0, err
	}
	if len(mm) != 2 {
		return 0, fmt.Errorf("%s: invalid minutes in %q", field, s)
	}
	m, err := parseInt(field+" minutes", mm, 0, 59)
	if err != nil {
		return 0, err
	}
	return parseInt(field, strconv.Itoa(h*60+m), 0, max)
}

func parseColorArg(args []string) ([]Command, error) {
	switch len(args) {
	case 0:
		return []Command{ReadColor{}}, nil
	case 4:
		c, err := parseColor(args)
		if err != nil {
			return nil, err
		}
		return []Command{SetColor{Color: c}}, nil
	}
	return nil, fmt.Errorf("want 0 or 4 parameters, got %d", len(args))
}

func parsePulse(args []string) ([]Command, error) {
	if len(args) != 5 {
		return nil, arity(5, 5, len(args))
	}
	names := [4]string{"white", "red", "green", "blue"}
	var ch [4]uint8
	for i := range ch {
		v, err := parseInt(names[i], args[i], 0, 1)
		if err != nil {
			return nil, err
		}
		ch[i] = uint8(v)
	}
	hold, err := parseByte("hold", args[4])
	if err != nil {
		return nil, err
	}
	return []Command{Pulse{
		Channels: protocol.Color{White: ch[0], Red: ch[1], Green: ch[2], Blue: ch[3]},
		Hold:     hold,
	}}, nil
}

func parseFlash(args []string) ([]Command, error) {
	if len(args) != 5 && len(args) != 7 {
		return nil, fmt.Errorf("want 5 or 7 parameters, got %d", len(args))
	}
	c, err := parseColor(args)
	if err != nil {
		return nil, err
	}
	cmd := Flash{Color: c}
	if cmd.Time, err = parseByte("time", args[4]); err != nil {
		return nil, err
	}
	if len(args) == 7 {
		if cmd.Repetitions, err = parseByte("repetitions", args[5]); err != nil {
			return nil, err
		}
		if cmd.Pause, err = parseByte("pause", args[6]); err != nil {
			return nil, err
		}
	}
	return []Command{cmd}, nil
}

func parseHoldOnly(mk func(uint8) Command) func([]string) ([]Command, error) {
	return func(args []string) ([]Command, error) {
		if len(args) != 1 {
			return nil, arity(1, 1, len(args))
		}
		hold, err := parseByte("hold", args[0])
		if err != nil {
			return nil, err
		}
		return []Command{mk(hold)}, nil
	}
}

func parseCandle(args []string) ([]Command, error) {
	if len(args) != 4 {
		return nil, arity(4, 4, len(args))
	}
	c, err := parseColor(args)
	if err != nil {
		return nil, err
	}
	return []Command{Candle{Color: c}}, nil
}

func parseHold(args []string) ([]Command, error) {
	if len(args) != 1 && len(args) != 3 {
		return nil, fmt.Errorf("want 1 or 3 parameters, got %d", len(args))
	}
	var cmd Hold
	var err error
	if cmd.Delay, err = parseByte("hold", args[0]); err != nil {
		return nil, err
	}
	if len(args) == 3 {
		if cmd.Repetitions, err = parseByte("repetitions", args[1]); err != nil {
			return nil, err
		}
		if cmd.Pause, err = parseByte("pause", args[2]); err != nil {
			return nil, err
		}
	}
	return []Command{cmd}, nil
}

func parseTimer(args []string) ([]Command, error) {
	switch {
	case len(args) == 0:
		return []Command{ReadTimers{}}, nil
	case len(args) == 1 && args[0] == "off":
		return []Command{ClearTimers{Slot: bulb.AllSlots}}, nil
	case len(args) == 2 && args[1] == "off":
		n, err := parseInt("timer", args[0], 1, protocol.TimerSlots)
		if err != nil {
			return nil, err
		}
		return []Command{ClearTimers{Slot: n - 1}}, nil
	case len(args) == 3 || len(args) == 7:
		n, err := parseInt("timer", args[0], 1, protocol.TimerSlots)
		if err != nil {
			return nil, err
		}
		start, err := parseStart("start", args[1])
		if err != nil {
			return nil, err
		}
		runtime, err := parseInt("minutes", args[2], 0, protocol.MaxTimerRuntime)
		if err != nil {
			return nil, err
		}
		c := protocol.ColorWhite
		if len(args) == 7 {
			if c, err = parseColor(args[3:]); err != nil {
				return nil, err
			}
		}
		return []Command{SetTimer{Slot: n - 1, Type: protocol.TimerDoze, Start: start, Runtime: runtime, Color: c}}, nil
	}
	return nil, fmt.Errorf("want 0, 1, 2, 3 or 7 parameters, got %d", len(args))
}

func parseFade(args []string) ([]Command, error) {
	if len(args) != 5 {
		return nil, arity(5, 5, len(args))
	}
	runtime, err := parseInt("minutes", args[0], 0, protocol.MaxTimerRuntime)
	if err != nil {
		return nil, err
	}
	c, err := parseColor(args[1:])
	if err != nil {
		return nil, err
	}
	return []Command{Scene{Request: bulb.SceneRequest{
		Scene:   protocol.Scene{Kind: protocol.SceneFade},
		Runtime: runtime,
		Color:   c,
	}}}, nil
}

func parseProgram(kind protocol.SceneKind) func([]string) ([]Command, error) {
	return func(args []string) ([]Command, error) {
		if len(args) != 1 && len(args) != 2 {
			return nil, arity(1, 2, len(args))
		}
		runtime, err := parseRuntime("minutes", args[0], protocol.MinutesPerDay-1)
		if err != nil {
			return nil, err
		}
		req := bulb.SceneRequest{Scene: protocol.Scene{Kind: kind}, Runtime: runtime}
		if len(args) == 2 {
			if req.Start, err = parseStart("start", args[1]); err != nil {
				return nil, err
			}
		}
		return []Command{Scene{Request: req}}, nil
	}
}

func parseWheel(args []string) ([]Command, error) {
	if len(args) < 2 || len(args) > 4 {
		return nil, arity(2, 4, len(args))
	}
	order, err := protocol.ParseWheelOrder(args[0])
	if err != nil {
		return nil, err
	}
	// A wheel may run the whole day, 24:00 or 1440; the other programs
	// stop at 23:59.
	runtime, err := parseRuntime("minutes", args[1], protocol.MinutesPerDay)
	if err != nil {
		return nil, err
	}
	req := bulb.SceneRequest{
		Scene:      protocol.Scene{Kind: protocol.SceneWheel, Order: order},
		Runtime:    runtime,
		Brightness: 255,
	}
	if len(args) > 2 {
		if req.Start, err = parseStart("start", args[2]); err != nil {
			return nil, err
		}
	}
	if len(args) > 3 {
		if req.Brightness, err = parseByte("brightness", args[3]); err != nil {
			return nil, err
		}
	}
	return []Command{Scene{Request: req}}, nil
}

func parseSecurity(args []string) ([]Command, error) {
	switch {
	case len(args) == 0:
		return []Command{ReadSecurity{}}, nil
	case len(args) == 1 && args[0] == "off":
		return []Command{ClearSecurity{}}, nil
	case len(args) == 4 || len(args) == 8:
		var req bulb.SecurityRequest
		var err error
		if req.Start, err = parseStart("start", args[0]); err != nil {
			return nil, err
		}
		if req.End, err = parseStart("stop", args[1]); err != nil {
			return nil, err
		}
		if req.MinInterval, err = parseByte("min", args[2]); err != nil {
			return nil, err
		}
		if req.MaxInterval, err = parseByte("max", args[3]); err != nil {
			return nil, err
		}
		if req.MinInterval > req.MaxInterval {
			return nil, fmt.Errorf("min %d is greater than max %d", req.MinInterval, req.MaxInterval)
		}
		req.Color = protocol.ColorWhite
		if len(args) == 8 {
			if req.Color, err = parseColor(args[4:]); err != nil {
				return nil, err
			}
		}
		return []Command{SetSecurity{Request: req}}, nil
	}
	return nil, fmt.Errorf("want 0, 1, 4 or 8 parameters, got %d", len(args))
}

func parseName(args []string) ([]Command, error) {
	switch len(args) {
	case 0:
		return []Command{ReadName{}}, nil
	case 1:
		if !nameRe.MatchString(args[0]) {
			return nil, fmt.Errorf("invalid name %q: use 0-9, A-Z, a-z, _, + and -", args[0])
		}
		name := args[0]
		if len(name) > maxNameLength {
			name = name[:maxNameLength]
		}
		return []Command{SetName{Value: name}}, nil
	}
	return nil, arity(0, 1, len(args))
}

func parsePIN(args []string) ([]Command, error) {
	switch len(args) {
	case 0:
		return []Command{ReadPIN{}}, nil
	case 1:
		if err := protocol.ValidatePIN(args[0]); err != nil {
			return nil, err
		}
		return []Command{SetPIN{PIN: args[0]}}, nil
	}
	return nil, arity(0, 1, len(args))
}

func parseSleep(args []string) ([]Command, error) {
	if len(args) != 1 {
		return nil, arity(1, 1, len(args))
	}
	ms, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("milliseconds: %q is not a number", args[0])
	}
	return []Command{Sleep{Duration: time.Duration(ms) * time.Millisecond}}, nil
}
