package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/logging"
)

// MaxDevices is the number of bulbs one invocation may address. The
// adapter cannot hold more connections at once.
const MaxDevices = 8

// Sleeper pauses one device stream.
type Sleeper func(ctx context.Context, d time.Duration) error

// Snapshot is the report of one bulb as it was when an Output command ran.
type Snapshot struct {
	Format Format
	Report bulb.DeviceReport
}

// Result is everything one bulb produced.
type Result struct {
	Address identity.Address
	Report  *bulb.DeviceReport

	// Outputs holds one snapshot per Output command, in queue order.
	Outputs []Snapshot
}

// Engine replays a command queue on every addressed bulb.
type Engine struct {
	Transport ble.Transport
	Policy    ble.RetryPolicy

	// Parallel is the number of bulbs driven at the same time. Zero or
	// less runs them one after another.
	Parallel int

	// Aliases are copied into each report.
	Aliases map[identity.Address][]string

	// Clock and Sleep default to the host clock and a timer.
	Clock bulb.Clock
	Sleep Sleeper
}

// TooManyDevicesError is returned when more than MaxDevices bulbs are
// addressed.
type TooManyDevicesError struct {
	Requested int
}

func (e *TooManyDevicesError) Error() string {
	return fmt.Sprintf("too many simultaneous connections requested, i.e. max. %d but requested %d", MaxDevices, e.Requested)
}

// Run connects to each address, replays cmds in order and disconnects.
// Results come back in address order. A failing command is recorded in the
// report of its bulb and the queue goes on; a broken connection skips the
// remaining bulb commands of that bulb only. The returned error is set
// only when nothing could be started.
func (e *Engine) Run(ctx context.Context, addrs []identity.Address, cmds []Command) ([]*Result, error) {
	if len(addrs) == 0 {
		return nil, errors.New("mac address or alias unknown")
	}
	if len(addrs) > MaxDevices {
		return nil, &TooManyDevicesError{Requested: len(addrs)}
	}
	if len(cmds) == 0 {
		return nil, ErrNoCommands
	}

	results := make([]*Result, len(addrs))
	var g errgroup.Group
	g.SetLimit(max(1, min(e.Parallel, MaxDevices)))
	for i, addr := range addrs {
		g.Go(func() error {
			results[i] = e.runDevice(ctx, addr, cmds)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (e *Engine) clock() bulb.Clock {
	if e.Clock != nil {
		return e.Clock
	}
	return time.Now
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) runDevice(ctx context.Context, addr identity.Address, cmds []Command) *Result {
	log := logging.Device(addr.String())
	res := &Result{Address: addr}

	conn, err := ble.Dial(ctx, e.Transport, addr, e.Policy)
	if err != nil {
		log.Error("Connection failed", zap.Error(err))
		report := bulb.NewReport(addr)
		report.Aliases = e.Aliases[addr]
		report.AddFailure("connect", err)
		report.Aborted = true
		res.Report = report
		for _, c := range cmds {
			if o, ok := c.(Output); ok {
				res.Outputs = append(res.Outputs, Snapshot{Format: o.Format, Report: report.Snapshot()})
			}
		}
		return res
	}

	s := bulb.New(conn, bulb.WithClock(e.clock()), bulb.WithAliases(e.Aliases[addr]))
	report := s.Report()
	res.Report = report
	defer func() {
		if err := s.Close(); err != nil {
			log.Debug("Disconnect failed", zap.Error(err))
		}
	}()

	for _, c := range cmds {
		if o, ok := c.(Output); ok {
			res.Outputs = append(res.Outputs, Snapshot{Format: o.Format, Report: report.Snapshot()})
			continue
		}
		if report.Aborted {
			log.Debug("Skipping command", zap.String("command", Describe(c)))
			continue
		}

		log.Info("Running command", zap.String("command", Describe(c)))
		err := e.execute(ctx, s, c)
		switch {
		case err == nil:
		case IsRead(c) && errors.Is(err, bulb.ErrUnavailable):
			log.Debug("Read unavailable", zap.String("command", c.Name()), zap.Error(err))
		default:
			log.Warn("Command failed", zap.String("command", c.Name()), zap.Error(err))
			report.AddFailure(c.Name(), err)
			if bulb.IsTransportFailure(err) {
				log.Error("Connection lost, skipping remaining commands", zap.Error(err))
				report.Aborted = true
			}
		}
	}
	return res
}

func (e *Engine) execute(ctx context.Context, s *bulb.Session, c Command) error {
	switch c := c.(type) {
	case On:
		return s.TurnOn(ctx)
	case Off:
		return s.TurnOff(ctx)
	case Toggle:
		return s.Toggle(ctx)
	case Up:
		return s.ScaleBrightness(ctx, bulb.BrightnessUp)
	case Down:
		return s.ScaleBrightness(ctx, bulb.BrightnessDown)
	case ReadColor:
		_, err := s.Color(ctx)
		return err
	case SetColor:
		return s.SetColor(ctx, c.Color)
	case ReadEffect:
		_, err := s.Effect(ctx)
		return err
	case Pulse:
		return s.SetPulse(ctx, c.Channels, c.Hold)
	case Flash:
		return s.SetFlash(ctx, c.Color, c.Time, c.Repetitions, c.Pause)
	case Rainbow:
		return s.SetRainbow(ctx, c.Hold)
	case Candle:
		return s.SetCandle(ctx, c.Color)
	case Disco:
		return s.SetDisco(ctx, c.Hold)
	case Hold:
		return s.SetHold(ctx, c.Delay, c.Repetitions, c.Pause)
	case Halt:
		return s.Halt(ctx)
	case ReadTimers:
		_, err := s.Timers(ctx)
		return err
	case ClearTimers:
		return s.ClearTimer(ctx, c.Slot)
	case SetTimer:
		return s.SetTimer(ctx, c.Slot, c.Type, c.Start, c.Runtime, c.Color)
	case Scene:
		return s.SetScene(ctx, c.Request)
	case ReadSecurity:
		_, err := s.Security(ctx)
		return err
	case SetSecurity:
		return s.SetSecurity(ctx, c.Request)
	case ClearSecurity:
		return s.ClearSecurity(ctx)
	case ReadName:
		_, err := s.Name(ctx)
		return err
	case SetName:
		return s.SetName(ctx, c.Value)
	case ReadPIN:
		_, err := s.PIN(ctx)
		return err
	case SetPIN:
		return s.SetPIN(ctx, c.PIN)
	case Dump:
		return s.FullState(ctx)
	case Status:
		return s.Status(ctx)
	case Reset:
		return s.FactoryReset(ctx)
	case Sleep:
		return e.sleep(ctx, c.Duration)
	default:
		return fmt.Errorf("unsupported command %s", c.Name())
	}
}
