package plugins

import (
	"context"
	"fmt"
	"time"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/script"
)

// ShooterTitle is the title of the repeat shooter script
const ShooterTitle = "Repeat shooter"

// SettleDelay is waited between back-to-back shots when the interval is
// zero; some cameras report busy if triggered immediately again.
const SettleDelay = 200 * time.Millisecond

// shooter captures a fixed number of frames with a pause between them
type shooter struct {
	config *ShooterConfig
	view   *ShooterView
}

// shooterData is the countdown for one run
type shooterData struct {
	remaining int
	interval  time.Duration
}

func (d *shooterData) shoot() {
	d.remaining--
}

func (d *shooterData) finished() bool {
	return d.remaining <= 0
}

// NewShooter creates the repeat shooter script
func NewShooter(config *ShooterConfig) *script.Simple {
	return script.NewSimple(ShooterTitle, &shooter{
		config: config,
		view:   NewShooterView(config),
	})
}

func (s *shooter) ConfigView() any {
	return s.view
}

// InitTaskData snapshots the config so edits during a run do not affect it
func (s *shooter) InitTaskData() any {
	return &shooterData{
		remaining: s.config.ShotCount(),
		interval:  s.config.Interval(),
	}
}

func (s *shooter) Execute(ctx context.Context, a automata.Automata, t *script.Task) error {
	if a == nil {
		return fmt.Errorf("no camera automata")
	}
	data, ok := t.Data().(*shooterData)
	if !ok {
		return fmt.Errorf("unexpected task data %T", t.Data())
	}

	go s.run(ctx, a, t, data)
	return nil
}

func (s *shooter) run(ctx context.Context, a automata.Automata, t *script.Task, data *shooterData) {
	for {
		if t.ReturnErrorIfCancelled() {
			return
		}

		if err := a.Capture(ctx); err != nil {
			t.ReturnError(err)
			return
		}

		if t.ReturnErrorIfCancelled() {
			return
		}

		data.shoot()
		if data.finished() {
			t.ReturnSuccess()
			return
		}

		wait := data.interval
		if wait <= 0 {
			wait = SettleDelay
		} else {
			logging.WaitFor(fmt.Sprintf("%v, %d shots left", wait, data.remaining))
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			t.ReturnErrorIfCancelled()
			return
		case <-timer.C:
		}
	}
}
