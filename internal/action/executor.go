package action

import (
	"log/slog"
	"os/exec"

	"github.com/Iron-Ham/tapd/internal/event"
)

// Executor listens for recognized gestures on the bus and spawns their
// resolved shell actions. Commands run detached through `sh -c`; the
// executor does not wait for them beyond reaping the process.
type Executor struct {
	bus    *event.Bus
	logger *slog.Logger

	// run spawns one shell action. Swapped out in tests.
	run func(action string) error
}

// NewExecutor creates an executor publishing and subscribing on bus.
func NewExecutor(bus *event.Bus, logger *slog.Logger) *Executor {
	e := &Executor{
		bus:    bus,
		logger: logger,
	}
	e.run = spawn
	return e
}

// Attach subscribes the executor to gesture events. It returns the
// subscription ID so a caller can detach it again.
func (e *Executor) Attach() string {
	return e.bus.Subscribe("gesture.recognized", e.handle)
}

func (e *Executor) handle(ev event.Event) {
	ge, ok := ev.(event.GestureRecognizedEvent)
	if !ok || ge.Action == "" {
		return
	}

	e.bus.Publish(event.NewActionStartedEvent(ge.Device, ge.Gesture, ge.Action))

	if err := e.run(ge.Action); err != nil {
		e.logger.Error("failed to execute action",
			"device", ge.Device,
			"gesture", ge.Gesture.String(),
			"action", ge.Action,
			"error", err)
		return
	}
	e.logger.Info("gesture action dispatched",
		"device", ge.Device,
		"gesture", ge.Gesture.String(),
		"action", ge.Action)
}

// spawn starts `sh -c action` without waiting for it to finish. A
// goroutine reaps the child so it does not linger as a zombie.
func spawn(action string) error {
	cmd := exec.Command("sh", "-c", action)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
