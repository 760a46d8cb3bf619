// Package manager runs one worker goroutine per configured touch
// device: it matches the device, feeds its event stream through a
// gesture recognizer, and publishes recognized gestures on the event
// bus. Workers survive device disconnects by retrying the match, and a
// hotplug signal shortens the retry wait.
package manager

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Iron-Ham/tapd/internal/action"
	"github.com/Iron-Ham/tapd/internal/config"
	"github.com/Iron-Ham/tapd/internal/device"
	"github.com/Iron-Ham/tapd/internal/event"
	"github.com/Iron-Ham/tapd/internal/gesture"
	"github.com/Iron-Ham/tapd/internal/touch"
)

const (
	maxReconnectAttempts = 10
	reconnectInterval    = 5 * time.Second
)

// Session is an attached device: its identity, axis calibration, and
// event stream.
type Session struct {
	Path   string
	Name   string
	XRange gesture.AxisRange
	YRange gesture.AxisRange
	Source device.Source
}

// Finder locates the device for a config section. It returns (nil, nil)
// when no matching device is currently attached.
type Finder func(cfg config.DeviceConfig) (*Session, error)

// Manager owns the device workers.
type Manager struct {
	cfg    *config.Config
	bus    *event.Bus
	logger *slog.Logger
	find   Finder

	retryInterval time.Duration

	mu   sync.Mutex
	subs []chan struct{}
}

// New creates a manager for the configured devices.
func New(cfg *config.Config, bus *event.Bus, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:           cfg,
		bus:           bus,
		logger:        logger,
		retryInterval: reconnectInterval,
	}
	m.find = func(dc config.DeviceConfig) (*Session, error) {
		dev, err := device.Find(dc, logger)
		if err != nil || dev == nil {
			return nil, err
		}
		return &Session{
			Path:   dev.Path,
			Name:   dev.Name,
			XRange: dev.XRange,
			YRange: dev.YRange,
			Source: dev,
		}, nil
	}
	return m
}

// Notify wakes every worker currently waiting for a device to appear.
// The daemon calls it from the hotplug watcher.
func (m *Manager) Notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (m *Manager) subscribeHotplug() chan struct{} {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Run starts a worker per configured device and blocks until all of
// them finish. It returns an error when nothing is configured.
func (m *Manager) Run(ctx context.Context) error {
	if len(m.cfg.Devices) == 0 {
		return errors.New("no devices configured")
	}

	m.logger.Info("starting gesture manager", "devices", len(m.cfg.Devices))

	var wg sync.WaitGroup
	for _, dc := range m.cfg.Devices {
		wg.Add(1)
		go func(dc config.DeviceConfig) {
			defer wg.Done()
			m.runWorker(ctx, dc)
		}(dc)
	}
	wg.Wait()
	return nil
}

// runWorker drives one configured device for the daemon's lifetime:
// wait for the hardware, read until it goes away, reconnect, repeat.
// The recognizer is created from the first session's calibration and
// deliberately survives reconnects, matching the per-device session
// semantics of the recognizer itself.
func (m *Manager) runWorker(ctx context.Context, dc config.DeviceConfig) {
	logger := m.logger.With("device", dc.Name)
	hotplug := m.subscribeHotplug()

	sess := m.waitForDevice(ctx, dc, hotplug, logger)
	if sess == nil {
		return
	}

	recognizer := gesture.NewRecognizer(dc.Thresholds, sess.XRange, sess.YRange)

	for {
		logger.Info("processing device",
			"path", sess.Path,
			"name", sess.Name,
			"x_range", [2]float64{sess.XRange.Min, sess.XRange.Max},
			"y_range", [2]float64{sess.YRange.Min, sess.YRange.Max})
		m.bus.Publish(event.NewDeviceConnectedEvent(dc.Name, sess.Path, sess.Name))

		// Closing the source from a watchdog unblocks the read loop
		// when the daemon shuts down.
		stop := context.AfterFunc(ctx, func() {
			sess.Source.Close()
		})
		m.readLoop(ctx, dc, sess, recognizer, logger)
		stop()
		sess.Source.Close()

		if ctx.Err() != nil {
			m.bus.Publish(event.NewDeviceDisconnectedEvent(dc.Name, sess.Path, "shutdown"))
			return
		}
		m.bus.Publish(event.NewDeviceDisconnectedEvent(dc.Name, sess.Path, "read error"))

		sess = m.reconnect(ctx, dc, hotplug, logger)
		if sess == nil {
			return
		}
	}
}

// waitForDevice blocks until the configured device is attached. Unlike
// the bounded reconnect after a disconnect, the initial wait is
// unbounded: a device that is plugged in hours after boot still gets
// picked up.
func (m *Manager) waitForDevice(ctx context.Context, dc config.DeviceConfig, hotplug <-chan struct{}, logger *slog.Logger) *Session {
	for first := true; ; first = false {
		sess, err := m.find(dc)
		if err != nil {
			logger.Error("device lookup failed", "error", err)
			return nil
		}
		if sess != nil {
			return sess
		}
		if first {
			logger.Warn("device not found, waiting for it to appear")
		}
		if !m.wait(ctx, hotplug) {
			return nil
		}
	}
}

// reconnect retries the device match after a disconnect, bounded to
// maxReconnectAttempts.
func (m *Manager) reconnect(ctx context.Context, dc config.DeviceConfig, hotplug <-chan struct{}, logger *slog.Logger) *Session {
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		logger.Info("reconnect attempt", "attempt", attempt, "max", maxReconnectAttempts)
		if !m.wait(ctx, hotplug) {
			return nil
		}
		sess, err := m.find(dc)
		if err != nil {
			logger.Error("device lookup failed", "error", err)
			return nil
		}
		if sess != nil {
			logger.Info("reconnected", "path", sess.Path)
			return sess
		}
	}
	logger.Error("giving up on device", "attempts", maxReconnectAttempts)
	return nil
}

// wait sleeps one retry interval, returning early on a hotplug signal.
// It reports false when the context was cancelled.
func (m *Manager) wait(ctx context.Context, hotplug <-chan struct{}) bool {
	timer := time.NewTimer(m.retryInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-hotplug:
		return true
	case <-timer.C:
		return true
	}
}

// readLoop pumps raw batches from the device through the recognizer
// and publishes every gesture that fires, until a read fails.
func (m *Manager) readLoop(ctx context.Context, dc config.DeviceConfig, sess *Session, r *gesture.Recognizer, logger *slog.Logger) {
	for {
		events, err := sess.Source.Read()
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("device disconnected", "error", err)
			}
			return
		}

		for _, raw := range events {
			te, ok := touch.Classify(raw)
			if !ok {
				continue
			}
			for _, g := range touch.Process(r, []touch.Event{te}) {
				cmd, _ := action.Resolve(g, dc.Gestures)
				logger.Info("gesture recognized", "gesture", g.String())
				m.bus.Publish(event.NewGestureRecognizedEvent(dc.Name, sess.Path, g, cmd))
			}
		}
	}
}
