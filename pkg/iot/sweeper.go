package iot

import (
	"context"
	"time"

	"go.uber.org/zap"
	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
	"iotlab.dev/esp32-telemetry-hub/pkg/store"
)

const (
	// OnlineWindow: a device is online iff now-lastSeen is inside it.
	OnlineWindow = 60 * time.Second

	SweepInterval = 30 * time.Second
)

// Sweeper recomputes every device's online flag on a fixed period. Ingest
// already forces devices online, so only the going-offline transition
// depends on the sweep.
type Sweeper struct {
	iot      *IOT
	interval time.Duration
	window   time.Duration
	stop     context.CancelFunc
	done     chan struct{}
}

func NewSweeper(iot *IOT) *Sweeper {
	return &Sweeper{
		iot:      iot,
		interval: SweepInterval,
		window:   OnlineWindow,
	}
}

// Start runs the sweep loop in a goroutine until Stop is called or ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.done = make(chan struct{})

	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubSweeper),
	)
	logger.Info("Liveness sweeper started",
		zap.Duration("interval", s.interval), zap.Duration("onlineWindow", s.window))

	go func() {
		defer close(s.done)
		defer cancel()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce(time.Now())
			}
		}
	}()

	s.stop = cancel
}

// Stop cancels the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	if s.stop == nil {
		return
	}
	s.stop()
	<-s.done
}

// SweepOnce recomputes the online flag for every device and persists only
// when at least one flag flipped. Returns the number of transitions.
func (s *Sweeper) SweepOnce(now time.Time) int {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubSweeper),
	)

	changed := 0
	err := s.iot.Store.Update(func(snap *models.Snapshot) error {
		for idx := range snap.Devices {
			device := &snap.Devices[idx]
			online := now.Sub(device.LastSeen) < s.window
			if device.IsOnline != online {
				device.IsOnline = online
				changed++
				logger.Info("Device liveness changed",
					zap.String("deviceId", device.DeviceID), zap.Bool("isOnline", online))
			}
		}
		if changed == 0 {
			return store.ErrNoChange
		}
		return nil
	})
	if err != nil {
		logger.Error("Sweep failed to persist", zap.Error(err))
	}
	return changed
}
