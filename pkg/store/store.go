package store

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
)

// ErrNoChange can be returned by an Update closure to signal that the
// snapshot was not mutated. Update then skips persisting and reports
// success. The sweeper uses this for write-avoidance.
var ErrNoChange = errors.New("store: no change")

// StorageError is an I/O failure on the persistence medium. It is logged
// and surfaced synchronously; nothing retries it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store holds the authoritative in-memory snapshot. Every access runs under
// a single mutex, so each View/Update is atomic with respect to every other
// caller; mutations are persisted in full through the medium before the
// lock is released.
type Store struct {
	mu       sync.Mutex
	snapshot *models.Snapshot
	medium   Medium
}

// New loads the snapshot from the medium. A load failure is logged and
// replaced with an empty snapshot; it never fails the caller.
func New(medium Medium) *Store {
	logger := common.GetLoggerWith(common.LoggerNameStore)

	snapshot, err := medium.Load()
	if err != nil {
		logger.Error("Error reading snapshot, starting empty",
			zap.String("medium", medium.Name()), zap.Error(err))
		snapshot = models.NewSnapshot()
	}

	logger.Info("Snapshot store ready",
		zap.String("medium", medium.Name()),
		zap.Int("devices", len(snapshot.Devices)),
		zap.Int("sensorData", len(snapshot.SensorData)),
		zap.Int("pendingCommands", len(snapshot.PendingCommands)))

	return &Store{snapshot: snapshot, medium: medium}
}

// View runs fn while holding the lock. fn must copy out anything
// it wants to keep; the pointer is only valid during the call.
func (s *Store) View(fn func(snap *models.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snapshot)
}

// Update runs fn under the lock and persists the whole snapshot afterwards.
// fn returning ErrNoChange skips the persist; any other error aborts it.
// A medium write failure is logged and returned as a *StorageError - the
// in-memory mutation stays applied (the caller already saw it), only
// durability is lost.
func (s *Store) Update(fn func(snap *models.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.snapshot); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}

	if err := s.medium.Save(s.snapshot); err != nil {
		serr := &StorageError{Op: "write", Err: err}
		common.GetLoggerWith(common.LoggerNameStore).Error(
			"Error writing snapshot", zap.String("medium", s.medium.Name()), zap.Error(err))
		return serr
	}
	return nil
}
