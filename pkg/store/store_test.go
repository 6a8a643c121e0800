package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
	_ "iotlab.dev/esp32-telemetry-hub/pkg/testing"
)

// countingMedium wraps the memory medium and counts persists.
type countingMedium struct {
	saves int
}

func (m *countingMedium) Name() string { return "counting" }

func (m *countingMedium) Load() (*models.Snapshot, error) {
	return models.NewSnapshot(), nil
}

func (m *countingMedium) Save(_ *models.Snapshot) error {
	m.saves++
	return nil
}

func TestFileMediumRoundTrip(t *testing.T) {
	common.SetTestLoggerNop()

	path := filepath.Join(t.TempDir(), "telemetry.json")
	s := New(UseFileMedium(path))

	// first use seeds an empty document on disk
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("expected snapshot file to be created at %s", path)
	}

	deviceID := uuid.NewString()
	err := s.Update(func(snap *models.Snapshot) error {
		snap.Devices = append(snap.Devices, models.Device{
			DeviceID: deviceID,
			Name:     "Device " + deviceID,
		})
		return nil
	})
	require.NoError(t, err)

	// a fresh store over the same file sees the device
	reloaded := New(UseFileMedium(path))
	found := false
	reloaded.View(func(snap *models.Snapshot) {
		for _, d := range snap.Devices {
			if d.DeviceID == deviceID {
				found = true
			}
		}
	})
	assert.True(t, found, "device should survive a reload")
}

func TestFileMediumCorruptFile(t *testing.T) {
	common.SetTestLoggerNop()

	path := filepath.Join(t.TempDir(), "telemetry.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := New(UseFileMedium(path))

	// unreadable document falls back to an empty snapshot, never an error
	s.View(func(snap *models.Snapshot) {
		assert.Empty(t, snap.Devices)
		assert.Empty(t, snap.SensorData)
		assert.Empty(t, snap.PendingCommands)
	})
}

func TestFileMediumNullCollections(t *testing.T) {
	common.SetTestLoggerNop()

	path := filepath.Join(t.TempDir(), "telemetry.json")
	doc, _ := json.Marshal(map[string]any{"devices": nil, "sensorData": nil, "pendingCommands": nil})
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	s := New(UseFileMedium(path))
	s.View(func(snap *models.Snapshot) {
		assert.NotNil(t, snap.Devices)
		assert.NotNil(t, snap.SensorData)
		assert.NotNil(t, snap.PendingCommands)
	})
}

func TestUpdateNoChangeSkipsPersist(t *testing.T) {
	common.SetTestLoggerNop()

	medium := &countingMedium{}
	s := New(medium)

	err := s.Update(func(snap *models.Snapshot) error {
		return ErrNoChange
	})
	require.NoError(t, err)
	assert.Equal(t, 0, medium.saves)

	err = s.Update(func(snap *models.Snapshot) error {
		snap.Devices = append(snap.Devices, models.Device{DeviceID: uuid.NewString()})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, medium.saves)
}

func TestUpdateConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	s := New(UseMemoryMedium())

	const goroutineCount = 50
	var wg sync.WaitGroup
	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(func(snap *models.Snapshot) error {
				snap.Devices = append(snap.Devices, models.Device{DeviceID: uuid.NewString()})
				return nil
			})
		}()
	}
	wg.Wait()

	// no lost updates: every goroutine's insert survived
	s.View(func(snap *models.Snapshot) {
		assert.Len(t, snap.Devices, goroutineCount)
	})
}
