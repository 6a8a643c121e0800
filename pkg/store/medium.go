package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
)

// Medium is the durable holder of the snapshot document.
type Medium interface {
	Name() string
	Load() (*models.Snapshot, error)
	Save(snap *models.Snapshot) error
}

type fileMedium struct {
	path string
}

// UseFileMedium persists the snapshot as a single pretty-printed JSON
// document at path. The parent directory is created on first use.
func UseFileMedium(path string) Medium {
	return &fileMedium{path: path}
}

func (m *fileMedium) Name() string {
	return "file:" + m.path
}

func (m *fileMedium) Load() (*models.Snapshot, error) {
	if err := os.MkdirAll(filepath.Dir(m.path), os.ModePerm); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		// first use, seed the document so the file exists for operators
		snap := models.NewSnapshot()
		return snap, m.Save(snap)
	}
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Devices == nil {
		snap.Devices = []models.Device{}
	}
	if snap.SensorData == nil {
		snap.SensorData = []models.SensorDataRecord{}
	}
	if snap.PendingCommands == nil {
		snap.PendingCommands = []models.PendingCommand{}
	}
	return &snap, nil
}

func (m *fileMedium) Save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

type memoryMedium struct{}

// UseMemoryMedium is a no-op persistence medium for tests.
func UseMemoryMedium() Medium {
	return memoryMedium{}
}

func (memoryMedium) Name() string {
	return "memory"
}

func (memoryMedium) Load() (*models.Snapshot, error) {
	return models.NewSnapshot(), nil
}

func (memoryMedium) Save(_ *models.Snapshot) error {
	return nil
}

// DefaultFilePath resolves the snapshot location from the environment,
// falling back to a data/ directory next to the working directory.
func DefaultFilePath() string {
	if p, found := os.LookupEnv(common.EnvKeyHubStorePath); found {
		return p
	}
	return "data/telemetry.json"
}
