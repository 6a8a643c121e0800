package iot

import (
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
	"iotlab.dev/esp32-telemetry-hub/pkg/store"
)

type IDevice interface {
	AddDevice(input *models.Device) (*models.Device, error)
	GetDevice(deviceID string) (*models.Device, error)
	GetDevices() ([]models.Device, error)
	UpdateDevice(deviceID string, updates *models.DeviceUpdate) (*models.Device, error)
	DeleteDevice(deviceID string) error
}

type ITelemetry interface {
	IngestSensorData(deviceID string, sensors []models.SensorReading, raw map[string]any) (*models.SensorDataRecord, []models.PendingCommand, error)
	GetSensorData(deviceID string, limit int) ([]models.SensorDataRecord, error)
}

type ICommand interface {
	EnqueueCommand(deviceID string, command models.Command) (*models.PendingCommand, error)
	ListPending(deviceID string) ([]models.PendingCommand, error)
	ConfirmDelivered(commandID string) (*models.PendingCommand, error)
	GetDeviceConfig(deviceID string) (*models.DeviceConfig, error)
	ApplyConfigUpdate(deviceID string, update *models.ConfigUpdate) (*models.PendingCommand, error)
}

// Broadcaster is the push channel to dashboard clients. Implementations
// must never block the caller; delivery is best-effort.
type Broadcaster interface {
	BroadcastGlobal(event string, payload any)
	BroadcastDevice(deviceID string, event string, payload any)
}

type IOT struct {
	Store     *store.Store
	Broadcast Broadcaster

	Device    IDevice
	Telemetry ITelemetry
	Command   ICommand
}

type ServiceOpts struct {
	Device    IDevice
	Telemetry ITelemetry
	Command   ICommand
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Device != nil {
		i.Device = opts.Device
	}
	if opts.Telemetry != nil {
		i.Telemetry = opts.Telemetry
	}
	if opts.Command != nil {
		i.Command = opts.Command
	}
	return i
}

func (i *IOT) broadcastGlobal(event string, payload any) {
	if i.Broadcast != nil {
		i.Broadcast.BroadcastGlobal(event, payload)
	}
}

func (i *IOT) broadcastDevice(deviceID string, event string, payload any) {
	if i.Broadcast != nil {
		i.Broadcast.BroadcastDevice(deviceID, event, payload)
	}
}
