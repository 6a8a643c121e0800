package iot

import (
	"go.uber.org/zap"
	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
	"iotlab.dev/esp32-telemetry-hub/pkg/store"
)

func findDevice(snap *models.Snapshot, deviceID string) *models.Device {
	for idx := range snap.Devices {
		if snap.Devices[idx].DeviceID == deviceID {
			return &snap.Devices[idx]
		}
	}
	return nil
}

// addDevice is idempotent registration: an existing deviceId is returned
// untouched, otherwise the record is inserted offline with
// registeredAt = lastSeen = now.
func (i *IOT) addDevice(input *models.Device) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubDevice),
	)

	var result models.Device
	err := i.Store.Update(func(snap *models.Snapshot) error {
		if existing := findDevice(snap, input.DeviceID); existing != nil {
			result = *existing
			return store.ErrNoChange
		}

		now := common.NowUTC()
		device := *input
		device.RegisteredAt = now
		device.LastSeen = now
		device.IsOnline = false

		snap.Devices = append(snap.Devices, device)
		result = device

		logger.Info("Registered device", zap.Reflect("device", device))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (i *IOT) getDevice(deviceID string) (*models.Device, error) {
	var result *models.Device
	i.Store.View(func(snap *models.Snapshot) {
		if device := findDevice(snap, deviceID); device != nil {
			copied := *device
			result = &copied
		}
	})
	if result == nil {
		return nil, ErrDeviceNotFound
	}
	return result, nil
}

func (i *IOT) getDevices() ([]models.Device, error) {
	var result []models.Device
	i.Store.View(func(snap *models.Snapshot) {
		result = make([]models.Device, len(snap.Devices))
		copy(result, snap.Devices)
	})
	return result, nil
}

// updateDevice merges the non-nil fields onto the record. A deviceId rekey
// is allowed but may not collide with another device; the rekey does not
// cascade to sensor data or pending commands.
func (i *IOT) updateDevice(deviceID string, updates *models.DeviceUpdate) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubDevice),
	)

	var result models.Device
	err := i.Store.Update(func(snap *models.Snapshot) error {
		device := findDevice(snap, deviceID)
		if device == nil {
			return ErrDeviceNotFound
		}

		if updates.DeviceID != nil && *updates.DeviceID != deviceID {
			if findDevice(snap, *updates.DeviceID) != nil {
				return ErrDeviceIDTaken
			}
			logger.Warn("Device rekeyed, history stays under the old id",
				zap.String("from", deviceID), zap.String("to", *updates.DeviceID))
		}

		updates.Apply(device)
		result = *device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// deleteDevice removes the device record only; its sensor history and
// queued commands are left orphaned.
func (i *IOT) deleteDevice(deviceID string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubDevice),
	)

	return i.Store.Update(func(snap *models.Snapshot) error {
		for idx := range snap.Devices {
			if snap.Devices[idx].DeviceID == deviceID {
				snap.Devices = append(snap.Devices[:idx], snap.Devices[idx+1:]...)
				logger.Info("Deleted device", zap.String("deviceId", deviceID))
				return nil
			}
		}
		return ErrDeviceNotFound
	})
}

type IDeviceImpl struct {
	iot *IOT
}

func (id *IDeviceImpl) AddDevice(input *models.Device) (*models.Device, error) {
	return id.iot.addDevice(input)
}

func (id *IDeviceImpl) GetDevice(deviceID string) (*models.Device, error) {
	return id.iot.getDevice(deviceID)
}

func (id *IDeviceImpl) GetDevices() ([]models.Device, error) {
	return id.iot.getDevices()
}

func (id *IDeviceImpl) UpdateDevice(deviceID string, updates *models.DeviceUpdate) (*models.Device, error) {
	return id.iot.updateDevice(deviceID, updates)
}

func (id *IDeviceImpl) DeleteDevice(deviceID string) error {
	return id.iot.deleteDevice(deviceID)
}

func (i *IOT) GetIDevice() IDevice {
	return &IDeviceImpl{iot: i}
}
