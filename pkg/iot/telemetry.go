package iot

import (
	"fmt"

	"go.uber.org/zap"
	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
)

const (
	// MaxSensorDataRecords caps the sensor history globally, not per
	// device. Oldest records are dropped first.
	MaxSensorDataRecords = 1000

	DefaultSensorDataLimit = 100

	EventSensorData   = "sensor-data"
	EventConfigUpdate = "config-update"
)

// ingestSensorData is the hot path: auto-register, mark online, append the
// record, broadcast it, and piggyback any undelivered commands on the
// return value. Reading the commands here does not mark them delivered.
func (i *IOT) ingestSensorData(deviceID string, sensors []models.SensorReading, raw map[string]any) (*models.SensorDataRecord, []models.PendingCommand, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubTelemetry),
	)

	if i.Device == nil {
		return nil, nil, fmt.Errorf("device service not available")
	}
	if i.Command == nil {
		return nil, nil, fmt.Errorf("command service not available")
	}

	if _, err := i.Device.GetDevice(deviceID); err != nil {
		firmware, _ := raw["firmware"].(string)
		macAddress, _ := raw["macAddress"].(string)
		if firmware == "" {
			firmware = "unknown"
		}
		if macAddress == "" {
			macAddress = "unknown"
		}

		if _, err := i.Device.AddDevice(&models.Device{
			DeviceID:   deviceID,
			Name:       "Device " + deviceID,
			Firmware:   firmware,
			MacAddress: macAddress,
		}); err != nil {
			return nil, nil, err
		}
		logger.Info("New device registered", zap.String("deviceId", deviceID))
	}

	now := common.NowUTC()
	online := true
	if _, err := i.Device.UpdateDevice(deviceID, &models.DeviceUpdate{
		LastSeen: &now,
		IsOnline: &online,
	}); err != nil {
		return nil, nil, err
	}

	record := models.SensorDataRecord{
		DeviceID:   deviceID,
		Sensors:    sensors,
		Timestamp:  now,
		ReceivedAt: now,
		RawData:    raw,
	}

	err := i.Store.Update(func(snap *models.Snapshot) error {
		snap.SensorData = append(snap.SensorData, record)
		if overflow := len(snap.SensorData) - MaxSensorDataRecords; overflow > 0 {
			snap.SensorData = snap.SensorData[overflow:]
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Received sensor data",
		zap.String("deviceId", deviceID), zap.Int("sensors", len(sensors)))

	i.broadcastGlobal(EventSensorData, record)
	i.broadcastDevice(deviceID, EventSensorData, record)

	pending, err := i.Command.ListPending(deviceID)
	if err != nil {
		return nil, nil, err
	}

	return &record, pending, nil
}

// getSensorData returns the newest records, oldest first. An empty deviceID
// matches every device; limit <= 0 falls back to the default.
func (i *IOT) getSensorData(deviceID string, limit int) ([]models.SensorDataRecord, error) {
	if limit <= 0 {
		limit = DefaultSensorDataLimit
	}

	var result []models.SensorDataRecord
	i.Store.View(func(snap *models.Snapshot) {
		data := snap.SensorData
		if deviceID != "" {
			data = nil
			for idx := range snap.SensorData {
				if snap.SensorData[idx].DeviceID == deviceID {
					data = append(data, snap.SensorData[idx])
				}
			}
		}
		if len(data) > limit {
			data = data[len(data)-limit:]
		}
		result = make([]models.SensorDataRecord, len(data))
		copy(result, data)
	})
	return result, nil
}

type ITelemetryImpl struct {
	iot *IOT
}

func (it *ITelemetryImpl) IngestSensorData(deviceID string, sensors []models.SensorReading, raw map[string]any) (*models.SensorDataRecord, []models.PendingCommand, error) {
	return it.iot.ingestSensorData(deviceID, sensors, raw)
}

func (it *ITelemetryImpl) GetSensorData(deviceID string, limit int) ([]models.SensorDataRecord, error) {
	return it.iot.getSensorData(deviceID, limit)
}

func (i *IOT) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{iot: i}
}
