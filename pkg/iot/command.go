package iot

import (
	"strconv"
	"time"

	"go.uber.org/zap"
	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
	"iotlab.dev/esp32-telemetry-hub/pkg/store"
)

const DefaultSendInterval = 5000 // milliseconds

// newCommandID is a time-based token, monotonically increasing in practice.
// The raw nanosecond clock keeps back-to-back enqueues distinct.
func newCommandID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

func findCommand(snap *models.Snapshot, commandID string) *models.PendingCommand {
	for idx := range snap.PendingCommands {
		if snap.PendingCommands[idx].ID == commandID {
			return &snap.PendingCommands[idx]
		}
	}
	return nil
}

func (i *IOT) enqueueCommand(deviceID string, command models.Command) (*models.PendingCommand, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubCommand),
	)

	var pending models.PendingCommand
	err := i.Store.Update(func(snap *models.Snapshot) error {
		if findDevice(snap, deviceID) == nil {
			return ErrDeviceNotFound
		}

		now := common.NowUTC()
		pending = models.PendingCommand{
			ID:        newCommandID(),
			DeviceID:  deviceID,
			Command:   command,
			CreatedAt: now,
			Delivered: false,
		}
		snap.PendingCommands = append(snap.PendingCommands, pending)

		logger.Info("Enqueued command",
			zap.String("deviceId", deviceID), zap.String("commandId", pending.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

// listPending returns the undelivered commands for a device in insertion
// order. An unconfirmed command keeps showing up here indefinitely.
func (i *IOT) listPending(deviceID string) ([]models.PendingCommand, error) {
	result := []models.PendingCommand{}
	i.Store.View(func(snap *models.Snapshot) {
		for idx := range snap.PendingCommands {
			cmd := snap.PendingCommands[idx]
			if cmd.DeviceID == deviceID && !cmd.Delivered {
				result = append(result, cmd)
			}
		}
	})
	return result, nil
}

// confirmDelivered flips delivered false to true. Confirming an already
// delivered command is a no-op that keeps the original deliveredAt stamp.
func (i *IOT) confirmDelivered(commandID string) (*models.PendingCommand, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubCommand),
	)

	var confirmed models.PendingCommand
	err := i.Store.Update(func(snap *models.Snapshot) error {
		cmd := findCommand(snap, commandID)
		if cmd == nil {
			return ErrCommandNotFound
		}
		if cmd.Delivered {
			confirmed = *cmd
			return store.ErrNoChange
		}

		cmd.Delivered = true
		cmd.DeliveredAt = common.NowUTC()
		confirmed = *cmd

		logger.Info("Command confirmed",
			zap.String("commandId", commandID), zap.String("deviceId", cmd.DeviceID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &confirmed, nil
}

func (i *IOT) getDeviceConfig(deviceID string) (*models.DeviceConfig, error) {
	var result *models.DeviceConfig
	i.Store.View(func(snap *models.Snapshot) {
		device := findDevice(snap, deviceID)
		if device == nil {
			return
		}

		config := models.DeviceConfig{
			WifiSSID:     device.WifiSSID,
			WifiPassword: device.WifiPassword,
			SendInterval: device.SendInterval,
			DeviceID:     device.DeviceID,
			LastUpdated:  device.ConfigUpdatedAt,
		}
		if config.SendInterval == 0 {
			config.SendInterval = DefaultSendInterval
		}
		if config.LastUpdated.IsZero() {
			config.LastUpdated = device.RegisteredAt
		}
		result = &config
	})
	if result == nil {
		return nil, ErrDeviceNotFound
	}
	return result, nil
}

// applyConfigUpdate builds an update_config command from exactly the fields
// the caller provided, applies them to the device record right away (the
// known state runs ahead of the device confirming), enqueues the command
// and broadcasts the change. A device_id rekey takes effect immediately;
// the command is queued under the new id so delivery still works.
func (i *IOT) applyConfigUpdate(deviceID string, update *models.ConfigUpdate) (*models.PendingCommand, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubCommand),
	)

	var pending models.PendingCommand
	err := i.Store.Update(func(snap *models.Snapshot) error {
		device := findDevice(snap, deviceID)
		if device == nil {
			return ErrDeviceNotFound
		}

		params := map[string]any{}

		if update.WifiSSID != nil {
			params["wifi_ssid"] = *update.WifiSSID
			device.WifiSSID = *update.WifiSSID
		}
		if update.WifiPassword != nil {
			params["wifi_password"] = *update.WifiPassword
			device.WifiPassword = *update.WifiPassword
		}
		if update.SendInterval != nil {
			params["send_interval"] = *update.SendInterval
			device.SendInterval = *update.SendInterval
		}
		if update.DeviceID != nil && *update.DeviceID != deviceID {
			if findDevice(snap, *update.DeviceID) != nil {
				return ErrDeviceIDTaken
			}
			params["device_id"] = *update.DeviceID
			device.DeviceID = *update.DeviceID
			logger.Warn("Device rekeyed through config update, history stays under the old id",
				zap.String("from", deviceID), zap.String("to", *update.DeviceID))
		}

		now := common.NowUTC()
		device.ConfigUpdatedAt = now

		pending = models.PendingCommand{
			ID:       newCommandID(),
			DeviceID: device.DeviceID,
			Command: models.Command{
				Type:   models.CommandTypeUpdateConfig,
				Params: params,
			},
			CreatedAt: now,
			Delivered: false,
		}
		snap.PendingCommands = append(snap.PendingCommands, pending)

		logger.Info("Configuration update queued",
			zap.String("deviceId", device.DeviceID), zap.String("commandId", pending.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.broadcastGlobal(EventConfigUpdate, map[string]any{
		"deviceId": pending.DeviceID,
		"command":  pending,
	})

	return &pending, nil
}

type ICommandImpl struct {
	iot *IOT
}

func (ic *ICommandImpl) EnqueueCommand(deviceID string, command models.Command) (*models.PendingCommand, error) {
	return ic.iot.enqueueCommand(deviceID, command)
}

func (ic *ICommandImpl) ListPending(deviceID string) ([]models.PendingCommand, error) {
	return ic.iot.listPending(deviceID)
}

func (ic *ICommandImpl) ConfirmDelivered(commandID string) (*models.PendingCommand, error) {
	return ic.iot.confirmDelivered(commandID)
}

func (ic *ICommandImpl) GetDeviceConfig(deviceID string) (*models.DeviceConfig, error) {
	return ic.iot.getDeviceConfig(deviceID)
}

func (ic *ICommandImpl) ApplyConfigUpdate(deviceID string, update *models.ConfigUpdate) (*models.PendingCommand, error) {
	return ic.iot.applyConfigUpdate(deviceID, update)
}

func (i *IOT) GetICommand() ICommand {
	return &ICommandImpl{iot: i}
}
