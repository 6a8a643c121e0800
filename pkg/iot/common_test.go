package iot

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"iotlab.dev/esp32-telemetry-hub/pkg/iot/mocks"
	"iotlab.dev/esp32-telemetry-hub/pkg/store"
)

func GetMockIOTWithMemoryStore(t *testing.T, useMockDevice, useMockTelemetry, useMockCommand bool) (
	*gomock.Controller,
	*IOT,
	*mocks.MockIDevice,
	*mocks.MockITelemetry,
	*mocks.MockICommand,
) {
	ctrl := gomock.NewController(t)

	mockIDevice := mocks.NewMockIDevice(ctrl)
	mockITelemetry := mocks.NewMockITelemetry(ctrl)
	mockICommand := mocks.NewMockICommand(ctrl)

	iotInstance := &IOT{Store: store.New(store.UseMemoryMedium())}

	deviceService := iotInstance.GetIDevice()
	if useMockDevice {
		deviceService = mockIDevice
	}

	telemetryService := iotInstance.GetITelemetry()
	if useMockTelemetry {
		telemetryService = mockITelemetry
	}

	commandService := iotInstance.GetICommand()
	if useMockCommand {
		commandService = mockICommand
	}

	iotInstance.WithServices(ServiceOpts{
		Device:    deviceService,
		Telemetry: telemetryService,
		Command:   commandService,
	})

	return ctrl, iotInstance, mockIDevice, mockITelemetry, mockICommand
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
