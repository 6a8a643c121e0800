package iot

import "errors"

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrCommandNotFound = errors.New("command not found")

	// ErrDeviceIDTaken is returned by a rekey that would collide with an
	// existing device. DeviceID stays unique at every instant.
	ErrDeviceIDTaken = errors.New("deviceId already in use")
)
