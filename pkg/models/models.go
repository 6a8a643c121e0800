package models

import "time"

const CommandTypeUpdateConfig string = "update_config"

// Device is a registered telemetry endpoint. DeviceID is the lookup key for
// every other collection; renaming it does not cascade.
type Device struct {
	DeviceID        string    `json:"deviceId"`
	Name            string    `json:"name"`
	Firmware        string    `json:"firmware"`
	MacAddress      string    `json:"macAddress"`
	WifiSSID        string    `json:"wifi_ssid,omitempty"`
	WifiPassword    string    `json:"wifi_password,omitempty"`
	SendInterval    int       `json:"send_interval,omitempty"`
	RegisteredAt    time.Time `json:"registeredAt"`
	LastSeen        time.Time `json:"lastSeen"`
	IsOnline        bool      `json:"isOnline"`
	ConfigUpdatedAt time.Time `json:"configUpdatedAt,omitzero"`
}

// DeviceUpdate is a shallow field merge; nil fields are left untouched.
type DeviceUpdate struct {
	DeviceID     *string    `json:"deviceId,omitempty"`
	Name         *string    `json:"name,omitempty"`
	Firmware     *string    `json:"firmware,omitempty"`
	MacAddress   *string    `json:"macAddress,omitempty"`
	WifiSSID     *string    `json:"wifi_ssid,omitempty"`
	WifiPassword *string    `json:"wifi_password,omitempty"`
	SendInterval *int       `json:"send_interval,omitempty"`
	LastSeen     *time.Time `json:"lastSeen,omitempty"`
	IsOnline     *bool      `json:"isOnline,omitempty"`
}

// Apply merges the non-nil fields onto d. The DeviceID rekey is applied
// too; uniqueness is the registry's job, not the model's.
func (u *DeviceUpdate) Apply(d *Device) {
	if u.DeviceID != nil {
		d.DeviceID = *u.DeviceID
	}
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Firmware != nil {
		d.Firmware = *u.Firmware
	}
	if u.MacAddress != nil {
		d.MacAddress = *u.MacAddress
	}
	if u.WifiSSID != nil {
		d.WifiSSID = *u.WifiSSID
	}
	if u.WifiPassword != nil {
		d.WifiPassword = *u.WifiPassword
	}
	if u.SendInterval != nil {
		d.SendInterval = *u.SendInterval
	}
	if u.LastSeen != nil {
		d.LastSeen = *u.LastSeen
	}
	if u.IsOnline != nil {
		d.IsOnline = *u.IsOnline
	}
}

// SensorReading is one sensor sample inside an ingest batch. The timestamp
// is device-supplied and passed through untouched (devices without a clock
// send millis-since-boot).
type SensorReading struct {
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// SensorDataRecord is immutable once written.
type SensorDataRecord struct {
	DeviceID   string          `json:"deviceId"`
	Sensors    []SensorReading `json:"sensors"`
	Timestamp  time.Time       `json:"timestamp"`
	ReceivedAt time.Time       `json:"receivedAt"`
	RawData    map[string]any  `json:"rawData,omitempty"`
}

// Command is the payload actually shipped to a device. Params carries
// exactly the subset of config fields the caller provided.
type Command struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// PendingCommand wraps a Command with queue bookkeeping. Delivered is
// monotonic false to true; rows are never deleted.
type PendingCommand struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"deviceId"`
	Command     Command   `json:"command"`
	CreatedAt   time.Time `json:"createdAt"`
	Delivered   bool      `json:"delivered"`
	DeliveredAt time.Time `json:"deliveredAt,omitzero"`
}

// DeviceConfig is the device-facing view assembled from a Device record.
type DeviceConfig struct {
	WifiSSID     string    `json:"wifi_ssid"`
	WifiPassword string    `json:"wifi_password"`
	SendInterval int       `json:"send_interval"`
	DeviceID     string    `json:"device_id"`
	LastUpdated  time.Time `json:"last_updated"`
}

// ConfigUpdate is a partial config-change request. Only non-nil fields end
// up in the queued command and on the device record.
type ConfigUpdate struct {
	WifiSSID     *string
	WifiPassword *string
	SendInterval *int
	DeviceID     *string
}

// Snapshot is the whole persisted document.
type Snapshot struct {
	Devices         []Device           `json:"devices"`
	SensorData      []SensorDataRecord `json:"sensorData"`
	PendingCommands []PendingCommand   `json:"pendingCommands"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Devices:         []Device{},
		SensorData:      []SensorDataRecord{},
		PendingCommands: []PendingCommand{},
	}
}
