package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/iot"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
)

// renderError maps domain errors onto the HTTP taxonomy. Anything
// unexpected is a generic 500; details stay server-side.
func (rs *RestfulServer) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, iot.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
	case errors.Is(err, iot.ErrCommandNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Command not found"})
	case errors.Is(err, iot.ErrDeviceIDTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		common.GetLoggerWith(common.LoggerNameRestfulServer).
			Error("Internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

type SensorDataRequest struct {
	DeviceID   string                 `json:"deviceId"`
	Sensors    []models.SensorReading `json:"sensors"`
	Firmware   string                 `json:"firmware"`
	MacAddress string                 `json:"macAddress"`
}

var sensorReadingSchema = z.Struct(z.Shape{
	"Type":      z.String().Optional(),
	"Value":     z.Float64().Optional(),
	"Unit":      z.String().Optional(),
	"Timestamp": z.String().Optional(),
})

var sensorDataRequestSchema = z.Struct(z.Shape{
	"DeviceID":   z.String().Required(),
	"Sensors":    z.Slice(sensorReadingSchema).Required(),
	"Firmware":   z.String().Optional(),
	"MacAddress": z.String().Optional(),
})

func (rs *RestfulServer) PostSensorData(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: deviceId and sensors array required"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))

	var req SensorDataRequest
	if err := sensorDataRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: deviceId and sensors array required"})
		return
	}

	if !rs.CheckDeviceLimiter(req.DeviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	// echo the raw payload into the stored record for diagnostics
	var raw map[string]any
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		raw = nil
	}

	_, pending, err := rs.Iot.Telemetry.IngestSensorData(req.DeviceID, req.Sensors, raw)
	if err != nil {
		rs.renderError(c, err)
		return
	}

	if len(pending) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"dataReceived": true,
			"pendingCommands": common.Mapper(pending, func(p models.PendingCommand) models.Command {
				return p.Command
			}),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dataReceived": true})
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

func (rs *RestfulServer) GetSensorData(c *gin.Context) {
	data, err := rs.Iot.Telemetry.GetSensorData(c.Query("deviceId"), parseLimit(c))
	if err != nil {
		rs.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(data),
		"data":    data,
	})
}

func (rs *RestfulServer) GetSensorDataByDevice(c *gin.Context) {
	deviceID := c.Param("deviceId")
	data, err := rs.Iot.Telemetry.GetSensorData(deviceID, parseLimit(c))
	if err != nil {
		rs.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"deviceId": deviceID,
		"count":    len(data),
		"data":     data,
	})
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	devices, err := rs.Iot.Device.GetDevices()
	if err != nil {
		rs.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(devices),
		"devices": devices,
	})
}

type RegisterDeviceRequest struct {
	DeviceID   string `json:"deviceId"`
	Name       string `json:"name"`
	Firmware   string `json:"firmware"`
	MacAddress string `json:"macAddress"`
}

var registerDeviceRequestSchema = z.Struct(z.Shape{
	"DeviceID":   z.String().Required(),
	"Name":       z.String().Optional(),
	"Firmware":   z.String().Optional(),
	"MacAddress": z.String().Optional(),
})

func (rs *RestfulServer) RegisterDevice(c *gin.Context) {
	var req RegisterDeviceRequest
	if err := registerDeviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deviceId is required"})
		return
	}

	if req.Name == "" {
		req.Name = "Device " + req.DeviceID
	}
	if req.Firmware == "" {
		req.Firmware = "unknown"
	}
	if req.MacAddress == "" {
		req.MacAddress = "unknown"
	}

	// AddDevice is idempotent, re-registering returns the existing record
	device, err := rs.Iot.Device.AddDevice(&models.Device{
		DeviceID:   req.DeviceID,
		Name:       req.Name,
		Firmware:   req.Firmware,
		MacAddress: req.MacAddress,
	})
	if err != nil {
		rs.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "device": device})
}

type deviceDetail struct {
	models.Device
	RecentData *models.SensorDataRecord `json:"recentData,omitempty"`
	DataCount  int                      `json:"dataCount"`
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	deviceID := c.Param("deviceId")

	device, err := rs.Iot.Device.GetDevice(deviceID)
	if err != nil {
		rs.renderError(c, err)
		return
	}

	data, err := rs.Iot.Telemetry.GetSensorData(deviceID, iot.MaxSensorDataRecords)
	if err != nil {
		rs.renderError(c, err)
		return
	}

	detail := deviceDetail{Device: *device, DataCount: len(data)}
	if len(data) > 0 {
		detail.RecentData = &data[len(data)-1]
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "device": detail})
}

func (rs *RestfulServer) UpdateDevice(c *gin.Context) {
	var updates models.DeviceUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	device, err := rs.Iot.Device.UpdateDevice(c.Param("deviceId"), &updates)
	if err != nil {
		rs.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "device": device})
}

func (rs *RestfulServer) DeleteDevice(c *gin.Context) {
	if err := rs.Iot.Device.DeleteDevice(c.Param("deviceId")); err != nil {
		rs.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (rs *RestfulServer) GetConfig(c *gin.Context) {
	config, err := rs.Iot.Command.GetDeviceConfig(c.Param("deviceId"))
	if err != nil {
		rs.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "config": config})
}

// flexInt accepts both 7000 and "7000"; embedded firmware is sloppy about
// numeric JSON types.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexInt(int(fl))
	return nil
}

type ConfigUpdateRequest struct {
	WifiSSID     *string  `json:"wifi_ssid"`
	WifiPassword *string  `json:"wifi_password"`
	SendInterval *flexInt `json:"send_interval"`
	DeviceID     *string  `json:"device_id"`
}

func (rs *RestfulServer) UpdateConfig(c *gin.Context) {
	var req ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := models.ConfigUpdate{
		WifiSSID:     req.WifiSSID,
		WifiPassword: req.WifiPassword,
		DeviceID:     req.DeviceID,
	}
	if req.SendInterval != nil {
		interval := int(*req.SendInterval)
		update.SendInterval = &interval
	}

	pending, err := rs.Iot.Command.ApplyConfigUpdate(c.Param("deviceId"), &update)
	if err != nil {
		rs.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pendingCommand": pending})
}

func (rs *RestfulServer) ListCommands(c *gin.Context) {
	pending, err := rs.Iot.Command.ListPending(c.Param("deviceId"))
	if err != nil {
		rs.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"commands": common.Mapper(pending, func(p models.PendingCommand) models.Command {
			return p.Command
		}),
		"count": len(pending),
	})
}

func (rs *RestfulServer) ConfirmCommand(c *gin.Context) {
	commandID := c.Param("commandId")

	confirmed, err := rs.Iot.Command.ConfirmDelivered(commandID)
	if err != nil {
		rs.renderError(c, err)
		return
	}

	common.GetLoggerWith(common.LoggerNameRestfulServer).Info("Command confirmed by device",
		zap.String("commandId", commandID), zap.String("deviceId", confirmed.DeviceID))

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("deviceId")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
