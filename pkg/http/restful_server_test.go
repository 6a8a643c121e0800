package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"iotlab.dev/esp32-telemetry-hub/pkg/iot/mocks"
	_ "iotlab.dev/esp32-telemetry-hub/pkg/testing"

	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	"iotlab.dev/esp32-telemetry-hub/pkg/iot"
	"iotlab.dev/esp32-telemetry-hub/pkg/models"
	"iotlab.dev/esp32-telemetry-hub/pkg/store"
)

func setupTestServer() *RestfulServer {
	iotObj := iot.IOT{
		Store: store.New(store.UseMemoryMedium()),
	}
	iotObj.WithServices(iot.ServiceOpts{
		Device:    iotObj.GetIDevice(),
		Telemetry: iotObj.GetITelemetry(),
		Command:   iotObj.GetICommand(),
	})

	rs := &RestfulServer{
		Server: gin.Default(),
		Iot:    &iotObj,
		// default we use no limiter, if need, later assign rs.RateLimiterStore = iot.NewRateLimiterStore(...)
	}

	rs.Setup()

	return rs
}

func doJSON(rs *RestfulServer, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer()

	w := doJSON(rs, "GET", "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegisterDevice(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	w := doJSON(rs, "POST", "/api/device/register", gin.H{"deviceId": deviceID, "name": "greenhouse"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	device := resp["device"].(map[string]any)
	assert.Equal(t, deviceID, device["deviceId"])
	assert.Equal(t, "greenhouse", device["name"])
	assert.Equal(t, false, device["isOnline"])
	registeredAt := device["registeredAt"]

	// registering twice does not duplicate and keeps registeredAt
	w = doJSON(rs, "POST", "/api/device/register", gin.H{"deviceId": deviceID, "name": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	device = resp["device"].(map[string]any)
	assert.Equal(t, registeredAt, device["registeredAt"])
	assert.Equal(t, "greenhouse", device["name"])

	w = doJSON(rs, "GET", "/api/device/list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, float64(1), resp["count"])
}

func TestRegisterDevice_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	// missing deviceId is rejected
	w := doJSON(rs, "POST", "/api/device/register", gin.H{"name": "no id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostSensorData(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	w := doJSON(rs, "POST", "/api/sensor/data", gin.H{
		"deviceId": deviceID,
		"sensors": []gin.H{
			{"type": "temperature", "value": 23.4, "unit": "C"},
			{"type": "humidity", "value": 61.0, "unit": "%"},
		},
		"firmware":   "1.2.3",
		"macAddress": "aa:bb:cc:dd:ee:ff",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["dataReceived"])
	assert.NotContains(t, resp, "pendingCommands")

	// the unknown device was auto-registered and marked online
	w = doJSON(rs, "GET", "/api/device/"+deviceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	device := resp["device"].(map[string]any)
	assert.Equal(t, true, device["isOnline"])
	assert.Equal(t, "1.2.3", device["firmware"])
	assert.Equal(t, float64(1), device["dataCount"])
	recent := device["recentData"].(map[string]any)
	assert.Equal(t, deviceID, recent["deviceId"])

	// raw payload is echoed into the stored record
	w = doJSON(rs, "GET", "/api/sensor/data/"+deviceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, float64(1), resp["count"])
	data := resp["data"].([]any)
	record := data[0].(map[string]any)
	raw := record["rawData"].(map[string]any)
	assert.Equal(t, "1.2.3", raw["firmware"])
}

func TestPostSensorData_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		rs := setupTestServer()
		// missing deviceId
		w := doJSON(rs, "POST", "/api/sensor/data", gin.H{"sensors": []gin.H{{"type": "t", "value": 1.0}}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer()
		// sensors not an array
		w := doJSON(rs, "POST", "/api/sensor/data", gin.H{"deviceId": uuid.NewString(), "sensors": "oops"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer()
		// ingest failure maps to 500
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockITelemetry := mocks.NewMockITelemetry(ctrl)
		rs.Iot.Telemetry = mockITelemetry
		mockITelemetry.EXPECT().
			IngestSensorData(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil, fmt.Errorf("just causing error")).
			Times(1)

		w := doJSON(rs, "POST", "/api/sensor/data", gin.H{
			"deviceId": uuid.NewString(),
			"sensors":  []gin.H{{"type": "t", "value": 1.0}},
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}

func TestGetSensorDataQuery(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceA := uuid.NewString()
	deviceB := uuid.NewString()

	for n := range 3 {
		w := doJSON(rs, "POST", "/api/sensor/data", gin.H{
			"deviceId": deviceA,
			"sensors":  []gin.H{{"type": "counter", "value": float64(n)}},
		})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(rs, "POST", "/api/sensor/data", gin.H{
		"deviceId": deviceB,
		"sensors":  []gin.H{{"type": "counter", "value": 99.0}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(rs, "GET", "/api/sensor/data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, float64(4), resp["count"])

	w = doJSON(rs, "GET", "/api/sensor/data?deviceId="+deviceA+"&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, float64(2), resp["count"])

	w = doJSON(rs, "GET", "/api/sensor/data/"+deviceB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, deviceB, resp["deviceId"])
	assert.Equal(t, float64(1), resp["count"])
}

func TestUpdateAndDeleteDevice(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	w := doJSON(rs, "POST", "/api/device/register", gin.H{"deviceId": deviceID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(rs, "PUT", "/api/device/"+deviceID, gin.H{"name": "relabelled", "firmware": "9.9.9"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	device := resp["device"].(map[string]any)
	assert.Equal(t, "relabelled", device["name"])
	assert.Equal(t, "9.9.9", device["firmware"])

	w = doJSON(rs, "PUT", "/api/device/"+uuid.NewString(), gin.H{"name": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// leave some history behind, then delete
	w = doJSON(rs, "POST", "/api/sensor/data", gin.H{
		"deviceId": deviceID,
		"sensors":  []gin.H{{"type": "t", "value": 1.0}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(rs, "DELETE", "/api/device/"+deviceID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(rs, "DELETE", "/api/device/"+deviceID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(rs, "GET", "/api/device/list", nil)
	resp = decodeBody(t, w)
	assert.Equal(t, float64(0), resp["count"])

	// querying the orphaned history still works
	w = doJSON(rs, "GET", "/api/sensor/data/"+deviceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, float64(1), resp["count"])
}

func TestConfigRoundTrip(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	w := doJSON(rs, "POST", "/api/device/register", gin.H{"deviceId": deviceID})
	require.Equal(t, http.StatusOK, w.Code)

	// unconfigured device reports defaults
	w = doJSON(rs, "GET", "/api/config/"+deviceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	config := resp["config"].(map[string]any)
	assert.Equal(t, float64(iot.DefaultSendInterval), config["send_interval"])

	// send_interval arrives as a string and is coerced to an integer
	w = doJSON(rs, "PUT", "/api/config/"+deviceID, gin.H{
		"wifi_ssid":     "lab",
		"send_interval": "7000",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	pending := resp["pendingCommand"].(map[string]any)
	command := pending["command"].(map[string]any)
	assert.Equal(t, "update_config", command["type"])
	params := command["params"].(map[string]any)
	assert.Equal(t, float64(7000), params["send_interval"])
	assert.Equal(t, "lab", params["wifi_ssid"])
	assert.NotContains(t, params, "wifi_password")

	w = doJSON(rs, "GET", "/api/config/"+deviceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	config = resp["config"].(map[string]any)
	assert.Equal(t, float64(7000), config["send_interval"])
	assert.Equal(t, "lab", config["wifi_ssid"])

	// unknown device
	w = doJSON(rs, "PUT", "/api/config/"+uuid.NewString(), gin.H{"wifi_ssid": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(rs, "GET", "/api/config/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommandDeliveryProtocol(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	w := doJSON(rs, "POST", "/api/device/register", gin.H{"deviceId": deviceID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(rs, "PUT", "/api/config/"+deviceID, gin.H{"send_interval": 3000})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	commandID := resp["pendingCommand"].(map[string]any)["id"].(string)

	// piggybacked on ingest, repeatedly, until confirmed
	for range 2 {
		w = doJSON(rs, "POST", "/api/sensor/data", gin.H{
			"deviceId": deviceID,
			"sensors":  []gin.H{{"type": "t", "value": 1.0}},
		})
		require.Equal(t, http.StatusOK, w.Code)
		resp = decodeBody(t, w)
		pending := resp["pendingCommands"].([]any)
		require.Len(t, pending, 1)
		command := pending[0].(map[string]any)
		assert.Equal(t, "update_config", command["type"])
	}

	w = doJSON(rs, "GET", "/api/config/"+deviceID+"/commands", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, float64(1), resp["count"])

	w = doJSON(rs, "POST", "/api/config/"+deviceID+"/commands/"+commandID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// permanently excluded after confirmation
	w = doJSON(rs, "GET", "/api/config/"+deviceID+"/commands", nil)
	resp = decodeBody(t, w)
	assert.Equal(t, float64(0), resp["count"])

	w = doJSON(rs, "POST", "/api/sensor/data", gin.H{
		"deviceId": deviceID,
		"sensors":  []gin.H{{"type": "t", "value": 2.0}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(t, w)
	assert.NotContains(t, resp, "pendingCommands")

	// unknown command id
	w = doJSON(rs, "POST", "/api/config/"+deviceID+"/commands/0000/confirm", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func setupTestServerWithLimiter(limiter *iot.RateLimiterStore) *RestfulServer {
	iotObj := iot.IOT{
		Store: store.New(store.UseMemoryMedium()),
	}
	iotObj.WithServices(iot.ServiceOpts{
		Device:    iotObj.GetIDevice(),
		Telemetry: iotObj.GetITelemetry(),
		Command:   iotObj.GetICommand(),
	})

	rs := &RestfulServer{
		Server:           gin.Default(),
		Iot:              &iotObj,
		RateLimiterStore: limiter,
	}

	rs.Setup()

	return rs
}

func TestPostSensorDataWithLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(iot.NewRateLimiterStore(2, 2))

	deviceID := uuid.NewString()
	body := gin.H{
		"deviceId": deviceID,
		"sensors":  []gin.H{{"type": "t", "value": 1.0}},
	}

	// burst of 3 — only 2 allowed
	for i := range 3 {
		w := doJSON(rs, "POST", "/api/sensor/data", body)
		if i < 2 {
			require.Equal(t, http.StatusOK, w.Code, "request %d should be allowed", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, w.Code, "request %d should be rate limited", i+1)
		}
	}

	// raising the device's limit opens the gate again
	w := doJSON(rs, "POST", "/api/device/"+deviceID+"/limiter", gin.H{"rate": 10.0, "burst": 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(rs, "POST", "/api/sensor/data", body)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPostLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		rs := setupTestServerWithLimiter(iot.NewRateLimiterStore(2, 2))
		// empty payload should be rejected
		w := doJSON(rs, "POST", "/api/device/"+uuid.NewString()+"/limiter", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		// without limiter store the endpoint is accepted but has no effect
		rs := setupTestServer()
		w := doJSON(rs, "POST", "/api/device/"+uuid.NewString()+"/limiter", gin.H{"rate": 2.0, "burst": 2})
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestListCommands_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockICommand := mocks.NewMockICommand(ctrl)
	rs.Iot.Command = mockICommand
	mockICommand.EXPECT().
		ListPending(gomock.Eq(deviceID)).
		Return(nil, fmt.Errorf("just causing error")).
		Times(1)

	w := doJSON(rs, "GET", "/api/config/"+deviceID+"/commands", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetDevice_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	w := doJSON(rs, "GET", "/api/device/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRekeyThroughConfigUpdate(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	oldID := uuid.NewString()
	newID := uuid.NewString()

	w := doJSON(rs, "POST", "/api/device/register", gin.H{"deviceId": oldID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(rs, "PUT", "/api/config/"+oldID, gin.H{"device_id": newID})
	require.Equal(t, http.StatusOK, w.Code)

	// the record moved to the new id
	w = doJSON(rs, "GET", "/api/device/"+oldID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(rs, "GET", "/api/device/"+newID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// and the update_config command waits under the new id
	w = doJSON(rs, "GET", "/api/config/"+newID+"/commands", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, float64(1), resp["count"])
	commands := resp["commands"].([]any)
	assert.Equal(t, models.CommandTypeUpdateConfig, commands[0].(map[string]any)["type"])
}
