package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"iotlab.dev/esp32-telemetry-hub/pkg/iot"
	"iotlab.dev/esp32-telemetry-hub/pkg/ws"
)

type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	Hub              *ws.Hub
	RateLimiterStore *iot.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	if rs.Hub != nil {
		rs.Server.GET("/ws", func(c *gin.Context) {
			rs.Hub.HandleUpgrade(c.Writer, c.Request)
		})
	}

	api := rs.Server.Group("/api")

	sensor := api.Group("/sensor")
	{
		sensor.POST("/data", rs.PostSensorData)
		sensor.GET("/data", rs.GetSensorData)
		sensor.GET("/data/:deviceId", rs.GetSensorDataByDevice)
	}

	device := api.Group("/device")
	{
		device.GET("/list", rs.ListDevices)
		device.POST("/register", rs.RegisterDevice)
		device.GET("/:deviceId", rs.GetDevice)
		device.PUT("/:deviceId", rs.UpdateDevice)
		device.DELETE("/:deviceId", rs.DeleteDevice)
		device.POST("/:deviceId/limiter", rs.PostLimiter)
	}

	config := api.Group("/config")
	{
		config.GET("/:deviceId", rs.GetConfig)
		config.PUT("/:deviceId", rs.UpdateConfig)
		config.GET("/:deviceId/commands", rs.ListCommands)
		config.POST("/:deviceId/commands/:commandId/confirm", rs.ConfirmCommand)
	}
}
