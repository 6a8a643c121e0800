package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"iotlab.dev/esp32-telemetry-hub/pkg/common"
	hubHttp "iotlab.dev/esp32-telemetry-hub/pkg/http"
	"iotlab.dev/esp32-telemetry-hub/pkg/iot"
	"iotlab.dev/esp32-telemetry-hub/pkg/store"
	"iotlab.dev/esp32-telemetry-hub/pkg/ws"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var snapshotStore *store.Store
	storeType := os.Getenv(common.EnvKeyHubStoreType)
	switch storeType {
	case "file":
		snapshotStore = store.New(store.UseFileMedium(store.DefaultFilePath()))
	case "memory":
		snapshotStore = store.New(store.UseMemoryMedium())
	default:
		log.Fatal("Unknown HUB_STORE_TYPE: " + storeType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHubHttpHostPort))
	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":3000"
	}

	logger := common.GetLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	iotCore := iot.IOT{
		Store:     snapshotStore,
		Broadcast: hub,
	}
	iotCore.WithServices(iot.ServiceOpts{
		Device:    iotCore.GetIDevice(),
		Telemetry: iotCore.GetITelemetry(),
		Command:   iotCore.GetICommand(),
	})

	sweeper := iot.NewSweeper(&iotCore)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	rs := &hubHttp.RestfulServer{
		Server: gin.Default(),
		Iot:    &iotCore,
		Hub:    hub,
	}

	// rate limiting is opt-in, leave the env keys unset to disable it
	defaultRateEnv := strings.TrimSpace(os.Getenv(common.EnvKeyHubDefaultRate))
	defaultBurstEnv := strings.TrimSpace(os.Getenv(common.EnvKeyHubDefaultBurst))
	if defaultRateEnv != "" || defaultBurstEnv != "" {
		var defaultRate float64
		var defaultBurst int64

		if defaultRate, err = strconv.ParseFloat(defaultRateEnv, 64); err != nil {
			log.Fatal("Invalid HUB_DEFAULT_RATE, should be a float64 value")
		}
		if defaultBurst, err = strconv.ParseInt(defaultBurstEnv, 10, 64); err != nil {
			log.Fatal("Invalid HUB_DEFAULT_BURST, should be an int value")
		}

		rs.RateLimiterStore = iot.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst))
		logger.Info("Ingest rate limiter enabled",
			zap.Float64("default_rate", defaultRate), zap.Int64("default_burst", defaultBurst))
	}

	rs.Setup()

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
