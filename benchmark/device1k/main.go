package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxDevices int = 1000
var httpHostPort string = "127.0.0.1:3000"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

type sensorReading struct {
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Timestamp string  `json:"timestamp"`
}

type sensorDataRequest struct {
	DeviceID   string          `json:"deviceId"`
	Sensors    []sensorReading `json:"sensors"`
	Firmware   string          `json:"firmware"`
	MacAddress string          `json:"macAddress"`
}

func postTelemetry(deviceID string) error {
	body, _ := json.Marshal(sensorDataRequest{
		DeviceID: deviceID,
		Sensors: []sensorReading{
			{Type: "temperature", Value: 15 + rnd.Float64()*20, Unit: "C", Timestamp: time.Now().UTC().Format(time.RFC3339)},
			{Type: "humidity", Value: 30 + rnd.Float64()*50, Unit: "%", Timestamp: time.Now().UTC().Format(time.RFC3339)},
		},
		Firmware:   "bench-1.0.0",
		MacAddress: "de:ad:be:ef:00:00",
	})

	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/sensor/data", httpHostPort),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %v", resp.StatusCode)
	}
	return nil
}

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := range maxDevices {
		deviceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	startTime := time.Now()
	wg := sync.WaitGroup{}
	errCount := 0
	var mu sync.Mutex

	for _, deviceID := range deviceIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := postTelemetry(id); err != nil {
				mu.Lock()
				errCount++
				mu.Unlock()
			}
		}(deviceID)
	}
	wg.Wait()

	usedTime := time.Since(startTime)
	fmt.Printf("ingested telemetry from %v devices in %v (%v failed)\n", maxDevices, usedTime, errCount)
}
