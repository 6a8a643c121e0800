package common

import (
	"os"
	"testing"
	"time"
)

func IsTestEnv() bool {
	return testing.Testing()
}
func IsDevelopment() bool {
	return os.Getenv(EnvKeyGoEnv) == "development"
}

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}

func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i := range len(items) {
		mapped[i] = mapFn(items[i])
	}
	return mapped
}

// NowUTC is the single clock used for all stored timestamps. Everything in
// the snapshot is UTC truncated to milliseconds so that round-tripping
// through the JSON medium is loss-free.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
