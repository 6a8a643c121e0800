package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyHubStoreType string = "HUB_STORE_TYPE"
	EnvKeyHubStorePath string = "HUB_STORE_PATH"

	EnvKeyHubHttpHostPort string = "HUB_HTTP_HOST_PORT"

	EnvKeyHubDefaultRate  string = "HUB_DEFAULT_RATE"
	EnvKeyHubDefaultBurst string = "HUB_DEFAULT_BURST"

	LoggerNameHubCore       string = "hub_core"
	LoggerNameStore         string = "snapshot_store"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameWsHub         string = "ws_hub"
	LoggerFieldHubCategory  string = "category"

	LoggerCategoryHubDevice    string = "device"
	LoggerCategoryHubTelemetry string = "telemetry"
	LoggerCategoryHubCommand   string = "command"
	LoggerCategoryHubSweeper   string = "sweeper"
)
