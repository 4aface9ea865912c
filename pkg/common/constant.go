package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyConfigFile string = "CONFIG_FILE"

	EnvKeyFleetDBType string = "FLEET_DB_TYPE"
	EnvKeyFleetDbPath string = "FLEET_DB_PATH"
	EnvKeyFleetDbDSN  string = "FLEET_DB_DSN"

	EnvKeyFleetHttpHostPort string = "FLEET_HTTP_HOST_PORT"
	EnvKeyFleetGrpcHostPort string = "FLEET_GRPC_HOST_PORT"

	EnvKeyFleetDefaultRate  string = "FLEET_DEFAULT_RATE"
	EnvKeyFleetDefaultBurst string = "FLEET_DEFAULT_BURST"

	EnvKeyFleetTickInterval string = "FLEET_TICK_INTERVAL"

	EnvKeyFleetWebsocket    string = "FLEET_WEBSOCKET"
	EnvKeyFleetRedisAddr    string = "FLEET_REDIS_ADDR"
	EnvKeyFleetRedisChannel string = "FLEET_REDIS_CHANNEL"
	EnvKeyFleetMQTTBroker   string = "FLEET_MQTT_BROKER"
	EnvKeyFleetMQTTTopic    string = "FLEET_MQTT_TOPIC"

	LoggerNameFleetCore     string = "fleet_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameEvents        string = "events"

	LoggerFieldFleetCategory          string = "category"
	LoggerCategoryFleetBattery        string = "battery"
	LoggerCategoryFleetHistory        string = "history"
	LoggerCategoryFleetUsage          string = "usage"
	LoggerCategoryFleetRecommendation string = "recommendation"
	LoggerCategoryFleetSimulation     string = "simulation"
)
