package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	// everything else is read through viper with this prefix, e.g. DH_DATABASE_TYPE
	EnvPrefix string = "DH"

	EnvKeyLogDir    string = "DH_LOG_DIR"
	EnvKeyLogLevel  string = "DH_LOG_LEVEL"
	EnvKeyRedisAddr string = "DH_REDIS_ADDR"

	ServiceName string = "device-health-service"
	LogFileName string = "device-health.log"

	LoggerNameHealthCore    string = "health_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameQuiz          string = "quiz"
	LoggerNameNotify        string = "notify"
	LoggerNameAgent         string = "agent"

	LoggerFieldCategory string = "category"

	LoggerCategoryLog      string = "log"
	LoggerCategoryQuiz     string = "quiz"
	LoggerCategoryAlert    string = "alert"
	LoggerCategoryBadge    string = "badge"
	LoggerCategorySettings string = "settings"
	LoggerCategoryAccess   string = "access"
)
