package config

// Recognized setting names. They double as environment variable names.
const (
	KeyFirebaseAPIKey            = "FIREBASE_API_KEY"
	KeyFirebaseAuthDomain        = "FIREBASE_AUTH_DOMAIN"
	KeyFirebaseProjectID         = "FIREBASE_PROJECT_ID"
	KeyFirebaseStorageBucket     = "FIREBASE_STORAGE_BUCKET"
	KeyFirebaseMessagingSenderID = "FIREBASE_MESSAGING_SENDER_ID"
	KeyFirebaseAppID             = "FIREBASE_APP_ID"
	KeyFirebaseMeasurementID     = "FIREBASE_MEASUREMENT_ID"
	KeyFirebaseCredentialsFile   = "FIREBASE_CREDENTIALS_FILE"

	KeyOpenAIAPIKey         = "OPENAI_API_KEY"
	KeyOpenAIBaseURL        = "OPENAI_BASE_URL"
	KeyAIModel              = "AI_MODEL"
	KeyMaxTokens            = "MAX_TOKENS"
	KeyTemperature          = "TEMPERATURE"
	KeyFallbackToMock       = "FALLBACK_TO_MOCK"
	KeyEnableCostLimits     = "ENABLE_COST_LIMITS"
	KeyMaxCostPerAnalysis   = "MAX_COST_PER_ANALYSIS"
	KeyRequestTimeout       = "REQUEST_TIMEOUT"
	KeyRetryAttempts        = "RETRY_ATTEMPTS"
	KeyEnableRateLimiting   = "ENABLE_RATE_LIMITING"
	KeyMaxRequestsPerMinute = "MAX_REQUESTS_PER_MINUTE"
	KeyResponseLanguage     = "AI_RESPONSE_LANGUAGE"
	KeyEnforceLimits        = "ENFORCE_AI_LIMITS"

	KeyAppEnv       = "APP_ENV"
	KeyLogLevel     = "LOG_LEVEL"
	KeyAdminEmail   = "ADMIN_EMAIL"
	KeyStoreBackend = "STORE_BACKEND"
	KeySQLitePath   = "SQLITE_PATH"
	KeyServerAddr   = "SERVER_ADDR"
	KeyAuthMode     = "AUTH_MODE"
)

// Keys lists every recognized setting in display order.
var Keys = []string{
	KeyFirebaseAPIKey,
	KeyFirebaseAuthDomain,
	KeyFirebaseProjectID,
	KeyFirebaseStorageBucket,
	KeyFirebaseMessagingSenderID,
	KeyFirebaseAppID,
	KeyFirebaseMeasurementID,
	KeyFirebaseCredentialsFile,
	KeyOpenAIAPIKey,
	KeyOpenAIBaseURL,
	KeyAIModel,
	KeyMaxTokens,
	KeyTemperature,
	KeyFallbackToMock,
	KeyEnableCostLimits,
	KeyMaxCostPerAnalysis,
	KeyRequestTimeout,
	KeyRetryAttempts,
	KeyEnableRateLimiting,
	KeyMaxRequestsPerMinute,
	KeyResponseLanguage,
	KeyEnforceLimits,
	KeyAppEnv,
	KeyLogLevel,
	KeyAdminEmail,
	KeyStoreBackend,
	KeySQLitePath,
	KeyServerAddr,
	KeyAuthMode,
}

// secretKeys are never echoed in logs or `config show`.
var secretKeys = map[string]bool{
	KeyFirebaseAPIKey: true,
	KeyOpenAIAPIKey:   true,
}

// IsSecret reports whether the value of key must be masked.
func IsSecret(key string) bool {
	return secretKeys[key]
}

// firebaseFileKeys maps the field names of a Firebase web config block to setting names.
var firebaseFileKeys = map[string]string{
	"apiKey":            KeyFirebaseAPIKey,
	"authDomain":        KeyFirebaseAuthDomain,
	"projectId":         KeyFirebaseProjectID,
	"storageBucket":     KeyFirebaseStorageBucket,
	"messagingSenderId": KeyFirebaseMessagingSenderID,
	"appId":             KeyFirebaseAppID,
	"measurementId":     KeyFirebaseMeasurementID,
	"credentialsFile":   KeyFirebaseCredentialsFile,
}
