// pkg/backend/apk.go
package backend

// NewApkBackend creates a new APK backend for Alpine
func NewApkBackend(config *Config) Backend {
	logger := config.logger("APK")
	return &commandBackend{
		name:    string(BackendApk),
		binary:  "apk",
		update:  []string{"update"},
		install: []string{"add", "--no-cache"},
		useSudo: config.UseSudo,
		runner:  config.runner(logger),
		logger:  logger,
	}
}
