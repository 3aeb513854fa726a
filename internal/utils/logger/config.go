// internal/utils/logger/config.go
package logger

// Config controls where the process logs go.
type Config struct {
	// LogFile is the rotating JSON log; empty disables it.
	LogFile     string
	MaxSize     int // megabytes
	MaxAge      int // days
	MaxBackups  int
	Compress    bool
	Development bool
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() *Config {
	return &Config{
		LogFile:    "curvectl.log",
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
}
