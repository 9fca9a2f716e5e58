package log

// Default pattern and time layout used when the configuration leaves them empty.
const (
	DefaultPattern    = "%time [%level] %caller: %msg%n"
	DefaultTimeLayout = "2006-01-02 15:04:05"
)

type LoggerConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Time    string `mapstructure:"time" yaml:"time"`
	// Console is "stdout", "stderr" or "none".
	Console string          `mapstructure:"console" yaml:"console"`
	File    FileAppenderOpt `mapstructure:"file" yaml:"file"`
	Caller  bool            `mapstructure:"caller" yaml:"caller"`
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() LoggerConfig {
	return LoggerConfig{
		Level:   "info",
		Pattern: DefaultPattern,
		Time:    DefaultTimeLayout,
		Console: "stderr",
	}
}
