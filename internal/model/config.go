package model

import "time"

// Config holds every setting of the tool. Fields carry both yaml tags (for
// config show/init) and mapstructure tags (for viper).
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
	Sweep  SweepConfig  `yaml:"sweep" mapstructure:"sweep"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the published static data tree.
type DataConfig struct {
	Origin   string `yaml:"origin" mapstructure:"origin"`       // e.g. https://bucket.s3.eu-west-1.amazonaws.com; empty for root-relative
	DataRoot string `yaml:"data_root" mapstructure:"data_root"` // path under the origin
	Cohort   string `yaml:"cohort" mapstructure:"cohort"`       // default cohort when none is given
}

// HTTPConfig configures candidate retrieval.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SweepConfig controls batch resolution across many counties.
type SweepConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
	RespectRobots     bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Origin:   "",
			DataRoot: "static/data",
			Cohort:   "latest",
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "countydata/0.3",
			MaxBodyBytes: 32 << 20,
		},
		Sweep: SweepConfig{
			Workers:           4,
			RequestsPerSecond: 10,
			BurstSize:         5,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
