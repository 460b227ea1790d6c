package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type AuthConfig struct {
	AdminPassword string        `yaml:"adminPassword" validate:"required"`
	BcryptCost    int           `yaml:"bcryptCost"`
	TokenTTL      time.Duration `yaml:"tokenTTL" validate:"required|min:1"`
	SweepInterval time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
}

type RateTier struct {
	Limit  int           `yaml:"limit" validate:"required|min:1"`
	Window time.Duration `yaml:"window" validate:"required|min:1"`
}

type RateLimitConfig struct {
	API    RateTier `yaml:"api"`
	Survey RateTier `yaml:"survey"`
	Auth   RateTier `yaml:"auth"`
	Rgpd   RateTier `yaml:"rgpd"`
}

type RetentionConfig struct {
	HorizonDays   int           `yaml:"horizonDays" validate:"required|min:1"`
	SweepInterval time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
}

type SurveyConfig struct {
	Buildings         []string      `yaml:"buildings" validate:"required"`
	TotalLots         int           `yaml:"totalLots" validate:"required|min:1"`
	FingerprintWindow time.Duration `yaml:"fingerprintWindow" validate:"required|min:1"`
	IdentityWindow    time.Duration `yaml:"identityWindow" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Database  DatabaseConfig  `yaml:"database"`
	Logger    LoggerConfig    `yaml:"logger"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Retention RetentionConfig `yaml:"retention"`
	Survey    SurveyConfig    `yaml:"survey"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
