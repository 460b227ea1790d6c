package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"surveyd/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("auth.adminPassword", "SURVEYD_ADMIN_PASSWORD")
	viper.BindEnv("auth.tokenTTL", "SURVEYD_TOKEN_TTL")
	viper.BindEnv("database.path", "SURVEYD_DB_PATH")
	viper.BindEnv("logger.level", "SURVEYD_LOG_LEVEL")
	viper.BindEnv("retention.horizonDays", "SURVEYD_RETENTION_DAYS")
	viper.BindEnv("survey.totalLots", "SURVEYD_TOTAL_LOTS")

	viper.SetDefault("auth.bcryptCost", 12)
	viper.SetDefault("auth.tokenTTL", "2h")
	viper.SetDefault("auth.sweepInterval", "5m")
	viper.SetDefault("rateLimit.api.limit", 100)
	viper.SetDefault("rateLimit.api.window", "1m")
	viper.SetDefault("rateLimit.survey.limit", 5)
	viper.SetDefault("rateLimit.survey.window", "1h")
	viper.SetDefault("rateLimit.auth.limit", 5)
	viper.SetDefault("rateLimit.auth.window", "15m")
	viper.SetDefault("rateLimit.rgpd.limit", 3)
	viper.SetDefault("rateLimit.rgpd.window", "1h")
	viper.SetDefault("retention.horizonDays", 730)
	viper.SetDefault("retention.sweepInterval", "24h")
	viper.SetDefault("survey.buildings", []string{"A", "B", "C", "D"})
	viper.SetDefault("survey.totalLots", 75)
	viper.SetDefault("survey.fingerprintWindow", "24h")
	viper.SetDefault("survey.identityWindow", "168h")
	viper.SetDefault("cache.ttl", "60s")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SurveyComplianceDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
