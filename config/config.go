package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	GuestTokenSecret     string `mapstructure:"GUEST_TOKEN_SECRET"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`

	// Escalation thresholds (heat score 0-100). Must satisfy low < medium < high.
	EscalationLow    int `mapstructure:"ESCALATION_LOW"`
	EscalationMedium int `mapstructure:"ESCALATION_MEDIUM"`
	EscalationHigh   int `mapstructure:"ESCALATION_HIGH"`

	// Upgrade purchase windows. Zero cutoff hours disables the cutoff.
	EarlyCheckinWindowDays  int `mapstructure:"EARLY_CHECKIN_WINDOW_DAYS"`
	EarlyCheckinCutoffHours int `mapstructure:"EARLY_CHECKIN_CUTOFF_HOURS"`
	LateCheckoutWindowDays  int `mapstructure:"LATE_CHECKOUT_WINDOW_DAYS"`
	LateCheckoutCutoffHours int `mapstructure:"LATE_CHECKOUT_CUTOFF_HOURS"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS", "GUEST_TOKEN_SECRET", "SCHEDULER_ENABLED",
		"ESCALATION_LOW", "ESCALATION_MEDIUM", "ESCALATION_HIGH",
		"EARLY_CHECKIN_WINDOW_DAYS", "EARLY_CHECKIN_CUTOFF_HOURS",
		"LATE_CHECKOUT_WINDOW_DAYS", "LATE_CHECKOUT_CUTOFF_HOURS",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	log.Info("Successfully initialized config")
	err := validateConfig(config, log)
	if err != nil {
		return Config{}, err
	}
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func setDefaults() {
	viper.SetDefault("ESCALATION_LOW", 35)
	viper.SetDefault("ESCALATION_MEDIUM", 60)
	viper.SetDefault("ESCALATION_HIGH", 85)

	viper.SetDefault("EARLY_CHECKIN_WINDOW_DAYS", 2)
	viper.SetDefault("EARLY_CHECKIN_CUTOFF_HOURS", 0)
	viper.SetDefault("LATE_CHECKOUT_WINDOW_DAYS", 1)
	viper.SetDefault("LATE_CHECKOUT_CUTOFF_HOURS", 0)
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.GuestTokenSecret == "" {
		return log.Err("Fatal error: GUEST_TOKEN_SECRET is required", nil)
	}

	if !(config.EscalationLow < config.EscalationMedium &&
		config.EscalationMedium < config.EscalationHigh) {
		return log.Error(
			"Fatal error: escalation thresholds must satisfy low < medium < high",
			"low", config.EscalationLow,
			"medium", config.EscalationMedium,
			"high", config.EscalationHigh,
		)
	}

	if config.EarlyCheckinWindowDays < 0 || config.LateCheckoutWindowDays < 0 ||
		config.EarlyCheckinCutoffHours < 0 || config.LateCheckoutCutoffHours < 0 {
		return log.Error("Fatal error: upgrade windows and cutoffs must be non-negative")
	}

	ConfigInstance = config
	return nil
}
