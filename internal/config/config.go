package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/waterdropvpn/starcore/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	VPN        VPNConfig        `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
	Referral   ReferralConfig   `validate:"required"`
	Trial      TrialConfig      `validate:"required"`
	Admin      AdminConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
}

// VPNConfig describes the tunnel endpoint credentials are issued for.
// Host is the public endpoint clients connect to; Domain is used for
// credential labels (`user<id>@<domain>`); BasePath prefixes every
// per-user obfuscation path.
type VPNConfig struct {
	Host     string `validate:"required"`
	Domain   string `validate:"required"`
	BasePath string `validate:"required"`
}

type BillingConfig struct {
	Currency string `validate:"required"`
}

// ReferralConfig holds the bonus granted to a referrer when an invited
// user registers for the first time.
type ReferralConfig struct {
	BonusDays  int `validate:"required"`
	BonusStars int64
}

// TrialConfig controls the access window granted on first contact.
type TrialConfig struct {
	Hours int `validate:"required"`
}

// AdminConfig replaces the hardcoded admin id of early builds; zero means
// no admin user is configured.
type AdminConfig struct {
	ExternalID int64
}

func NewConfig() (*Configuration, error) {
	// Optional .env for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/starcore")

	v.SetEnvPrefix("STARCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxopenconns", 10)
	v.SetDefault("postgres.maxidleconns", 5)
	v.SetDefault("postgres.connmaxlifetimeminutes", 30)
	v.SetDefault("vpn.basepath", "/vless/")
	v.SetDefault("billing.currency", types.CurrencyStars)
	v.SetDefault("referral.bonusdays", 7)
	v.SetDefault("referral.bonusstars", 10)
	v.SetDefault("trial.hours", 24)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests. This is useful for running scripts or other non-web binaries.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		VPN: VPNConfig{
			Host:     "vpn.example.com",
			Domain:   "example.com",
			BasePath: "/vless/",
		},
		Billing:  BillingConfig{Currency: types.CurrencyStars},
		Referral: ReferralConfig{BonusDays: 7, BonusStars: 10},
		Trial:    TrialConfig{Hours: 24},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
