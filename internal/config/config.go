// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	RPCURL       string `mapstructure:"rpc_url"`
	WebSocketURL string `mapstructure:"websocket_url"`

	// PrivateKey is the base58 wallet key. Env only, never read from the
	// config file.
	PrivateKey string `mapstructure:"-"`

	BuyAmountSOL float64 `mapstructure:"buy_amount_sol"`
	SlippageBps  uint64  `mapstructure:"slippage_bps"`

	UnitLimit uint32 `mapstructure:"unit_limit"`
	UnitPrice uint64 `mapstructure:"unit_price"`

	Simulate      bool `mapstructure:"simulate"`
	SkipPreflight bool `mapstructure:"skip_preflight"`

	SnipeOnCreate    bool `mapstructure:"snipe_on_create"`
	SnipeOnMigration bool `mapstructure:"snipe_on_migration"`

	ChannelSize  int    `mapstructure:"channel_size"`
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
}

const (
	DefaultSlippageBps = 500
	DefaultUnitLimit   = 200_000
	DefaultChannelSize = 64
	DefaultLogFile     = "logs/sniper.log"
)

const envPrefix = "SNIPER"

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"slippage_bps": DefaultSlippageBps,
		"unit_limit":   DefaultUnitLimit,
		"channel_size": DefaultChannelSize,
		"log_file":     DefaultLogFile,
		"simulate":     true,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("missing rpc_url in configuration")
	}
	if err := validateURL(cfg.RPCURL, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	if cfg.WebSocketURL == "" {
		return errors.New("missing websocket_url in configuration")
	}
	if err := validateURL(cfg.WebSocketURL, "ws"); err != nil {
		return errors.New("invalid WebSocket URL protocol")
	}
	if cfg.PrivateKey == "" {
		return errors.New("missing " + envPrefix + "_PRIVATE_KEY environment variable")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.BuyAmountSOL <= 0 {
		return errors.New("invalid buy_amount_sol")
	}
	if cfg.SlippageBps >= 10_000 {
		return errors.New("invalid slippage_bps")
	}
	if cfg.UnitLimit == 0 {
		return errors.New("invalid unit_limit")
	}
	if cfg.ChannelSize <= 0 {
		return errors.New("invalid channel_size")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The signing key never touches the config file.
	cfg.PrivateKey = v.GetString("PRIVATE_KEY")

	if envRPC := v.GetString("RPC_URL"); envRPC != "" {
		cfg.RPCURL = envRPC
	}
	if envWS := v.GetString("WEBSOCKET_URL"); envWS != "" {
		cfg.WebSocketURL = envWS
	}
}

// BuyLamports converts the configured SOL budget to lamports.
func (c *Config) BuyLamports() uint64 {
	return uint64(c.BuyAmountSOL * 1e9)
}
