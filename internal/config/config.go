package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/passprove/verification-node/internal/log"
)

// CIConfigPath variable contain the CI configuration path
const CIConfigPath = "/home/runner/work/verification-node/verification-node/"

// Configuration holds the project configuration
type Configuration struct {
	ServerUrl     string
	ServerPort    int
	VerifyBaseUrl string        `mapstructure:"VerifyBaseUrl"`
	Database      Database      `mapstructure:"Database"`
	Cache         Cache         `mapstructure:"Cache"`
	Log           Log           `mapstructure:"Log"`
	Pricing       Pricing       `mapstructure:"Pricing"`
	Providers     Providers     `mapstructure:"Providers"`
	Notifications Notifications `mapstructure:"Notifications"`
}

// Database has the database configuration
// URL: The database connection string
type Database struct {
	URL string `mapstructure:"Url" tip:"The Datasource name locator"`
}

// Cache configurations
//
// Provider selects the cache backend: redis, valkey or memory.
type Cache struct {
	Provider string `mapstructure:"Provider" tip:"Cache provider (redis, valkey, memory)"`
	Url      string `mapstructure:"Url" tip:"The redis/valkey url to use as a cache"`
}

// Pricing holds the price book configuration.
// SettingsPath points to a yaml file with the per method and plan prices.
// SettingsFile may carry the same file base64 encoded via environment variable.
type Pricing struct {
	SettingsPath string  `mapstructure:"SettingsPath" tip:"Path to the pricing settings file"`
	SettingsFile *string `mapstructure:"SettingsFile" tip:"Pricing settings file, base64 encoded"`
}

// Providers holds the endpoints and credentials of the external evidence providers
type Providers struct {
	BankID   Provider `mapstructure:"BankID"`
	MojeID   Provider `mapstructure:"MojeID"`
	OCR      Provider `mapstructure:"OCR"`
	FaceScan Provider `mapstructure:"FaceScan"`
}

// Provider is one external evidence provider endpoint
type Provider struct {
	URL    string `mapstructure:"Url" tip:"Provider base url"`
	APIKey string `mapstructure:"ApiKey" tip:"Provider api key"`
}

// Notifications holds the verification code delivery gateways
type Notifications struct {
	EmailGatewayURL string `mapstructure:"EmailGatewayUrl" tip:"Email delivery gateway url"`
	SMSGatewayURL   string `mapstructure:"SmsGatewayUrl" tip:"SMS delivery gateway url"`
	APIKey          string `mapstructure:"ApiKey" tip:"Delivery gateway api key"`
	Sender          string `mapstructure:"Sender" tip:"Sender identity for emails and SMS"`
}

// Log holds runtime configurations
//
// Level: The minimum log level to show on logs. Values can be
//
//	 -4: Debug
//		0: Info
//		4: Warning
//		8: Error
//	 The default log level is debug
//
// Mode: Log mode is the format of the log. It can be text or json
// 1: JSON
// 2: Text
// The default log format is JSON
type Log struct {
	Level int `mapstructure:"Level" tip:"Minimum level to log: (-4:Debug, 0:Info, 4:Warning, 8:Error)"`
	Mode  int `mapstructure:"Mode" tip:"Log format (1: JSON, 2:Structured text)"`
}

// Sanitize perform some basic checks and sanitizations in the configuration.
// Returns true if config is acceptable, error otherwise.
func (c *Configuration) Sanitize() error {
	sUrl, err := c.validateServerUrl()
	if err != nil {
		return fmt.Errorf("serverUrl is not a valid URL <%s>: %w", c.ServerUrl, err)
	}
	c.ServerUrl = sUrl
	if c.VerifyBaseUrl == "" {
		c.VerifyBaseUrl = c.ServerUrl
	}
	return nil
}

func (c *Configuration) validateServerUrl() (string, error) {
	sUrl, err := url.ParseRequestURI(c.ServerUrl)
	if err != nil {
		return c.ServerUrl, err
	}
	if sUrl.Scheme == "" {
		return c.ServerUrl, fmt.Errorf("server URL must be an absolute URL")
	}
	sUrl.RawQuery = ""
	return strings.Trim(strings.Trim(sUrl.String(), "/"), "?"), nil
}

// Load loads the configuration from a file
func Load(fileName string) (*Configuration, error) {
	bindEnv()
	pathFlag := viper.GetString("config")
	if _, err := os.Stat(pathFlag); err == nil {
		ext := filepath.Ext(pathFlag)
		if len(ext) > 1 {
			ext = ext[1:]
		}
		name := strings.Split(filepath.Base(pathFlag), ".")[0]
		viper.AddConfigPath(".")
		viper.SetConfigName(name)
		viper.SetConfigType(ext)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(CIConfigPath)
		viper.SetConfigType("toml")
		if fileName == "" {
			viper.SetConfigName("config")
		} else {
			viper.SetConfigName(fileName)
		}
	}
	config := &Configuration{
		Database: Database{},
		Cache: Cache{
			Provider: "memory",
		},
		Log: Log{
			Level: log.LevelDebug,
			Mode:  log.OutputText,
		},
	}
	ctx := context.Background()
	if err := viper.ReadInConfig(); err != nil {
		log.Error(ctx, "error loading config file...", err)
	}
	if err := viper.Unmarshal(config); err != nil {
		log.Error(ctx, "error unmarshalling config file", err)
	}
	return config, nil
}

func bindEnv() {
	viper.SetEnvPrefix("PASSPROVE")
	_ = viper.BindEnv("ServerUrl", "PASSPROVE_SERVER_URL")
	_ = viper.BindEnv("ServerPort", "PASSPROVE_SERVER_PORT")
	_ = viper.BindEnv("VerifyBaseUrl", "PASSPROVE_VERIFY_BASE_URL")
	_ = viper.BindEnv("Database.Url", "PASSPROVE_DATABASE_URL")
	_ = viper.BindEnv("Cache.Provider", "PASSPROVE_CACHE_PROVIDER")
	_ = viper.BindEnv("Cache.Url", "PASSPROVE_CACHE_URL")
	_ = viper.BindEnv("Log.Level", "PASSPROVE_LOG_LEVEL")
	_ = viper.BindEnv("Log.Mode", "PASSPROVE_LOG_MODE")
	_ = viper.BindEnv("Pricing.SettingsPath", "PASSPROVE_PRICING_SETTINGS_PATH")
	_ = viper.BindEnv("Pricing.SettingsFile", "PASSPROVE_PRICING_SETTINGS_FILE")
	_ = viper.BindEnv("Providers.BankID.Url", "PASSPROVE_PROVIDERS_BANKID_URL")
	_ = viper.BindEnv("Providers.BankID.ApiKey", "PASSPROVE_PROVIDERS_BANKID_API_KEY")
	_ = viper.BindEnv("Providers.MojeID.Url", "PASSPROVE_PROVIDERS_MOJEID_URL")
	_ = viper.BindEnv("Providers.MojeID.ApiKey", "PASSPROVE_PROVIDERS_MOJEID_API_KEY")
	_ = viper.BindEnv("Providers.OCR.Url", "PASSPROVE_PROVIDERS_OCR_URL")
	_ = viper.BindEnv("Providers.OCR.ApiKey", "PASSPROVE_PROVIDERS_OCR_API_KEY")
	_ = viper.BindEnv("Providers.FaceScan.Url", "PASSPROVE_PROVIDERS_FACESCAN_URL")
	_ = viper.BindEnv("Providers.FaceScan.ApiKey", "PASSPROVE_PROVIDERS_FACESCAN_API_KEY")
	_ = viper.BindEnv("Notifications.EmailGatewayUrl", "PASSPROVE_NOTIFICATIONS_EMAIL_GATEWAY_URL")
	_ = viper.BindEnv("Notifications.SmsGatewayUrl", "PASSPROVE_NOTIFICATIONS_SMS_GATEWAY_URL")
	_ = viper.BindEnv("Notifications.ApiKey", "PASSPROVE_NOTIFICATIONS_API_KEY")
	_ = viper.BindEnv("Notifications.Sender", "PASSPROVE_NOTIFICATIONS_SENDER")
	viper.AutomaticEnv()
}
