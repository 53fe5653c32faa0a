package config

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host          string        `yaml:"host" json:"host"`
	Port          int           `yaml:"port" json:"port"`
	SessionSecret string        `yaml:"session_secret" json:"-"`
	SessionIdle   time.Duration `yaml:"session_idle" json:"session_idle"`
}

// GatewayConfig describes the remote pharmacy API.
// Headers are sent with every request; authentication tokens issued
// upstream are injected here.
type GatewayConfig struct {
	BaseURL string            `yaml:"base_url" json:"base_url"`
	Timeout time.Duration     `yaml:"timeout" json:"timeout"`
	Headers map[string]string `yaml:"headers" json:"-"`
	Debug   bool              `yaml:"debug" json:"debug"`
}

// CacheConfig shared catalog cache
type CacheConfig struct {
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	WarmCron string        `yaml:"warm_cron" json:"warm_cron"`
}

// LogConfig logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System  SysConfig     `yaml:"system" json:"system"`
	Web     WebConfig     `yaml:"web" json:"web"`
	Gateway GatewayConfig `yaml:"gateway" json:"gateway"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Logger  LogConfig     `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o700)
}

// WebListenAddr host:port the console listens on
func (c *AppConfig) WebListenAddr() string {
	return c.Web.Host + ":" + cast.ToString(c.Web.Port)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "PharmaDesk",
		Location: "Asia/Kolkata",
		Workdir:  "/var/pharmadesk",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1818,
		SessionSecret: "9b6de5cc-0731-4bf1-8c2e-2f34b8e6b1ad",
		SessionIdle:   30 * time.Minute,
	},
	Gateway: GatewayConfig{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 10 * time.Second,
		Headers: map[string]string{},
	},
	Cache: CacheConfig{
		TTL:      2 * time.Minute,
		WarmCron: "@every 5m",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/pharmadesk/logs/pharmadesk.log",
	},
}

// LoadConfig reads cfile (when present) over the defaults, then applies
// environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := *DefaultAppConfig
	cfg.Gateway.Headers = map[string]string{}
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("PHARMADESK_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("PHARMADESK_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("PHARMADESK_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("PHARMADESK_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("PHARMADESK_WEB_PORT", &cfg.Web.Port)
	setEnvValue("PHARMADESK_WEB_SECRET", &cfg.Web.SessionSecret)
	setEnvDurationValue("PHARMADESK_WEB_SESSION_IDLE", &cfg.Web.SessionIdle)

	setEnvValue("PHARMADESK_GATEWAY_URL", &cfg.Gateway.BaseURL)
	setEnvDurationValue("PHARMADESK_GATEWAY_TIMEOUT", &cfg.Gateway.Timeout)
	setEnvBoolValue("PHARMADESK_GATEWAY_DEBUG", &cfg.Gateway.Debug)
	if token := os.Getenv("PHARMADESK_GATEWAY_AUTHORIZATION"); token != "" {
		cfg.Gateway.Headers["Authorization"] = token
	}

	setEnvDurationValue("PHARMADESK_CACHE_TTL", &cfg.Cache.TTL)
	setEnvValue("PHARMADESK_CACHE_WARM_CRON", &cfg.Cache.WarmCron)

	setEnvValue("PHARMADESK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("PHARMADESK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("PHARMADESK_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.Gateway.BaseURL = strings.TrimRight(cfg.Gateway.BaseURL, "/")
	cfg.initDirs()
	return &cfg
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := cast.ToIntE(evalue); err == nil {
		*val = p
	}
}

func setEnvDurationValue(name string, val *time.Duration) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if d, err := cast.ToDurationE(evalue); err == nil {
		*val = d
	}
}
