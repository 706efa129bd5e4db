package config

import (
	"fmt"
	"os"
	"path"

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
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtIssuer string `yaml:"jwt_issuer" json:"jwt_issuer"`
}

// DBConfig database configuration
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

// GatewayConfig hosted checkout (Midtrans Snap) configuration
type GatewayConfig struct {
	ServerKey   string `yaml:"server_key" json:"server_key"`
	BaseURL     string `yaml:"base_url" json:"base_url"`
	FrontendURL string `yaml:"frontend_url" json:"frontend_url"`
	TimeoutSec  int    `yaml:"timeout_sec" json:"timeout_sec"`
}

// MailConfig SMTP configuration for outbound mail
type MailConfig struct {
	SmtpHost string `yaml:"smtp_host" json:"smtp_host"`
	SmtpPort int    `yaml:"smtp_port" json:"smtp_port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Gateway  GatewayConfig `yaml:"gateway" json:"gateway"`
	Mail     MailConfig    `yaml:"mail" json:"mail"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "KopiHub",
		Location: "Asia/Jakarta",
		Workdir:  "/var/kopihub",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0731-4bf1-xxxx-0f568ac9da37",
		JwtIssuer: "kopihub",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "kopihub_v1",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Gateway: GatewayConfig{
		ServerKey:   "",
		BaseURL:     "https://app.sandbox.midtrans.com",
		FrontendURL: "http://localhost:3000",
		TimeoutSec:  30,
	},
	Mail: MailConfig{
		SmtpHost: "127.0.0.1",
		SmtpPort: 25,
		From:     "noreply@kopihub.local",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/kopihub/kopihub.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	var v int64
	if _, err := fmt.Sscanf(evalue, "%d", &v); err == nil {
		f(v)
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// variable overrides. A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	appcfg := new(AppConfig)
	*appcfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, appcfg); err != nil {
				fmt.Fprintf(os.Stderr, "config parse error: %v\n", err)
			}
		}
	}

	setEnvValue("KOPIHUB_SYSTEM_WORKDIR", func(v string) { appcfg.System.Workdir = v })
	setEnvValue("KOPIHUB_SYSTEM_DEBUG", func(v string) { appcfg.System.Debug = v == "true" })
	setEnvValue("KOPIHUB_WEB_HOST", func(v string) { appcfg.Web.Host = v })
	setEnvInt64Value("KOPIHUB_WEB_PORT", func(v int64) { appcfg.Web.Port = int(v) })
	setEnvValue("KOPIHUB_WEB_SECRET", func(v string) { appcfg.Web.Secret = v })
	setEnvValue("KOPIHUB_DB_HOST", func(v string) { appcfg.Database.Host = v })
	setEnvInt64Value("KOPIHUB_DB_PORT", func(v int64) { appcfg.Database.Port = int(v) })
	setEnvValue("KOPIHUB_DB_NAME", func(v string) { appcfg.Database.Name = v })
	setEnvValue("KOPIHUB_DB_USER", func(v string) { appcfg.Database.User = v })
	setEnvValue("KOPIHUB_DB_PWD", func(v string) { appcfg.Database.Passwd = v })
	setEnvValue("KOPIHUB_GATEWAY_SERVER_KEY", func(v string) { appcfg.Gateway.ServerKey = v })
	setEnvValue("KOPIHUB_GATEWAY_BASE_URL", func(v string) { appcfg.Gateway.BaseURL = v })
	setEnvValue("KOPIHUB_FRONTEND_URL", func(v string) { appcfg.Gateway.FrontendURL = v })
	setEnvValue("KOPIHUB_SMTP_HOST", func(v string) { appcfg.Mail.SmtpHost = v })
	setEnvInt64Value("KOPIHUB_SMTP_PORT", func(v int64) { appcfg.Mail.SmtpPort = int(v) })
	setEnvValue("KOPIHUB_SMTP_USER", func(v string) { appcfg.Mail.Username = v })
	setEnvValue("KOPIHUB_SMTP_PWD", func(v string) { appcfg.Mail.Password = v })
	setEnvValue("KOPIHUB_LOGGER_MODE", func(v string) { appcfg.Logger.Mode = v })

	return appcfg
}
