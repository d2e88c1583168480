package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets yaml carry values like "20m" or "168h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type AuthConfig struct {
	JWTSecret    string   `yaml:"jwt_secret"`
	SessionTTL   Duration `yaml:"session_ttl"`
	TokenTTL     Duration `yaml:"token_ttl"`
	BcryptCost   int      `yaml:"bcrypt_cost"`
	CookieName   string   `yaml:"cookie_name"`
	CookieSecure bool     `yaml:"cookie_secure"`
	CookieDomain string   `yaml:"cookie_domain"`
}

type MailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	ProductName  string `yaml:"product_name"`
	ProductLink  string `yaml:"product_link"`
}

type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`
	Database struct {
		DSN           string `yaml:"url"`
		MigrationsDir string `yaml:"migrations_dir"`
	} `yaml:"database"`
	Auth AuthConfig `yaml:"auth"`
	Mail MailConfig `yaml:"mail"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg
}

// applyEnv lets secrets come from the environment so config.yaml can stay committed.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Mail.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Mail.SMTPPort = p
		}
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.Mail.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Mail.SMTPPassword = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = Duration(7 * 24 * time.Hour)
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = Duration(20 * time.Minute)
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "access_token"
	}
	if c.Database.MigrationsDir == "" {
		c.Database.MigrationsDir = "migrations"
	}
	if c.Mail.ProductName == "" {
		c.Mail.ProductName = "CodeDrill"
	}
	if c.Mail.ProductLink == "" {
		c.Mail.ProductLink = "https://codedrill.unknownbug.tech/"
	}
}
