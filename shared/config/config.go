package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds non-secret settings (public.yaml). Durations use Go syntax, e.g. "5m".
type Public struct {
	ApiPrefix string `yaml:"api_prefix"`
	HttpPort  int    `yaml:"http_port"`
	LogLevel  string `yaml:"log_level"`
	LogJSON   bool   `yaml:"log_json"`

	JwtTTL     time.Duration `yaml:"jwt_ttl" validate:"required"`
	OtpTTL     time.Duration `yaml:"otp_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost" validate:"omitempty,min=4,max=31"`

	DefaultRole         string   `yaml:"default_role" validate:"omitempty,oneof=Admin Member"`
	RestrictAdminSignup bool     `yaml:"restrict_admin_signup"` // if set, only AdminEmails may self-register as Admin
	AdminEmails         []string `yaml:"admin_emails"`

	OtpStore             string        `yaml:"otp_store" validate:"omitempty,oneof=postgres redis"`
	OtpSweepInterval     time.Duration `yaml:"otp_sweep_interval"`
	VerifyAttemptsLimit  int           `yaml:"verify_attempts_limit"` // 0 disables the redis attempt limiter
	VerifyAttemptsWindow time.Duration `yaml:"verify_attempts_window"`

	MailTransport string        `yaml:"mail_transport" validate:"omitempty,oneof=smtp sendgrid log"`
	MailTimeout   time.Duration `yaml:"mail_timeout"`

	ObjectStorage         string   `yaml:"object_storage" validate:"omitempty,oneof=fs s3"`
	MediaPath             string   `yaml:"media_path"`
	MediaBaseURL          string   `yaml:"media_base_url"`
	MaxImageSize          int64    `yaml:"max_image_size"`
	AllowedImageMimeTypes []string `yaml:"allowed_image_mime_types"`

	ContentDir        string `yaml:"content_dir"`
	RandomImagesLimit int    `yaml:"random_images_limit"`

	CorsAllowedOrigins []string `yaml:"cors_allowed_origins"`
	SecureCookies      bool     `yaml:"secure_cookies"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
	SSLMode  string `yaml:"sslmode"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Email struct {
	SMTPServer string        `yaml:"smtp_server"`
	SMTPPort   int           `yaml:"smtp_port"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	SenderName string        `yaml:"sender_name"`
	Timeout    time.Duration `yaml:"timeout"`
}

type SendGrid struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	BaseURL   string `yaml:"base_url"` // override for tests and regional hosts
}

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// Private holds secrets (private.yaml).
type Private struct {
	Pg       Pg       `yaml:"pg"`
	Redis    Redis    `yaml:"redis"`
	JwtKey   string   `yaml:"jwt_key" validate:"required"`
	Email    Email    `yaml:"email"`
	SendGrid SendGrid `yaml:"sendgrid"`
	S3       S3       `yaml:"s3"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

// IsAdminEmail reports whether email is allowed to self-register as Admin
// when admin signup is restricted.
func (p *Public) IsAdminEmail(email string) bool {
	for _, e := range p.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

func (p *Public) applyDefaults() {
	if p.ApiPrefix == "" {
		p.ApiPrefix = "/api"
	}
	if p.HttpPort == 0 {
		p.HttpPort = 8080
	}
	if p.OtpTTL == 0 {
		p.OtpTTL = 5 * time.Minute
	}
	if p.BcryptCost == 0 {
		p.BcryptCost = 10
	}
	if p.DefaultRole == "" {
		p.DefaultRole = "Admin"
	}
	if p.OtpStore == "" {
		p.OtpStore = "postgres"
	}
	if p.OtpSweepInterval == 0 {
		p.OtpSweepInterval = 10 * time.Minute
	}
	if p.VerifyAttemptsWindow == 0 {
		p.VerifyAttemptsWindow = 10 * time.Minute
	}
	if p.MailTransport == "" {
		p.MailTransport = "smtp"
	}
	if p.MailTimeout == 0 {
		p.MailTimeout = 10 * time.Second
	}
	if p.ObjectStorage == "" {
		p.ObjectStorage = "fs"
	}
	if p.MediaPath == "" {
		p.MediaPath = "media"
	}
	if p.MediaBaseURL == "" {
		p.MediaBaseURL = "/media"
	}
	if p.MaxImageSize == 0 {
		p.MaxImageSize = 5 << 20
	}
	if len(p.AllowedImageMimeTypes) == 0 {
		p.AllowedImageMimeTypes = []string{"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp"}
	}
	if p.ContentDir == "" {
		p.ContentDir = "data"
	}
	if p.RandomImagesLimit == 0 {
		p.RandomImagesLimit = 36
	}
}

// validate checks the settings that depend on which backend is selected.
func (c *Config) validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c.Public); err != nil {
		return err
	}
	if err := v.Struct(c.Private); err != nil {
		return err
	}

	if c.Public.OtpStore == "redis" || c.Public.VerifyAttemptsLimit > 0 {
		if c.Private.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for otp_store=%s, verify_attempts_limit=%d", c.Public.OtpStore, c.Public.VerifyAttemptsLimit)
		}
	}
	switch c.Public.MailTransport {
	case "smtp":
		if c.Private.Email.SMTPServer == "" || c.Private.Email.SMTPPort == 0 || c.Private.Email.Username == "" {
			return fmt.Errorf("email.smtp_server, email.smtp_port and email.username are required for smtp transport")
		}
	case "sendgrid":
		if c.Private.SendGrid.APIKey == "" || c.Private.SendGrid.FromEmail == "" {
			return fmt.Errorf("sendgrid.api_key and sendgrid.from_email are required for sendgrid transport")
		}
	}
	if c.Public.ObjectStorage == "s3" && (c.Private.S3.Bucket == "" || c.Private.S3.Region == "") {
		return fmt.Errorf("s3.bucket and s3.region are required for s3 object storage")
	}
	return nil
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file " + configPath + ": " + err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.applyDefaults()

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	if err := cfg.validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
