package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/miekg/dns"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/dns-failover/internal/healthcheck"
	"github.com/angeloszaimis/dns-failover/internal/record"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	CheckWeb    = "web"
	CheckPing   = "ping"
	CheckTCP    = "tcp"
	CheckTCPing = "tcping"
)

type CloudflareConfig struct {
	Token string `mapstructure:"token" yaml:"token"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// CheckConfig is the union of every check variant's settings; Type picks
// which fields apply.
type CheckConfig struct {
	Type          string   `mapstructure:"type" yaml:"type"`
	Target        string   `mapstructure:"target" yaml:"target,omitempty"`
	Timeout       float64  `mapstructure:"timeout" yaml:"timeout,omitempty"`
	Status        string   `mapstructure:"status" yaml:"status,omitempty"`
	Regex         []string `mapstructure:"regex" yaml:"regex,omitempty"`
	LossThreshold *float64 `mapstructure:"loss_threshold" yaml:"loss_threshold,omitempty"`
	Privileged    bool     `mapstructure:"privileged" yaml:"privileged,omitempty"`
	Port          int      `mapstructure:"port" yaml:"port,omitempty"`
}

type PoolConfig struct {
	Type    string `mapstructure:"type" yaml:"type"`
	Content string `mapstructure:"content" yaml:"content"`
	Proxied bool   `mapstructure:"proxied" yaml:"proxied"`
}

type RecordConfig struct {
	Domain    string        `mapstructure:"domain" yaml:"domain"`
	Subdomain string        `mapstructure:"subdomain" yaml:"subdomain"`
	Checks    []CheckConfig `mapstructure:"checks" yaml:"checks"`
	Pool      []PoolConfig  `mapstructure:"pool" yaml:"pool"`
}

type Config struct {
	Cloudflare  CloudflareConfig `mapstructure:"cloudflare" yaml:"cloudflare"`
	Debug       bool             `mapstructure:"debug" yaml:"debug"`
	Interval    float64          `mapstructure:"interval" yaml:"interval"`
	// Retries is handed to the Cloudflare client as its per-call retry
	// policy. Any value above zero means a failed API call is repeated
	// within the same cycle; 0 keeps one attempt per call.
	Retries     int              `mapstructure:"retries" yaml:"retries"`
	Environment string           `mapstructure:"environment" yaml:"environment"`
	Logging     LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Metrics     MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
	Records     []RecordConfig   `mapstructure:"records" yaml:"records"`
}

// Load reads the configuration from path, or from config.yml/config.yaml
// in ./config or the working directory when path is empty. Environment
// variables override file values (cloudflare.token -> CLOUDFLARE_TOKEN).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", EnvDev)
	v.SetDefault("interval", 60)
	v.SetDefault("retries", 0)
	v.SetDefault("debug", false)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("metrics.address", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("cloudflare.token"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Warn("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// PollInterval converts the configured seconds into a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

// LogLevel is debug when the debug flag is set, the configured level
// otherwise.
func (c *Config) LogLevel() string {
	if c.Debug {
		return LogLevelDebug
	}
	return c.Logging.Level
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.Cloudflare.Token != "" {
		out.Cloudflare.Token = "<redacted>"
	}
	return out
}

// RecordSpecs builds the immutable record.Spec values, applying
// per-variant defaults and compiling patterns.
func (c *Config) RecordSpecs() ([]record.Spec, error) {
	specs := make([]record.Spec, 0, len(c.Records))

	for i, rc := range c.Records {
		spec := record.Spec{
			Domain:    rc.Domain,
			Subdomain: rc.Subdomain,
			Checks:    make([]healthcheck.Check, 0, len(rc.Checks)),
			Pool:      make([]record.PoolEntry, 0, len(rc.Pool)),
		}

		for j, cc := range rc.Checks {
			check, err := cc.Build()
			if err != nil {
				return nil, fmt.Errorf("records[%d].checks[%d]: %w", i, j, err)
			}
			spec.Checks = append(spec.Checks, check)
		}

		for _, pc := range rc.Pool {
			spec.Pool = append(spec.Pool, record.PoolEntry{
				Type:    strings.ToUpper(strings.TrimSpace(pc.Type)),
				Content: pc.Content,
				Proxied: pc.Proxied,
			})
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// Build turns the settings into a check. Unknown types are an error.
func (cc CheckConfig) Build() (healthcheck.Check, error) {
	timeout := time.Duration(cc.Timeout * float64(time.Second))

	switch strings.ToLower(cc.Type) {
	case CheckWeb:
		web, err := healthcheck.NewWeb(cc.Target, timeout, cc.Status, cc.Regex)
		if err != nil {
			return nil, err
		}
		return web, nil
	case CheckPing:
		threshold := healthcheck.DefaultLossThreshold
		if cc.LossThreshold != nil {
			threshold = *cc.LossThreshold
		}
		return healthcheck.NewPing(cc.Target, threshold, cc.Privileged), nil
	case CheckTCP, CheckTCPing:
		return healthcheck.NewTCPConnect(cc.Target, cc.Port, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported check type %q", cc.Type)
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Cloudflare,
			validation.Required,
			validation.By(func(value interface{}) error {
				cc, ok := value.(CloudflareConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a CloudflareConfig")
				}
				return validation.ValidateStruct(&cc,
					validation.Field(&cc.Token, validation.Required),
				)
			}),
		),
		validation.Field(&c.Interval,
			validation.Required,
			validation.Min(0.0).Exclusive(),
		),
		validation.Field(&c.Retries,
			validation.Min(0),
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Metrics,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.Address,
						validation.When(mc.Address != "", validation.By(validateHostPort)),
					),
				)
			}),
		),
		validation.Field(&c.Records,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateRecordConfig)),
		),
	)
}

func validateRecordConfig(value interface{}) error {
	rc, ok := value.(RecordConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a RecordConfig")
	}

	return validation.ValidateStruct(&rc,
		validation.Field(&rc.Domain,
			validation.Required,
			validation.By(validateDomainName),
		),
		validation.Field(&rc.Subdomain,
			validation.Required,
			validation.By(validateSubdomain),
		),
		validation.Field(&rc.Checks,
			validation.Each(validation.By(validateCheckConfig)),
		),
		validation.Field(&rc.Pool,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validatePoolConfig)),
		),
	)
}

func validateCheckConfig(value interface{}) error {
	cc, ok := value.(CheckConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a CheckConfig")
	}

	kind := strings.ToLower(cc.Type)

	return validation.ValidateStruct(&cc,
		validation.Field(&cc.Type,
			validation.Required,
			validation.By(func(interface{}) error {
				switch kind {
				case CheckWeb, CheckPing, CheckTCP, CheckTCPing:
					return nil
				}
				return validation.NewError("validation_invalid_check_type", "must be one of web, ping, tcp")
			}),
		),
		validation.Field(&cc.Target,
			validation.When(kind == CheckWeb && cc.Target != "", validation.By(validateServerURL)),
		),
		validation.Field(&cc.Timeout,
			validation.Min(0.0),
		),
		validation.Field(&cc.LossThreshold,
			validation.Min(0.0),
			validation.Max(1.0),
		),
		validation.Field(&cc.Port,
			validation.Min(0),
			validation.Max(65535),
		),
		validation.Field(&cc.Regex,
			validation.Each(validation.By(validateRegex)),
		),
	)
}

func validatePoolConfig(value interface{}) error {
	pc, ok := value.(PoolConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a PoolConfig")
	}

	recordType := strings.ToUpper(strings.TrimSpace(pc.Type))

	var contentRule validation.Rule
	switch recordType {
	case record.TypeA:
		contentRule = is.IPv4
	case record.TypeAAAA:
		contentRule = is.IPv6
	case record.TypeCNAME:
		contentRule = validation.By(validateDomainName)
	default:
		return validation.NewError("validation_invalid_record_type", "type must be one of CNAME, A, AAAA")
	}

	return validation.ValidateStruct(&pc,
		validation.Field(&pc.Content,
			validation.Required,
			contentRule,
		),
	)
}

func validateDomainName(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, ok := dns.IsDomainName(strings.Trim(name, ".")); !ok {
		return validation.NewError("validation_invalid_domain", "must be a valid domain name")
	}

	return nil
}

func validateSubdomain(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if name == "@" {
		return nil
	}

	return validateDomainName(name)
}

func validateRegex(value interface{}) error {
	pattern, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := regexp.Compile(pattern); err != nil {
		return validation.NewError("validation_invalid_regex", "must be a valid regular expression")
	}

	return nil
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateServerURL(value interface{}) error {
	serverURL, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(serverURL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
