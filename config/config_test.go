package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dns-failover/config"
	"github.com/angeloszaimis/dns-failover/internal/healthcheck"
	"github.com/angeloszaimis/dns-failover/internal/record"
)

const validConfig = `
cloudflare:
  token: "secret-token"
interval: 30
retries: 2
environment: "prod"
logging:
  level: "warn"
metrics:
  address: "127.0.0.1:9090"
records:
  - domain: "example.com"
    subdomain: "www"
    checks:
      - type: "web"
        target: "https://www.example.com/health"
        timeout: 5
        status: "200-299,301"
        regex: ["ok", "healthy"]
      - type: "ping"
        loss_threshold: 0.5
      - type: "tcping"
        port: 443
    pool:
      - type: "a"
        content: "1.2.3.4"
        proxied: true
      - type: "CNAME"
        content: "backup.example.net"
  - domain: "example.org"
    subdomain: "@"
    checks: []
    pool:
      - type: "AAAA"
        content: "2001:db8::1"
`

var _ = Describe("Config", func() {
	var tempDir string

	writeConfig := func(content string) string {
		path := filepath.Join(tempDir, "config.yaml")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
		os.Unsetenv("CLOUDFLARE_TOKEN")
	})

	Describe("Load", func() {
		Context("with valid config file", func() {
			var cfg *config.Config

			BeforeEach(func() {
				var err error
				cfg, err = config.Load(writeConfig(validConfig))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should parse top level settings", func() {
				Expect(cfg.Cloudflare.Token).To(Equal("secret-token"))
				Expect(cfg.Retries).To(Equal(2))
				Expect(cfg.Environment).To(Equal(config.EnvProd))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelWarn))
				Expect(cfg.Metrics.Address).To(Equal("127.0.0.1:9090"))
				Expect(cfg.PollInterval()).To(Equal(30 * time.Second))
			})

			It("should parse records", func() {
				Expect(cfg.Records).To(HaveLen(2))
				Expect(cfg.Records[0].Checks).To(HaveLen(3))
				Expect(cfg.Records[0].Checks[0].Regex).To(Equal([]string{"ok", "healthy"}))
				Expect(cfg.Records[0].Checks[1].LossThreshold).To(HaveValue(Equal(0.5)))
				Expect(cfg.Records[0].Pool[0].Proxied).To(BeTrue())
			})
		})

		Context("with a minimal config file", func() {
			It("should apply defaults", func() {
				cfg, err := config.Load(writeConfig(`
cloudflare:
  token: "t"
records:
  - domain: "example.com"
    subdomain: "www"
    pool:
      - type: "A"
        content: "1.2.3.4"
`))
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.PollInterval()).To(Equal(60 * time.Second))
				Expect(cfg.Retries).To(BeZero())
				Expect(cfg.Environment).To(Equal(config.EnvDev))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
				Expect(cfg.Metrics.Address).To(BeEmpty())
			})
		})

		Context("with environment variables", func() {
			It("should take the token from CLOUDFLARE_TOKEN", func() {
				Expect(os.Setenv("CLOUDFLARE_TOKEN", "env-token")).To(Succeed())

				cfg, err := config.Load(writeConfig(`
records:
  - domain: "example.com"
    subdomain: "www"
    pool:
      - type: "A"
        content: "1.2.3.4"
`))
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Cloudflare.Token).To(Equal("env-token"))
			})
		})

		Context("with an invalid config file", func() {
			DescribeTable("should reject",
				func(content string) {
					_, err := config.Load(writeConfig(content))
					Expect(err).To(HaveOccurred())
				},
				Entry("missing token", `
records:
  - domain: "example.com"
    subdomain: "www"
    pool: [{type: A, content: 1.2.3.4}]
`),
				Entry("no records", `
cloudflare: {token: t}
`),
				Entry("unknown check type", `
cloudflare: {token: t}
records:
  - domain: "example.com"
    subdomain: "www"
    checks: [{type: dns}]
    pool: [{type: A, content: 1.2.3.4}]
`),
				Entry("invalid regex", `
cloudflare: {token: t}
records:
  - domain: "example.com"
    subdomain: "www"
    checks: [{type: web, regex: ["("]}]
    pool: [{type: A, content: 1.2.3.4}]
`),
				Entry("A record with an IPv6 address", `
cloudflare: {token: t}
records:
  - domain: "example.com"
    subdomain: "www"
    pool: [{type: A, content: "2001:db8::1"}]
`),
				Entry("unsupported pool type", `
cloudflare: {token: t}
records:
  - domain: "example.com"
    subdomain: "www"
    pool: [{type: MX, content: mail.example.com}]
`),
				Entry("negative interval", `
cloudflare: {token: t}
interval: -1
records:
  - domain: "example.com"
    subdomain: "www"
    pool: [{type: A, content: 1.2.3.4}]
`),
				Entry("loss threshold above one", `
cloudflare: {token: t}
records:
  - domain: "example.com"
    subdomain: "www"
    checks: [{type: ping, loss_threshold: 1.5}]
    pool: [{type: A, content: 1.2.3.4}]
`),
				Entry("metrics address without port", `
cloudflare: {token: t}
metrics: {address: "localhost"}
records:
  - domain: "example.com"
    subdomain: "www"
    pool: [{type: A, content: 1.2.3.4}]
`),
				Entry("bad environment", `
cloudflare: {token: t}
environment: "qa"
records:
  - domain: "example.com"
    subdomain: "www"
    pool: [{type: A, content: 1.2.3.4}]
`),
			)
		})

		It("should fail on a missing explicit path", func() {
			_, err := config.Load(filepath.Join(tempDir, "nope.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RecordSpecs", func() {
		It("should build checks and normalize pool types", func() {
			cfg, err := config.Load(writeConfig(validConfig))
			Expect(err).NotTo(HaveOccurred())

			specs, err := cfg.RecordSpecs()
			Expect(err).NotTo(HaveOccurred())
			Expect(specs).To(HaveLen(2))

			www := specs[0]
			Expect(www.Name()).To(Equal("www.example.com"))
			Expect(www.Checks).To(HaveLen(3))

			web, ok := www.Checks[0].(*healthcheck.Web)
			Expect(ok).To(BeTrue())
			Expect(web.Timeout).To(Equal(5 * time.Second))
			Expect(web.Status).To(Equal("200-299,301"))
			Expect(web.Regex).To(HaveLen(2))

			ping, ok := www.Checks[1].(*healthcheck.Ping)
			Expect(ok).To(BeTrue())
			Expect(ping.LossThreshold).To(Equal(0.5))

			tcp, ok := www.Checks[2].(*healthcheck.TCPConnect)
			Expect(ok).To(BeTrue())
			Expect(tcp.Port).To(Equal(443))
			Expect(tcp.Timeout).To(Equal(healthcheck.DefaultTCPTimeout))

			Expect(www.Pool).To(Equal([]record.PoolEntry{
				{Type: record.TypeA, Content: "1.2.3.4", Proxied: true},
				{Type: record.TypeCNAME, Content: "backup.example.net"},
			}))

			Expect(specs[1].Name()).To(Equal("example.org"))
			Expect(specs[1].Checks).To(BeEmpty())
		})

		It("should honour an explicit zero loss threshold from the file", func() {
			cfg, err := config.Load(writeConfig(`
cloudflare: {token: t}
records:
  - domain: "example.com"
    subdomain: "www"
    checks:
      - {type: ping, loss_threshold: 0}
      - {type: ping}
    pool: [{type: A, content: 1.2.3.4}]
`))
			Expect(err).NotTo(HaveOccurred())

			specs, err := cfg.RecordSpecs()
			Expect(err).NotTo(HaveOccurred())
			Expect(specs[0].Checks[0].(*healthcheck.Ping).LossThreshold).To(BeZero())
			Expect(specs[0].Checks[1].(*healthcheck.Ping).LossThreshold).To(Equal(healthcheck.DefaultLossThreshold))
		})
	})

	Describe("CheckConfig.Build", func() {
		It("should default web checks", func() {
			check, err := config.CheckConfig{Type: "WEB"}.Build()
			Expect(err).NotTo(HaveOccurred())

			web := check.(*healthcheck.Web)
			Expect(web.Timeout).To(Equal(healthcheck.DefaultWebTimeout))
			Expect(web.Status).To(Equal(healthcheck.DefaultStatus))
		})

		It("should default ping checks", func() {
			check, err := config.CheckConfig{Type: "ping"}.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(check.(*healthcheck.Ping).LossThreshold).To(Equal(healthcheck.DefaultLossThreshold))
		})

		It("should keep an explicit zero loss threshold", func() {
			zero := 0.0
			check, err := config.CheckConfig{Type: "ping", LossThreshold: &zero}.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(check.(*healthcheck.Ping).LossThreshold).To(BeZero())
		})

		It("should reject unknown types", func() {
			check, err := config.CheckConfig{Type: "dns"}.Build()
			Expect(err).To(HaveOccurred())
			Expect(check).To(BeNil())
		})

		It("should reject bad patterns", func() {
			check, err := config.CheckConfig{Type: "web", Regex: []string{"[a-"}}.Build()
			Expect(err).To(HaveOccurred())
			Expect(check).To(BeNil())
		})
	})

	Describe("helpers", func() {
		It("should redact the token", func() {
			cfg := &config.Config{Cloudflare: config.CloudflareConfig{Token: "secret"}}
			Expect(cfg.Redacted().Cloudflare.Token).To(Equal("<redacted>"))
			Expect(cfg.Cloudflare.Token).To(Equal("secret"))
		})

		It("should force debug level when debug is set", func() {
			cfg := &config.Config{Logging: config.LoggingConfig{Level: config.LogLevelError}}
			Expect(cfg.LogLevel()).To(Equal(config.LogLevelError))

			cfg.Debug = true
			Expect(cfg.LogLevel()).To(Equal(config.LogLevelDebug))
		})

		It("should convert fractional intervals", func() {
			cfg := &config.Config{Interval: 1.5}
			Expect(cfg.PollInterval()).To(Equal(1500 * time.Millisecond))
		})
	})
})
