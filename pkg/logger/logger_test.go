package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dns-failover/pkg/logger"
)

var _ = Describe("Logger", func() {
	ctx := context.Background()

	Describe("New", func() {
		It("should create a logger", func() {
			Expect(logger.New("info", false, "dev")).NotTo(BeNil())
		})

		It("should default to info for invalid level", func() {
			log := logger.New("invalid", false, "dev")
			Expect(log.Enabled(ctx, slog.LevelInfo)).To(BeTrue())
			Expect(log.Enabled(ctx, slog.LevelDebug)).To(BeFalse())
		})
	})

	DescribeTable("level filtering",
		func(level string, enabled, disabled slog.Level) {
			log := logger.NewWithWriter(&bytes.Buffer{}, level, false, "dev")
			Expect(log.Enabled(ctx, enabled)).To(BeTrue())
			Expect(log.Enabled(ctx, disabled)).To(BeFalse())
		},
		Entry("debug", "debug", slog.LevelDebug, slog.Level(-8)),
		Entry("info", "info", slog.LevelInfo, slog.LevelDebug),
		Entry("warn", "warn", slog.LevelWarn, slog.LevelInfo),
		Entry("warning alias", "WARNING", slog.LevelWarn, slog.LevelInfo),
		Entry("error", "error", slog.LevelError, slog.LevelWarn),
	)

	Describe("NewWithWriter", func() {
		It("should write JSON in prod with service and environment", func() {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&buf, "info", false, "prod")
			log.Info("Changed DNS record", slog.String("name", "www.example.com"))

			var line map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &line)).To(Succeed())
			Expect(line).To(HaveKeyWithValue("msg", "Changed DNS record"))
			Expect(line).To(HaveKeyWithValue("service", "dnsfailover"))
			Expect(line).To(HaveKeyWithValue("environment", "prod"))
			Expect(line).To(HaveKeyWithValue("name", "www.example.com"))
		})

		It("should write text outside prod", func() {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&buf, "info", false, "staging")
			log.Warn("no zone")

			Expect(buf.String()).To(ContainSubstring("level=WARN"))
			Expect(buf.String()).To(ContainSubstring(`msg="no zone"`))
			Expect(buf.String()).To(ContainSubstring("environment=staging"))
		})

		It("should add the source location when asked", func() {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&buf, "info", true, "dev")
			log.Info("hello")

			Expect(buf.String()).To(ContainSubstring("source="))
		})
	})
})
