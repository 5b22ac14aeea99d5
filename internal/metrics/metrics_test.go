package metrics_test

import (
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/angeloszaimis/dns-failover/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("NewMetrics", func() {
		It("should start with an empty snapshot", func() {
			snap := m.Snapshot()
			Expect(snap.Cycles).To(BeZero())
			Expect(snap.Records).To(BeEmpty())
		})

		It("should register its collectors in a private registry", func() {
			m.RecordCycle(time.Now())
			families, err := m.Registry().Gather()
			Expect(err).NotTo(HaveOccurred())
			Expect(families).NotTo(BeEmpty())
		})
	})

	Describe("RecordCheckFailure", func() {
		It("should count failures per record, check and kind", func() {
			m.RecordCheckFailure("www.example.com", "web", "status", "unexpected status 503")
			m.RecordCheckFailure("www.example.com", "web", "status", "unexpected status 502")

			count, err := testutil.GatherAndCount(m.Registry(), "dnsfailover_check_failures_total")
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
			Expect(m.Snapshot().Records["www.example.com"].LastFailure).To(Equal("web: unexpected status 502"))
		})
	})

	Describe("SetConsecutiveFailures", func() {
		It("should track the latest count", func() {
			m.SetConsecutiveFailures("www.example.com", 2)
			Expect(m.Snapshot().Records["www.example.com"].ConsecutiveFailures).To(Equal(2))

			m.SetConsecutiveFailures("www.example.com", 0)
			Expect(m.Snapshot().Records["www.example.com"].ConsecutiveFailures).To(Equal(0))
		})
	})

	Describe("RecordSwitch", func() {
		It("should record the switch and clear the failure count", func() {
			at := time.Now()
			m.SetConsecutiveFailures("svc.example.com", 3)
			m.RecordSwitch("svc.example.com", "A 1.2.3.4", "A 5.6.7.8", at)

			rs := m.Snapshot().Records["svc.example.com"]
			Expect(rs.Switches).To(Equal(int64(1)))
			Expect(rs.ConsecutiveFailures).To(BeZero())
			Expect(rs.LastSwitch).NotTo(BeNil())
			Expect(rs.LastSwitch.From).To(Equal("A 1.2.3.4"))
			Expect(rs.LastSwitch.To).To(Equal("A 5.6.7.8"))
			Expect(rs.LastSwitch.At).To(Equal(at))
		})
	})

	Describe("RecordSkip and RecordError", func() {
		It("should remember the last reason", func() {
			m.RecordSkip("svc.example.com", metrics.SkipNoCandidate)
			m.RecordError("svc.example.com", errors.New("api unavailable"))

			rs := m.Snapshot().Records["svc.example.com"]
			Expect(rs.LastSkip).To(Equal(metrics.SkipNoCandidate))
			Expect(rs.LastError).To(Equal("api unavailable"))
		})
	})

	Describe("Snapshot", func() {
		It("should list names in sorted order", func() {
			m.SetConsecutiveFailures("b.example.com", 1)
			m.SetConsecutiveFailures("a.example.com", 1)

			Expect(m.Snapshot().Names).To(Equal([]string{"a.example.com", "b.example.com"}))
		})

		It("should expose cycle counts in the exposition format", func() {
			m.RecordCycle(time.Now())
			m.RecordCycle(time.Now())

			expected := `
# HELP dnsfailover_cycles_total Completed evaluation cycles
# TYPE dnsfailover_cycles_total counter
dnsfailover_cycles_total 2
`
			err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "dnsfailover_cycles_total")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Snapshot().Cycles).To(Equal(int64(2)))
		})
	})
})
