package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording ledger and report metrics", func() {
			Convey("Then recording never panics", func() {
				So(func() {
					RecordEventLogged()
					RecordEventDeleted()
					RecordReportDuration("totals", 1.5)
					RecordPermissionDenied()
					RecordStoreError()
				}, ShouldNotPanic)
			})
		})

		Convey("When updating gauges", func() {
			Convey("Then updates never panic", func() {
				So(func() {
					UpdateTotalPlayers(15)
					UpdateTotalMetrics(12)
					UpdateTotalEvents(1000)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(8)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then labels are accepted", func() {
				So(func() {
					RecordHTTPRequest("events", "POST", "201")
					RecordHTTPRequestDuration("events", "POST", "201", 2.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When asking for the exposition handler", func() {
			Convey("Then a handler over the custom registry is returned", func() {
				So(Handler(), ShouldNotBeNil)
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
