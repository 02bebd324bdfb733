package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feeledger_payments_recorded_total",
		Help: "Payments committed through the allocation engine.",
	})
	OverflowRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feeledger_payment_overflow_rejected_total",
		Help: "Payments rejected because they exceeded the outstanding balance.",
	})
	DiscountsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feeledger_discounts_applied_total",
		Help: "Discounts applied to fee records.",
	})
	CarryForwardsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feeledger_carry_forwards_applied_total",
		Help: "Balances carried forward into a new academic year.",
	})
	BlocksToggled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feeledger_payment_blocks_toggled_total",
		Help: "Fee records blocked or unblocked by the previous-year dues policy.",
	})
)

// Serve exposes /metrics on its own listener so scrapes never contend with
// the API server.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("Metrics server stopped: %v", err)
	}
}
