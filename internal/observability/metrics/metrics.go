package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	once                         sync.Once
	metricsRouter                *chi.Mux
	httpRequestDurationHistogram *prometheus.HistogramVec
	stakesPlacedCounter          prometheus.Counter
	stakedAmountCounter          prometheus.Counter
	slotsResolvedCounter         prometheus.Counter
	rewardsClaimedCounter        prometheus.Counter
	rewardsPaidCounter           prometheus.Counter
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)

	stakesPlacedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_stakes_placed_total",
		Help: "Total number of stakes placed.",
	})
	stakedAmountCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_staked_amount_total",
		Help: "Total amount deposited into the escrow vault through staking.",
	})
	slotsResolvedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_slots_resolved_total",
		Help: "Total number of slots resolved.",
	})
	rewardsClaimedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_rewards_claimed_total",
		Help: "Total number of rewards claimed.",
	})
	rewardsPaidCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_rewards_paid_amount_total",
		Help: "Total amount paid out of the escrow vault.",
	})

	prometheus.MustRegister(
		httpRequestDurationHistogram,
		stakesPlacedCounter,
		stakedAmountCounter,
		slotsResolvedCounter,
		rewardsClaimedCounter,
		rewardsPaidCounter,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	if httpRequestDurationHistogram == nil {
		return func(statusCode int) {}
	}
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// The Record helpers are no-ops until Init has run, so library embedders that
// never start the metrics endpoint are not forced to.
func RecordStakePlaced(amount uint64) {
	if stakesPlacedCounter == nil {
		return
	}
	stakesPlacedCounter.Inc()
	stakedAmountCounter.Add(float64(amount))
}

func RecordSlotResolved() {
	if slotsResolvedCounter == nil {
		return
	}
	slotsResolvedCounter.Inc()
}

func RecordRewardClaimed(reward uint64) {
	if rewardsClaimedCounter == nil {
		return
	}
	rewardsClaimedCounter.Inc()
	rewardsPaidCounter.Add(float64(reward))
}
