package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	metricRefreshCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wootdeals_refresh_cycles_total",
		Help: "Completed refresh cycles by result.",
	}, []string{"result"})

	metricFeedFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wootdeals_feed_failures_total",
		Help: "Feeds that contributed zero items to a cycle.",
	}, []string{"feed"})

	metricQualifyingDeals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wootdeals_qualifying_deals",
		Help: "Qualifying deals published by the last successful cycle.",
	})
)
