package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(quotaUnitsTotal) }

var quotaUnitsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "provider_quota_units_total",
		Help: "Cumulative provider quota units consumed, labeled by call name.",
	},
	[]string{"action"},
)

func AddQuotaUnits(action string, units int) {
	if units <= 0 {
		return
	}
	quotaUnitsTotal.WithLabelValues(norm(action)).Add(float64(units))
}
