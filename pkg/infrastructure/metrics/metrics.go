package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records simulation activity as Prometheus metrics
type Collector struct {
	weeksProcessed     *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	validationWarnings *prometheus.CounterVec
	shortageUnits      *prometheus.CounterVec
	weeklyCost         *prometheus.GaugeVec
	cumulativeCost     *prometheus.GaugeVec
	onTimeDelivery     *prometheus.GaugeVec
	headcount          *prometheus.GaugeVec
	weekDuration       prometheus.Histogram
}

// NewCollector creates the collector and registers it with reg. A nil reg
// uses the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		weeksProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prosim_weeks_processed_total",
			Help: "Total number of weeks processed",
		}, []string{"company"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prosim_validation_failures_total",
			Help: "Total number of decision sets rejected by validation",
		}, []string{"company"}),
		validationWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prosim_validation_warnings_total",
			Help: "Total number of validation warnings on accepted decisions",
		}, []string{"company"}),
		shortageUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prosim_shortage_units_total",
			Help: "Units short by kind of shortage",
		}, []string{"company", "kind"}),
		weeklyCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosim_weekly_cost",
			Help: "Total cost of the last processed week",
		}, []string{"company"}),
		cumulativeCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosim_cumulative_cost",
			Help: "Total cost to date",
		}, []string{"company"}),
		onTimeDelivery: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosim_on_time_delivery_percent",
			Help: "On-time delivery percentage of the last shipping week",
		}, []string{"company"}),
		headcount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosim_operators",
			Help: "Operators on the roster",
		}, []string{"company"}),
		weekDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prosim_week_duration_seconds",
			Help:    "Time taken to process one company week",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		c.weeksProcessed,
		c.validationFailures,
		c.validationWarnings,
		c.shortageUnits,
		c.weeklyCost,
		c.cumulativeCost,
		c.onTimeDelivery,
		c.headcount,
		c.weekDuration,
	)
	return c
}

func label(companyID int) string {
	return strconv.Itoa(companyID)
}

// RecordWeek records a processed week
func (c *Collector) RecordWeek(companyID int, weeklyCost, cumulativeCost float64, headcount int, seconds float64) {
	id := label(companyID)
	c.weeksProcessed.WithLabelValues(id).Inc()
	c.weeklyCost.WithLabelValues(id).Set(weeklyCost)
	c.cumulativeCost.WithLabelValues(id).Set(cumulativeCost)
	c.headcount.WithLabelValues(id).Set(float64(headcount))
	c.weekDuration.Observe(seconds)
}

// RecordValidationFailure counts a rejected decision set
func (c *Collector) RecordValidationFailure(companyID int) {
	c.validationFailures.WithLabelValues(label(companyID)).Inc()
}

// RecordWarnings counts warnings on an accepted decision set
func (c *Collector) RecordWarnings(companyID, warnings int) {
	if warnings > 0 {
		c.validationWarnings.WithLabelValues(label(companyID)).Add(float64(warnings))
	}
}

// RecordShortage adds units short of one kind
func (c *Collector) RecordShortage(companyID int, kind string, units float64) {
	if units > 0 {
		c.shortageUnits.WithLabelValues(label(companyID), kind).Add(units)
	}
}

// SetOnTimeDelivery records the delivery percentage of a shipping week
func (c *Collector) SetOnTimeDelivery(companyID int, percent float64) {
	c.onTimeDelivery.WithLabelValues(label(companyID)).Set(percent)
}

// Handler exposes the metrics gathered by g over HTTP. A nil g uses the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
