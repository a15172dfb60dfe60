package demand

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/rng"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// ShippingOutcome records how a shipping week settled against demand
type ShippingOutcome struct {
	Week      int                                    `json:"week"`
	Demand    entities.Amounts[entities.ProductType] `json:"demand"`
	Shipped   entities.Amounts[entities.ProductType] `json:"shipped"`
	Carryover entities.Amounts[entities.ProductType] `json:"carryover"`
}

// Engine generates forecasts and settles shipping weeks
type Engine struct {
	config config.Config
}

// NewEngine creates a demand engine over the given rate table
func NewEngine(cfg config.Config) *Engine {
	return &Engine{config: cfg}
}

// StdDev returns the forecast noise for a horizon. Horizons beyond the largest
// configured key use the largest key; gaps use the next larger key.
func (e *Engine) StdDev(weeksOut int) decimal.Decimal {
	table := e.config.Demand.ForecastStdDev
	if len(table) == 0 {
		return decimal.Zero
	}
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if weeksOut <= k {
			return table[k]
		}
	}
	return table[keys[len(keys)-1]]
}

// GenerateForecast draws a demand estimate weeksOut weeks ahead of shipping.
// At zero weeks out the estimate is exactly the base demand.
func (e *Engine) GenerateForecast(product entities.ProductType, weeksOut int, src rng.Source) (decimal.Decimal, rng.Source) {
	base := e.config.Demand.BaseDemand.Get(product)
	if weeksOut <= 0 {
		return base, src
	}
	std := e.StdDev(weeksOut)
	if std.IsZero() {
		return base, src
	}
	mean, _ := base.Float64()
	sigma, _ := std.Float64()
	v, src := src.Normal(mean, sigma)
	return entities.MaxZero(decimal.NewFromFloat(v).Round(0)), src
}

// IsShippingWeek reports whether week ships
func (e *Engine) IsShippingWeek(week int) bool {
	return week > 0 && week%e.config.Demand.ShippingFrequency == 0
}

// NextShippingWeek returns the smallest shipping week at or after week
func (e *Engine) NextShippingWeek(week int) int {
	f := e.config.Demand.ShippingFrequency
	if week < 1 {
		week = 1
	}
	return ((week + f - 1) / f) * f
}

// Initialize forecasts the configured number of shipping periods ahead of currentWeek.
// Periods that already have a forecast are left alone.
func (e *Engine) Initialize(schedule entities.DemandSchedule, currentWeek int, src rng.Source) (entities.DemandSchedule, rng.Source) {
	first := e.NextShippingWeek(currentWeek)
	for i := 0; i < e.config.Demand.PeriodsAhead; i++ {
		week := first + i*e.config.Demand.ShippingFrequency
		for _, p := range entities.Products {
			if _, ok := schedule.Forecast(p, week); ok {
				continue
			}
			var est decimal.Decimal
			est, src = e.GenerateForecast(p, week-currentWeek, src)
			schedule = schedule.With(entities.DemandForecast{
				Product: p, ShippingWeek: week, Estimated: est, Carryover: decimal.Zero,
			})
		}
	}
	return schedule, src
}

// RefreshForecasts re-estimates every unrevealed forecast at or after currentWeek,
// with noise shrinking as the shipping week approaches
func (e *Engine) RefreshForecasts(schedule entities.DemandSchedule, currentWeek int, src rng.Source) (entities.DemandSchedule, rng.Source) {
	next := schedule.Clone()
	for i, f := range next.Forecasts {
		if f.Revealed() || f.ShippingWeek < currentWeek {
			continue
		}
		f.Estimated, src = e.GenerateForecast(f.Product, f.ShippingWeek-currentWeek, src)
		next.Forecasts[i] = f
	}
	return next, src
}

// RevealDemand fixes actual demand for every forecast of a shipping week and
// returns total demand (actual plus carryover) per product
func (e *Engine) RevealDemand(schedule entities.DemandSchedule, week int, src rng.Source) (entities.DemandSchedule, entities.Amounts[entities.ProductType], rng.Source) {
	next := schedule.Clone()
	demand := make(entities.Amounts[entities.ProductType])
	for i, f := range next.Forecasts {
		if f.ShippingWeek != week {
			continue
		}
		if !f.Revealed() {
			var actual decimal.Decimal
			actual, src = e.GenerateForecast(f.Product, 0, src)
			f = f.Reveal(actual)
			next.Forecasts[i] = f
		}
		demand.Add(f.Product, f.TotalDemand())
	}
	return next, demand, src
}

// DemandForWeek returns total demand per product for a shipping week
func (e *Engine) DemandForWeek(schedule entities.DemandSchedule, week int) entities.Amounts[entities.ProductType] {
	demand := make(entities.Amounts[entities.ProductType])
	for _, f := range schedule.ForWeek(week) {
		demand.Add(f.Product, f.TotalDemand())
	}
	return demand
}

// ProcessShippingWeek settles a shipping week. Unshipped demand becomes the
// outcome's carryover; other periods are left untouched.
func (e *Engine) ProcessShippingWeek(schedule entities.DemandSchedule, week int, shipped entities.Amounts[entities.ProductType]) (entities.DemandSchedule, ShippingOutcome) {
	demand := e.DemandForWeek(schedule, week)
	outcome := ShippingOutcome{
		Week:      week,
		Demand:    demand,
		Shipped:   shipped.Clone(),
		Carryover: make(entities.Amounts[entities.ProductType]),
	}
	for _, p := range entities.Products {
		outcome.Carryover[p] = entities.MaxZero(demand.Get(p).Sub(shipped.Get(p)))
	}
	return schedule.Clone(), outcome
}

// AddNextPeriodForecasts extends the horizon by one shipping period and seeds
// the new period with the settled week's carryover.
func (e *Engine) AddNextPeriodForecasts(schedule entities.DemandSchedule, outcome ShippingOutcome, src rng.Source) (entities.DemandSchedule, rng.Source) {
	from := schedule.MaxShippingWeek()
	if from < outcome.Week {
		from = outcome.Week
	}
	newWeek := from + e.config.Demand.ShippingFrequency

	for _, p := range entities.Products {
		var est decimal.Decimal
		est, src = e.GenerateForecast(p, newWeek-outcome.Week, src)
		schedule = schedule.With(entities.DemandForecast{
			Product: p, ShippingWeek: newWeek, Estimated: est, Carryover: outcome.Carryover.Get(p),
		})
	}
	return schedule, src
}
