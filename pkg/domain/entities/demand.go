package entities

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DemandForecast is the demand estimate for one product at one shipping week
type DemandForecast struct {
	Product      ProductType      `json:"product"`
	ShippingWeek int              `json:"shipping_week"`
	Estimated    decimal.Decimal  `json:"estimated"`
	Actual       *decimal.Decimal `json:"actual,omitempty"`
	Carryover    decimal.Decimal  `json:"carryover"`
}

// Revealed reports whether actual demand is known
func (f DemandForecast) Revealed() bool {
	return f.Actual != nil
}

// TotalDemand returns actual (or estimated) demand plus carryover
func (f DemandForecast) TotalDemand() decimal.Decimal {
	base := f.Estimated
	if f.Actual != nil {
		base = *f.Actual
	}
	return base.Add(f.Carryover)
}

// Reveal fixes actual demand. Actual demand is set once and never changes.
func (f DemandForecast) Reveal(actual decimal.Decimal) DemandForecast {
	if f.Actual != nil {
		return f
	}
	f.Actual = &actual
	return f
}

// DemandSchedule holds every forecast of a company
type DemandSchedule struct {
	ShippingFrequency int              `json:"shipping_frequency"`
	Forecasts         []DemandForecast `json:"forecasts"`
}

// NewDemandSchedule creates an empty schedule shipping every frequency weeks
func NewDemandSchedule(frequency int) (DemandSchedule, error) {
	if frequency <= 0 {
		return DemandSchedule{}, fmt.Errorf("shipping frequency must be positive, got %d", frequency)
	}
	return DemandSchedule{ShippingFrequency: frequency}, nil
}

// Clone returns an independent copy
func (s DemandSchedule) Clone() DemandSchedule {
	forecasts := make([]DemandForecast, len(s.Forecasts))
	for i, f := range s.Forecasts {
		if f.Actual != nil {
			a := *f.Actual
			f.Actual = &a
		}
		forecasts[i] = f
	}
	return DemandSchedule{ShippingFrequency: s.ShippingFrequency, Forecasts: forecasts}
}

// IsShippingWeek reports whether week is a positive multiple of the frequency
func (s DemandSchedule) IsShippingWeek(week int) bool {
	return week > 0 && s.ShippingFrequency > 0 && week%s.ShippingFrequency == 0
}

// NextShippingWeek returns the smallest shipping week ≥ week
func (s DemandSchedule) NextShippingWeek(week int) int {
	if week < 1 {
		week = 1
	}
	f := s.ShippingFrequency
	return ((week + f - 1) / f) * f
}

// Forecast looks up the forecast for product at week
func (s DemandSchedule) Forecast(product ProductType, week int) (DemandForecast, bool) {
	for _, f := range s.Forecasts {
		if f.Product == product && f.ShippingWeek == week {
			return f, true
		}
	}
	return DemandForecast{}, false
}

// ForWeek returns the forecasts of one shipping week in product order
func (s DemandSchedule) ForWeek(week int) []DemandForecast {
	var out []DemandForecast
	for _, f := range s.Forecasts {
		if f.ShippingWeek == week {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

// MaxShippingWeek returns the farthest forecast week, or 0 when empty
func (s DemandSchedule) MaxShippingWeek() int {
	maxWeek := 0
	for _, f := range s.Forecasts {
		if f.ShippingWeek > maxWeek {
			maxWeek = f.ShippingWeek
		}
	}
	return maxWeek
}

// With returns a schedule with f replacing the forecast for the same product and week,
// or appended when none exists
func (s DemandSchedule) With(f DemandForecast) DemandSchedule {
	next := s.Clone()
	for i, existing := range next.Forecasts {
		if existing.Product == f.Product && existing.ShippingWeek == f.ShippingWeek {
			next.Forecasts[i] = f
			return next
		}
	}
	next.Forecasts = append(next.Forecasts, f)
	return next
}
