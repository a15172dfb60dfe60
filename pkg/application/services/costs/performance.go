package costs

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// Shipment is what a shipping week requested and delivered
type Shipment struct {
	Requested decimal.Decimal
	Shipped   decimal.Decimal
}

// Performance compares the week's actual cost with the standard cost of its net output.
// shipment is nil outside shipping weeks, leaving on-time delivery unset.
func (e *Engine) Performance(actual decimal.Decimal, netUnits decimal.Decimal, shipment *Shipment) entities.PerformanceMetrics {
	standard := e.standardCost(netUnits)
	m := metrics(standard, actual, netUnits)
	if shipment != nil {
		m.OnTimeDelivery = onTime(shipment.Requested, shipment.Shipped)
	}
	return m
}

// AccumulatePerformance folds a week into the running totals
func (e *Engine) AccumulatePerformance(totals entities.PerformanceTotals, actual, netUnits decimal.Decimal, shipment *Shipment) entities.PerformanceTotals {
	totals.StandardCost = totals.StandardCost.Add(e.standardCost(netUnits))
	totals.ActualCost = totals.ActualCost.Add(actual)
	totals.NetUnits = totals.NetUnits.Add(netUnits)
	if shipment != nil {
		totals.UnitsRequested = totals.UnitsRequested.Add(shipment.Requested)
		totals.UnitsShipped = totals.UnitsShipped.Add(shipment.Shipped)
		totals.ShippingWeeks++
	}
	return totals
}

// CumulativePerformance derives game-to-date metrics from the running totals
func (e *Engine) CumulativePerformance(totals entities.PerformanceTotals) entities.PerformanceMetrics {
	m := metrics(totals.StandardCost, totals.ActualCost, totals.NetUnits)
	if totals.ShippingWeeks > 0 {
		m.OnTimeDelivery = onTime(totals.UnitsRequested, totals.UnitsShipped)
	}
	return m
}

func (e *Engine) standardCost(netUnits decimal.Decimal) decimal.Decimal {
	return entities.RoundMoney(netUnits.Mul(e.config.Performance.StandardCostPerUnit))
}

func metrics(standard, actual, netUnits decimal.Decimal) entities.PerformanceMetrics {
	m := entities.PerformanceMetrics{
		StandardCost:      standard,
		ActualCost:        actual,
		EfficiencyPercent: hundred,
		VariancePerUnit:   decimal.Zero,
	}
	if actual.IsPositive() {
		m.EfficiencyPercent = standard.Div(actual).Mul(hundred).Round(2)
	}
	if netUnits.IsPositive() {
		m.VariancePerUnit = actual.Sub(standard).Div(netUnits).Round(2)
	}
	return m
}

// onTime returns shipped / requested as a percentage; nothing requested counts as 100%
func onTime(requested, shipped decimal.Decimal) *decimal.Decimal {
	pct := hundred
	if requested.IsPositive() {
		pct = shipped.Div(requested).Mul(hundred).Round(2)
	}
	return &pct
}
