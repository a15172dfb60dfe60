// Package config holds the rate table that drives every engine. A Config is
// read-only once built: engines receive it by value and never modify it.
package config

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
)

// PerPart holds one value per part family
type PerPart struct {
	X decimal.Decimal `yaml:"x"`
	Y decimal.Decimal `yaml:"y"`
	Z decimal.Decimal `yaml:"z"`
}

// Get returns the value for p
func (v PerPart) Get(p entities.PartType) decimal.Decimal {
	switch p {
	case entities.PartXPrime:
		return v.X
	case entities.PartYPrime:
		return v.Y
	case entities.PartZPrime:
		return v.Z
	default:
		return decimal.Zero
	}
}

// PerProduct holds one value per product family
type PerProduct struct {
	X decimal.Decimal `yaml:"x"`
	Y decimal.Decimal `yaml:"y"`
	Z decimal.Decimal `yaml:"z"`
}

// Get returns the value for p
func (v PerProduct) Get(p entities.ProductType) decimal.Decimal {
	switch p {
	case entities.ProductX:
		return v.X
	case entities.ProductY:
		return v.Y
	case entities.ProductZ:
		return v.Z
	default:
		return decimal.Zero
	}
}

type ProductionConfig struct {
	PartsRates         PerPart         `yaml:"parts_rates"`
	AssemblyRates      PerProduct      `yaml:"assembly_rates"`
	RejectRate         decimal.Decimal `yaml:"reject_rate"`
	PartsPerProduct    PerProduct      `yaml:"parts_per_product"`
	RawMaterialPerPart PerPart         `yaml:"raw_material_per_part"`
	PartsSetupHours    decimal.Decimal `yaml:"parts_setup_hours"`
	AssemblySetupHours decimal.Decimal `yaml:"assembly_setup_hours"`
}

type LogisticsConfig struct {
	RegularLeadTime   int `yaml:"regular_lead_time"`
	ExpeditedLeadTime int `yaml:"expedited_lead_time"`
	PartsLeadTime     int `yaml:"parts_lead_time"`
}

// OperatorProfile fixes the tier and proficiency of one starting operator
type OperatorProfile struct {
	QualityTier int             `yaml:"quality_tier"`
	Proficiency decimal.Decimal `yaml:"proficiency"`
}

type WorkforceConfig struct {
	TrainingMatrix       entities.TrainingMatrix `yaml:"training_matrix"`
	HireProficiencyMin   decimal.Decimal         `yaml:"hire_proficiency_min"`
	HireProficiencyMax   decimal.Decimal         `yaml:"hire_proficiency_max"`
	StartingRoster       []OperatorProfile       `yaml:"starting_roster"`
	TerminationThreshold int                     `yaml:"termination_threshold"`
	HiringFee            decimal.Decimal         `yaml:"hiring_fee"`
	LayoffFee            decimal.Decimal         `yaml:"layoff_fee"`
	TerminationFee       decimal.Decimal         `yaml:"termination_fee"`
	TrainingFee          decimal.Decimal         `yaml:"training_fee"`
}

type LaborConfig struct {
	HourlyRate         decimal.Decimal `yaml:"hourly_rate"`
	RegularHours       decimal.Decimal `yaml:"regular_hours"`
	OvertimeMultiplier decimal.Decimal `yaml:"overtime_multiplier"`
}

type EquipmentConfig struct {
	PartsRate         decimal.Decimal `yaml:"parts_rate"`
	AssemblyRate      decimal.Decimal `yaml:"assembly_rate"`
	RepairProbability float64         `yaml:"repair_probability"`
	RepairCost        decimal.Decimal `yaml:"repair_cost"`
	SetupCostPerHour  decimal.Decimal `yaml:"setup_cost_per_hour"`
	FixedExpense      decimal.Decimal `yaml:"fixed_expense"`
}

type MaterialsConfig struct {
	RawMaterialUnitCost decimal.Decimal `yaml:"raw_material_unit_cost"`
	PartCosts           PerPart         `yaml:"part_costs"`
	UnitPrices          PerProduct      `yaml:"unit_prices"`
}

type CarryingConfig struct {
	RawMaterials decimal.Decimal `yaml:"raw_materials"`
	Parts        decimal.Decimal `yaml:"parts"`
	Products     decimal.Decimal `yaml:"products"`
}

type OrderingConfig struct {
	BaseFee            decimal.Decimal `yaml:"base_fee"`
	ExpeditedSurcharge decimal.Decimal `yaml:"expedited_surcharge"`
}

type DemandConfig struct {
	BaseDemand        PerProduct              `yaml:"base_demand"`
	ForecastStdDev    map[int]decimal.Decimal `yaml:"forecast_std_dev"`
	ShippingFrequency int                     `yaml:"shipping_frequency"`
	PenaltyPerUnit    decimal.Decimal         `yaml:"penalty_per_unit"`
	PeriodsAhead      int                     `yaml:"periods_ahead"`
}

type SimulationConfig struct {
	PartsMachines        int             `yaml:"parts_machines"`
	AssemblyMachines     int             `yaml:"assembly_machines"`
	MaxScheduledHours    decimal.Decimal `yaml:"max_scheduled_hours"`
	MaxWeeks             int             `yaml:"max_weeks"`
	StartingRawMaterials decimal.Decimal `yaml:"starting_raw_materials"`
}

type ValidationConfig struct {
	BudgetWarningThreshold decimal.Decimal `yaml:"budget_warning_threshold"`
	PartsOrderWarning      decimal.Decimal `yaml:"parts_order_warning"`
	MaxTrainingPerWeek     int             `yaml:"max_training_per_week"`
}

type PerformanceConfig struct {
	StandardCostPerUnit decimal.Decimal `yaml:"standard_cost_per_unit"`
}

// Config is the complete rate table
type Config struct {
	Production  ProductionConfig  `yaml:"production"`
	Logistics   LogisticsConfig   `yaml:"logistics"`
	Workforce   WorkforceConfig   `yaml:"workforce"`
	Labor       LaborConfig       `yaml:"labor"`
	Equipment   EquipmentConfig   `yaml:"equipment"`
	Materials   MaterialsConfig   `yaml:"materials"`
	Carrying    CarryingConfig    `yaml:"carrying"`
	Ordering    OrderingConfig    `yaml:"ordering"`
	Demand      DemandConfig      `yaml:"demand"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Validation  ValidationConfig  `yaml:"validation"`
	Performance PerformanceConfig `yaml:"performance"`
}

// SetupHours returns the configured changeover time of a department
func (c Config) SetupHours(d entities.Department) decimal.Decimal {
	if d == entities.AssemblyDepartment {
		return c.Production.AssemblySetupHours
	}
	return c.Production.PartsSetupHours
}

// ProductionRate returns units per productive hour of line in department d
func (c Config) ProductionRate(d entities.Department, line entities.ProductType) decimal.Decimal {
	if d == entities.AssemblyDepartment {
		return c.Production.AssemblyRates.Get(line)
	}
	return c.Production.PartsRates.Get(line.Part())
}

// EquipmentRate returns the usage charge per productive hour in department d
func (c Config) EquipmentRate(d entities.Department) decimal.Decimal {
	if d == entities.AssemblyDepartment {
		return c.Equipment.AssemblyRate
	}
	return c.Equipment.PartsRate
}

// LeadTime returns the delivery lead time in weeks for an order type
func (c Config) LeadTime(t entities.OrderType) int {
	switch t {
	case entities.RegularRawMaterials:
		return c.Logistics.RegularLeadTime
	case entities.ExpeditedRawMaterials:
		return c.Logistics.ExpeditedLeadTime
	default:
		return c.Logistics.PartsLeadTime
	}
}

// Validate checks ranges and shapes
func (c Config) Validate() error {
	p := c.Production
	for _, part := range entities.Parts {
		if !p.PartsRates.Get(part).IsPositive() {
			return fmt.Errorf("production.parts_rates.%s must be positive", lowerItem(part.Product()))
		}
		if p.RawMaterialPerPart.Get(part).IsNegative() {
			return fmt.Errorf("production.raw_material_per_part.%s cannot be negative", lowerItem(part.Product()))
		}
	}
	for _, product := range entities.Products {
		if !p.AssemblyRates.Get(product).IsPositive() {
			return fmt.Errorf("production.assembly_rates.%s must be positive", lowerItem(product))
		}
		if p.PartsPerProduct.Get(product).IsNegative() {
			return fmt.Errorf("production.parts_per_product.%s cannot be negative", lowerItem(product))
		}
	}
	if p.RejectRate.IsNegative() || p.RejectRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("production.reject_rate must be in [0, 1), got %s", p.RejectRate)
	}
	if p.PartsSetupHours.IsNegative() || p.AssemblySetupHours.IsNegative() {
		return fmt.Errorf("production setup hours cannot be negative")
	}

	l := c.Logistics
	if l.RegularLeadTime < 0 || l.ExpeditedLeadTime < 0 || l.PartsLeadTime < 0 {
		return fmt.Errorf("logistics lead times cannot be negative")
	}

	w := c.Workforce
	if err := w.TrainingMatrix.Validate(); err != nil {
		return fmt.Errorf("workforce.training_matrix: %w", err)
	}
	if !w.HireProficiencyMin.IsPositive() || w.HireProficiencyMax.LessThan(w.HireProficiencyMin) {
		return fmt.Errorf("workforce hire proficiency bounds invalid: [%s, %s]", w.HireProficiencyMin, w.HireProficiencyMax)
	}
	for i, profile := range w.StartingRoster {
		if profile.QualityTier < 0 || profile.QualityTier > entities.MaxQualityTier {
			return fmt.Errorf("workforce.starting_roster[%d].quality_tier out of range: %d", i, profile.QualityTier)
		}
		if !profile.Proficiency.IsPositive() {
			return fmt.Errorf("workforce.starting_roster[%d].proficiency must be positive", i)
		}
	}
	if w.TerminationThreshold < 1 {
		return fmt.Errorf("workforce.termination_threshold must be at least 1, got %d", w.TerminationThreshold)
	}

	if c.Labor.RegularHours.IsNegative() || c.Labor.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("labor regular hours must be non-negative and overtime multiplier at least 1")
	}
	if c.Equipment.RepairProbability < 0 || c.Equipment.RepairProbability > 1 {
		return fmt.Errorf("equipment.repair_probability must be in [0, 1], got %v", c.Equipment.RepairProbability)
	}

	d := c.Demand
	if d.ShippingFrequency <= 0 {
		return fmt.Errorf("demand.shipping_frequency must be positive, got %d", d.ShippingFrequency)
	}
	if d.PeriodsAhead < 1 {
		return fmt.Errorf("demand.periods_ahead must be at least 1, got %d", d.PeriodsAhead)
	}
	if len(d.ForecastStdDev) == 0 {
		return fmt.Errorf("demand.forecast_std_dev cannot be empty")
	}
	for weeksOut, std := range d.ForecastStdDev {
		if weeksOut < 0 || std.IsNegative() {
			return fmt.Errorf("demand.forecast_std_dev entry %d: %s invalid", weeksOut, std)
		}
	}

	s := c.Simulation
	if s.PartsMachines <= 0 || s.AssemblyMachines <= 0 {
		return fmt.Errorf("simulation machine counts must be positive")
	}
	if !s.MaxScheduledHours.IsPositive() {
		return fmt.Errorf("simulation.max_scheduled_hours must be positive")
	}
	if s.MaxWeeks < 1 {
		return fmt.Errorf("simulation.max_weeks must be at least 1, got %d", s.MaxWeeks)
	}
	if s.StartingRawMaterials.IsNegative() {
		return fmt.Errorf("simulation.starting_raw_materials cannot be negative")
	}
	return nil
}

func lowerItem(p entities.ProductType) string {
	switch p {
	case entities.ProductX:
		return "x"
	case entities.ProductY:
		return "y"
	default:
		return "z"
	}
}
