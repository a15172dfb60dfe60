package config

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func perPart(x, y, z string) PerPart {
	return PerPart{X: dec(x), Y: dec(y), Z: dec(z)}
}

func perProduct(x, y, z string) PerProduct {
	return PerProduct{X: dec(x), Y: dec(y), Z: dec(z)}
}

// defaultTrainingMatrix rises from 50-77% untrained to 100-118% fully trained
func defaultTrainingMatrix() entities.TrainingMatrix {
	return entities.TrainingMatrix{
		{50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100},
		{53, 58, 63, 68, 73, 77, 82, 87, 92, 97, 102},
		{56, 61, 66, 70, 75, 80, 85, 90, 94, 99, 104},
		{59, 64, 68, 73, 78, 83, 87, 92, 97, 101, 106},
		{62, 67, 71, 76, 80, 85, 90, 94, 99, 103, 108},
		{65, 69, 74, 79, 83, 87, 92, 97, 101, 105, 110},
		{68, 72, 77, 81, 86, 90, 94, 99, 103, 108, 112},
		{71, 75, 80, 84, 88, 93, 97, 101, 105, 110, 114},
		{74, 78, 82, 87, 91, 95, 99, 103, 108, 112, 116},
		{77, 81, 85, 89, 93, 97, 102, 106, 110, 114, 118},
	}
}

func defaultRoster() []OperatorProfile {
	profiles := []struct {
		tier        int
		proficiency string
	}{
		{3, "1.00"}, {4, "0.95"}, {5, "1.05"},
		{2, "0.90"}, {6, "1.10"}, {4, "1.00"},
		{3, "0.98"}, {5, "1.02"}, {4, "1.00"},
	}
	roster := make([]OperatorProfile, len(profiles))
	for i, p := range profiles {
		roster[i] = OperatorProfile{QualityTier: p.tier, Proficiency: dec(p.proficiency)}
	}
	return roster
}

// Default returns the built-in rate table
func Default() Config {
	return Config{
		Production: ProductionConfig{
			PartsRates:         perPart("60", "50", "40"),
			AssemblyRates:      perProduct("40", "30", "20"),
			RejectRate:         dec("0.178"),
			PartsPerProduct:    perProduct("1", "1", "1"),
			RawMaterialPerPart: perPart("1", "1", "1"),
			PartsSetupHours:    dec("2"),
			AssemblySetupHours: dec("2"),
		},
		Logistics: LogisticsConfig{
			RegularLeadTime:   3,
			ExpeditedLeadTime: 1,
			PartsLeadTime:     1,
		},
		Workforce: WorkforceConfig{
			TrainingMatrix:       defaultTrainingMatrix(),
			HireProficiencyMin:   dec("0.80"),
			HireProficiencyMax:   dec("1.20"),
			StartingRoster:       defaultRoster(),
			TerminationThreshold: 2,
			HiringFee:            dec("2700"),
			LayoffFee:            dec("200"),
			TerminationFee:       dec("400"),
			TrainingFee:          dec("1000"),
		},
		Labor: LaborConfig{
			HourlyRate:         dec("10"),
			RegularHours:       dec("40"),
			OvertimeMultiplier: dec("1.5"),
		},
		Equipment: EquipmentConfig{
			PartsRate:         dec("100"),
			AssemblyRate:      dec("80"),
			RepairProbability: 0.10,
			RepairCost:        dec("400"),
			SetupCostPerHour:  dec("40"),
			FixedExpense:      dec("1500"),
		},
		Materials: MaterialsConfig{
			RawMaterialUnitCost: dec("1"),
			PartCosts:           perPart("4.25", "6.20", "8.06"),
			UnitPrices:          perProduct("0", "0", "0"),
		},
		Carrying: CarryingConfig{
			RawMaterials: dec("0.01"),
			Parts:        dec("0.05"),
			Products:     dec("0.10"),
		},
		Ordering: OrderingConfig{
			BaseFee:            dec("100"),
			ExpeditedSurcharge: dec("1200"),
		},
		Demand: DemandConfig{
			BaseDemand: perProduct("600", "400", "200"),
			ForecastStdDev: map[int]decimal.Decimal{
				4: dec("300"), 3: dec("300"), 2: dec("200"), 1: dec("100"), 0: dec("0"),
			},
			ShippingFrequency: 4,
			PenaltyPerUnit:    dec("10"),
			PeriodsAhead:      2,
		},
		Simulation: SimulationConfig{
			PartsMachines:        4,
			AssemblyMachines:     5,
			MaxScheduledHours:    dec("50"),
			MaxWeeks:             15,
			StartingRawMaterials: dec("5000"),
		},
		Validation: ValidationConfig{
			BudgetWarningThreshold: dec("10000"),
			PartsOrderWarning:      dec("1000"),
			MaxTrainingPerWeek:     3,
		},
		Performance: PerformanceConfig{
			StandardCostPerUnit: dec("10"),
		},
	}
}
