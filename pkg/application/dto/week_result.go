package dto

import (
	"github.com/vsinha/prosim/pkg/application/services/costs"
	"github.com/vsinha/prosim/pkg/application/services/demand"
	"github.com/vsinha/prosim/pkg/application/services/inventory"
	"github.com/vsinha/prosim/pkg/application/services/production"
	"github.com/vsinha/prosim/pkg/application/services/validation"
	"github.com/vsinha/prosim/pkg/domain/entities"
)

// WeekResult contains the complete output of one processed week
type WeekResult struct {
	Company    *entities.Company
	Report     entities.WeeklyReport
	Validation validation.Result
	Details    WeekDetails
}

// WeekDetails keeps the intermediate engine results a report is built from
type WeekDetails struct {
	Production   production.Result
	RawMaterials inventory.RawMaterialsResult
	Parts        inventory.PartsResult
	Receipts     inventory.ReceiptResult
	Placements   inventory.PlacementResult
	Fulfillment  *inventory.FulfillmentResult
	Shipping     *demand.ShippingOutcome
	Shipment     *costs.Shipment
}

// Shortages reports whether the week ran short of any material or product
func (d WeekDetails) Shortages() bool {
	if d.RawMaterials.Shortage.IsPositive() || d.Parts.Shortage.Total().IsPositive() {
		return true
	}
	return d.Fulfillment != nil && d.Fulfillment.UnitsShort.Total().IsPositive()
}
