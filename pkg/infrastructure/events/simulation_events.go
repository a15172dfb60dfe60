package events

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
)

const (
	CompanyCreatedEvent = "company.created"
	WeekProcessedEvent  = "week.processed"
	WeekRejectedEvent   = "week.rejected"

	OrderPlacedEvent   = "order.placed"
	OrderReceivedEvent = "order.received"

	ShortageIdentifiedEvent = "shortage.identified"
	DemandShippedEvent      = "demand.shipped"

	OperatorHiredEvent      = "operator.hired"
	OperatorTerminatedEvent = "operator.terminated"
	MachineRepairEvent      = "machine.repair"
)

// AllTypes lists every event type the simulation publishes
var AllTypes = []string{
	CompanyCreatedEvent, WeekProcessedEvent, WeekRejectedEvent,
	OrderPlacedEvent, OrderReceivedEvent,
	ShortageIdentifiedEvent, DemandShippedEvent,
	OperatorHiredEvent, OperatorTerminatedEvent, MachineRepairEvent,
}

// CompanyStream names the event stream of one company
func CompanyStream(companyID int) string {
	return fmt.Sprintf("company-%d", companyID)
}

type CompanyCreated struct {
	CompanyID int    `json:"company_id"`
	Name      string `json:"name"`
	Seed      uint64 `json:"seed"`
}

type WeekProcessed struct {
	CompanyID  int             `json:"company_id"`
	Week       int             `json:"week"`
	WeeklyCost decimal.Decimal `json:"weekly_cost"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Warnings   int             `json:"warnings"`
}

type WeekRejected struct {
	CompanyID int    `json:"company_id"`
	Week      int    `json:"week"`
	Reason    string `json:"reason"`
}

type OrderPlaced struct {
	Order entities.Order `json:"order"`
}

type OrderReceived struct {
	Order entities.Order `json:"order"`
}

// ShortageKind names what ran short
type ShortageKind string

const (
	RawMaterialsShortage ShortageKind = "raw_materials"
	PartsShortage        ShortageKind = "parts"
	ProductsShortage     ShortageKind = "products"
)

type ShortageIdentified struct {
	CompanyID int             `json:"company_id"`
	Week      int             `json:"week"`
	Kind      ShortageKind    `json:"kind"`
	Item      string          `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type DemandShipped struct {
	CompanyID int                  `json:"company_id"`
	Week      int                  `json:"week"`
	Product   entities.ProductType `json:"product"`
	Requested decimal.Decimal      `json:"requested"`
	Shipped   decimal.Decimal      `json:"shipped"`
	Carryover decimal.Decimal      `json:"carryover"`
}

type OperatorHired struct {
	Operator entities.Operator `json:"operator"`
}

type OperatorTerminated struct {
	CompanyID  int `json:"company_id"`
	Week       int `json:"week"`
	OperatorID int `json:"operator_id"`
}

type MachineRepair struct {
	CompanyID int                  `json:"company_id"`
	Week      int                  `json:"week"`
	Product   entities.ProductType `json:"product"`
	Machines  int                  `json:"machines"`
}
