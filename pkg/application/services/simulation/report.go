package simulation

import (
	"github.com/vsinha/prosim/pkg/application/services/demand"
	"github.com/vsinha/prosim/pkg/application/services/production"
	"github.com/vsinha/prosim/pkg/domain/entities"
)

// machineRecords lists every machine on the floor, idle ones included
func machineRecords(floor entities.MachineFloor, output production.Result, d entities.Decisions) []entities.MachineRecord {
	records := make([]entities.MachineRecord, 0, floor.Size())
	for _, m := range floor.Machines {
		record := entities.MachineRecord{
			MachineID:   m.ID,
			Department:  m.Department,
			NeedsRepair: m.NeedsRepair,
		}
		if md, ok := d.Machine(m.ID); ok {
			record.OperatorID = md.Operator()
			record.SentForTraining = md.SendForTraining
			if line, err := md.Line(); err == nil {
				record.Item = m.ItemLabel(line)
			}
		}

		res, _ := output.Machine(m.ID)
		record.ScheduledHours = res.ScheduledHours
		record.SetupHours = res.SetupHours
		record.ProductiveHours = res.ProductiveHours
		record.Efficiency = res.Efficiency
		record.PlannedGross = res.PlannedGross
		record.Gross = res.Gross
		record.Rejects = res.Rejects
		record.Net = res.Net
		records = append(records, record)
	}
	return records
}

// pendingOrders returns the earliest due outstanding orders, at most MaxPendingOrderRecords
func pendingOrders(book entities.OrderBook) []entities.Order {
	pending := book.Pending()
	if len(pending) > entities.MaxPendingOrderRecords {
		pending = pending[:entities.MaxPendingOrderRecords]
	}
	return pending
}

// demandLines reports the current shipping period: this week on a shipping
// week, otherwise the next one. outcome is set only on shipping weeks.
func demandLines(schedule entities.DemandSchedule, week int, outcome *demand.ShippingOutcome) []entities.DemandLine {
	period := schedule.NextShippingWeek(week)
	var lines []entities.DemandLine
	for _, f := range schedule.ForWeek(period) {
		line := entities.DemandLine{
			Product:      f.Product,
			ShippingWeek: f.ShippingWeek,
			Estimated:    f.Estimated,
			Actual:       f.Actual,
			Carryover:    f.Carryover,
			Total:        f.TotalDemand(),
		}
		if outcome != nil && outcome.Week == period {
			shipped := outcome.Shipped.Get(f.Product)
			carry := outcome.Carryover.Get(f.Product)
			line.Shipped = &shipped
			line.NewCarryover = &carry
		}
		lines = append(lines, line)
	}
	return lines
}
