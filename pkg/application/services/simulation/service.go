package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vsinha/prosim/pkg/application/dto"
	"github.com/vsinha/prosim/pkg/application/services/validation"
	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/repositories"
	"github.com/vsinha/prosim/pkg/infrastructure/events"
	"github.com/vsinha/prosim/pkg/infrastructure/metrics"
)

var ErrCompanyExists = errors.New("company already exists")

// Service runs weeks against stored companies. It loads the current state,
// processes the week, appends the result and publishes what happened.
type Service struct {
	sim        *Simulator
	repo       repositories.CompanyRepository
	eventStore events.EventStore
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// NewService wires a simulator to storage. eventStore and collector may be nil.
func NewService(
	sim *Simulator,
	repo repositories.CompanyRepository,
	eventStore events.EventStore,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sim:        sim,
		repo:       repo,
		eventStore: eventStore,
		metrics:    collector,
		logger:     logger.With("component", "simulation"),
	}
}

// CreateCompany starts a new company at week 1 and stores it
func (s *Service) CreateCompany(ctx context.Context, id int, name string, seed uint64) (*entities.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Current(id); err == nil {
		return nil, fmt.Errorf("company %d: %w", id, ErrCompanyExists)
	} else if !errors.Is(err, repositories.ErrCompanyNotFound) {
		return nil, err
	}

	company, err := s.sim.NewCompany(id, name, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create company %d: %w", id, err)
	}
	if err := s.repo.Append(company); err != nil {
		return nil, fmt.Errorf("failed to store company %d: %w", id, err)
	}

	s.publish(id, events.CompanyCreatedEvent, events.CompanyCreated{CompanyID: id, Name: name, Seed: seed})
	s.logger.Info("company created", "company", id, "name", name, "seed", seed)
	return company, nil
}

// Company returns the current state of a company
func (s *Service) Company(id int) (*entities.Company, error) {
	return s.repo.Current(id)
}

// Report returns the report of a processed week. Week 0 means the latest.
func (s *Service) Report(id, week int) (entities.WeeklyReport, error) {
	company, err := s.repo.Current(id)
	if err != nil {
		return entities.WeeklyReport{}, err
	}
	var report entities.WeeklyReport
	var ok bool
	if week == 0 {
		report, ok = company.LatestReport()
	} else {
		report, ok = company.Report(week)
	}
	if !ok {
		return entities.WeeklyReport{}, fmt.Errorf("company %d has no report for week %d", id, week)
	}
	return report, nil
}

// ProcessWeek runs the decisions against the company they name
func (s *Service) ProcessWeek(ctx context.Context, d entities.Decisions) (*dto.WeekResult, error) {
	company, err := s.repo.Current(d.CompanyID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.sim.ProcessWeek(ctx, company, d)
	if err != nil {
		s.rejected(company, d, err)
		return nil, err
	}

	if err := s.repo.Append(result.Company); err != nil {
		return nil, fmt.Errorf("failed to store week %d for company %d: %w", d.Week, d.CompanyID, err)
	}

	s.record(result, time.Since(start))
	return result, nil
}

// ProcessRound runs one week for several companies at once. Either every
// company advances or none does.
func (s *Service) ProcessRound(ctx context.Context, decisions []entities.Decisions) (map[int]*dto.WeekResult, error) {
	byCompany := make(map[int]entities.Decisions, len(decisions))
	companies := make([]*entities.Company, 0, len(decisions))
	for _, d := range decisions {
		if _, dup := byCompany[d.CompanyID]; dup {
			return nil, fmt.Errorf("company %d has more than one set of decisions for week %d", d.CompanyID, d.Week)
		}
		company, err := s.repo.Current(d.CompanyID)
		if err != nil {
			return nil, err
		}
		byCompany[d.CompanyID] = d
		companies = append(companies, company)
	}

	game, err := NewGame(s.sim, companies...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := game.ProcessWeek(ctx, byCompany)
	if err != nil {
		for _, c := range companies {
			if verr := s.sim.Validate(c, byCompany[c.ID]).Err(); verr != nil {
				s.rejected(c, byCompany[c.ID], verr)
			}
		}
		return nil, err
	}
	elapsed := time.Since(start)

	for _, c := range game.Companies() {
		if err := s.repo.Append(c); err != nil {
			return nil, fmt.Errorf("failed to store week %d for company %d: %w", game.Week()-1, c.ID, err)
		}
		s.record(results[c.ID], elapsed)
	}
	return results, nil
}

func (s *Service) rejected(company *entities.Company, d entities.Decisions, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) && s.metrics != nil {
		s.metrics.RecordValidationFailure(company.ID)
	}
	s.publish(company.ID, events.WeekRejectedEvent, events.WeekRejected{
		CompanyID: company.ID,
		Week:      d.Week,
		Reason:    err.Error(),
	})
	s.logger.Warn("week rejected", "company", company.ID, "week", d.Week, "error", err)
}

// record publishes events, metrics and log lines for a processed week
func (s *Service) record(result *dto.WeekResult, elapsed time.Duration) {
	report := result.Report
	id := report.CompanyID
	week := report.Week
	details := result.Details

	for _, o := range details.Placements.Orders {
		s.publish(id, events.OrderPlacedEvent, events.OrderPlaced{Order: o})
	}
	for _, o := range details.Receipts.Orders {
		s.publish(id, events.OrderReceivedEvent, events.OrderReceived{Order: o})
	}

	for _, w := range report.Warnings {
		s.logger.Warn("decision warning", "company", id, "week", week, "warning", w)
	}

	shortages := s.shortages(id, week, details)
	for _, sh := range shortages {
		s.publish(id, events.ShortageIdentifiedEvent, sh)
		if s.metrics != nil {
			units, _ := sh.Quantity.Float64()
			s.metrics.RecordShortage(id, string(sh.Kind), units)
		}
		s.logger.Info("shortage", "company", id, "week", week, "kind", sh.Kind, "item", sh.Item, "quantity", sh.Quantity)
	}

	if details.Shipping != nil {
		for _, p := range entities.Products {
			s.publish(id, events.DemandShippedEvent, events.DemandShipped{
				CompanyID: id,
				Week:      week,
				Product:   p,
				Requested: details.Shipping.Demand.Get(p),
				Shipped:   details.Shipping.Shipped.Get(p),
				Carryover: details.Shipping.Carryover.Get(p),
			})
		}
	}

	for _, opID := range report.Workforce.Hired {
		if op, ok := result.Company.Workforce.Operator(opID); ok {
			s.publish(id, events.OperatorHiredEvent, events.OperatorHired{Operator: op})
		}
	}
	for _, opID := range report.Workforce.Terminated {
		s.publish(id, events.OperatorTerminatedEvent, events.OperatorTerminated{CompanyID: id, Week: week, OperatorID: opID})
		s.logger.Info("operator terminated", "company", id, "week", week, "operator", opID)
	}
	for _, p := range entities.Products {
		if n := report.Repairs[p]; n > 0 {
			s.publish(id, events.MachineRepairEvent, events.MachineRepair{CompanyID: id, Week: week, Product: p, Machines: n})
		}
	}

	weekly := report.Costs.Total()
	cumulative := report.CumulativeCosts.Total()
	s.publish(id, events.WeekProcessedEvent, events.WeekProcessed{
		CompanyID:  id,
		Week:       week,
		WeeklyCost: weekly,
		TotalCost:  cumulative,
		Warnings:   len(report.Warnings),
	})

	if s.metrics != nil {
		w, _ := weekly.Float64()
		c, _ := cumulative.Float64()
		s.metrics.RecordWeek(id, w, c, report.Workforce.Headcount, elapsed.Seconds())
		s.metrics.RecordWarnings(id, len(report.Warnings))
		if report.Performance.OnTimeDelivery != nil {
			pct, _ := report.Performance.OnTimeDelivery.Float64()
			s.metrics.SetOnTimeDelivery(id, pct)
		}
	}

	s.logger.Info("week processed",
		"company", id,
		"week", week,
		"shipping_week", report.ShippingWeek,
		"weekly_cost", weekly.StringFixed(2),
		"cumulative_cost", cumulative.StringFixed(2),
		"headcount", report.Workforce.Headcount,
	)
}

func (s *Service) shortages(id, week int, details dto.WeekDetails) []events.ShortageIdentified {
	if !details.Shortages() {
		return nil
	}
	var out []events.ShortageIdentified
	if details.RawMaterials.Shortage.IsPositive() {
		out = append(out, events.ShortageIdentified{
			CompanyID: id, Week: week, Kind: events.RawMaterialsShortage, Item: "RM", Quantity: details.RawMaterials.Shortage,
		})
	}
	for _, p := range entities.Parts {
		if q := details.Parts.Shortage.Get(p); q.IsPositive() {
			out = append(out, events.ShortageIdentified{
				CompanyID: id, Week: week, Kind: events.PartsShortage, Item: p.String(), Quantity: q,
			})
		}
	}
	if details.Fulfillment != nil {
		for _, p := range entities.Products {
			if q := details.Fulfillment.UnitsShort.Get(p); q.IsPositive() {
				out = append(out, events.ShortageIdentified{
					CompanyID: id, Week: week, Kind: events.ProductsShortage, Item: p.String(), Quantity: q,
				})
			}
		}
	}
	return out
}

func (s *Service) publish(companyID int, eventType string, data any) {
	if s.eventStore == nil {
		return
	}
	stream := events.CompanyStream(companyID)
	if err := s.eventStore.AppendEvent(stream, events.NewEvent(eventType, stream, data)); err != nil {
		s.logger.Warn("failed to publish event", "type", eventType, "company", companyID, "error", err)
	}
}
