package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
)

// Config holds configuration for report output
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv"}

// Generate writes report to w in the configured format. When OutputDir is set
// the report is also saved there as REPT<week>_C<company>.<ext>.
func Generate(w io.Writer, report entities.WeeklyReport, config Config) error {
	var render func(io.Writer, entities.WeeklyReport) error
	switch config.Format {
	case "", "text":
		render = func(w io.Writer, r entities.WeeklyReport) error { return WriteText(w, r, config.Verbose) }
	case "json":
		render = WriteJSON
	case "csv":
		render = WriteCSV
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}

	if err := render(w, report); err != nil {
		return err
	}
	if config.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	ext := config.Format
	if ext == "" || ext == "text" {
		ext = "txt"
	}
	filename := filepath.Join(config.OutputDir, fmt.Sprintf("REPT%02d_C%d.%s", report.Week, report.CompanyID, ext))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := render(file, report); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return file.Close()
}

// WriteJSON writes the report as indented JSON with values unaltered
func WriteJSON(w io.Writer, report entities.WeeklyReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// WriteText writes a human-readable report. verbose adds per-machine detail.
func WriteText(w io.Writer, r entities.WeeklyReport, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	p := func(format string, args ...any) { fmt.Fprintf(tw, format, args...) }

	kind := "production week"
	if r.ShippingWeek {
		kind = "shipping week"
	}
	p("Company %d\tWeek %d (%s)\t\n\n", r.CompanyID, r.Week, kind)

	p("Costs\tX\tY\tZ\tTotal\tCumulative\t\n")
	for _, line := range productCostLines {
		p("%s", line.name)
		total := decimal.Zero
		for _, prod := range entities.Products {
			v := line.get(r.Costs.Product(prod))
			total = total.Add(v)
			p("\t%s", money(v))
		}
		cum := decimal.Zero
		for _, prod := range entities.Products {
			cum = cum.Add(line.get(r.CumulativeCosts.Product(prod)))
		}
		p("\t%s\t%s\t\n", money(total), money(cum))
	}
	p("Product subtotal\t\t\t\t%s\t%s\t\n", money(r.Costs.ProductSubtotal()), money(r.CumulativeCosts.ProductSubtotal()))
	for _, line := range overheadLines {
		p("%s\t\t\t\t%s\t%s\t\n", line.name, money(line.get(r.Costs.Overhead)), money(line.get(r.CumulativeCosts.Overhead)))
	}
	p("Overhead subtotal\t\t\t\t%s\t%s\t\n", money(r.Costs.Overhead.Total()), money(r.CumulativeCosts.Overhead.Total()))
	p("Total\t\t\t\t%s\t%s\t\n\n", money(r.Costs.Total()), money(r.CumulativeCosts.Total()))

	p("Inventory\tBeginning\tReceived\tProduced\tUsed\tShortage\tEnding\t\n")
	lines := append([]entities.InventoryLine{r.Inventory.RawMaterials}, r.Inventory.Parts...)
	lines = append(lines, r.Inventory.Products...)
	for _, l := range lines {
		p("%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", l.Item, units(l.Beginning), units(l.Received), units(l.Produced),
			units(l.Used), units(l.Shortage), units(l.Ending))
	}
	p("\n")

	if verbose {
		p("Machine\tOperator\tItem\tSched\tSetup\tProd\tEff\tGross\tRejects\tNet\t\n")
		for _, m := range r.Machines {
			item := m.Item
			if m.SentForTraining {
				item += " (T)"
			}
			if m.NeedsRepair {
				item += " (R)"
			}
			p("%d\t%d\t%s\t%s\t%s\t%s\t%s%%\t%s\t%s\t%s\t\n", m.MachineID, m.OperatorID, item,
				units(m.ScheduledHours), units(m.SetupHours), units(m.ProductiveHours),
				m.Efficiency.Mul(decimal.NewFromInt(100)).StringFixed(0),
				units(m.Gross), units(m.Rejects), units(m.Net))
		}
		p("\n")
	}

	if len(r.PendingOrders) > 0 {
		p("Pending orders\tAmount\tPlaced\tDue\t\n")
		for _, o := range r.PendingOrders {
			p("%s\t%s\t%d\t%d\t\n", o.Type, units(o.Amount), o.WeekPlaced, o.WeekDue)
		}
		p("\n")
	}

	if len(r.Demand) > 0 {
		p("Demand\tWeek\tEstimated\tActual\tCarryover\tTotal\tShipped\t\n")
		for _, d := range r.Demand {
			p("%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n", d.Product, d.ShippingWeek, units(d.Estimated), optional(d.Actual),
				units(d.Carryover), units(d.Total), optional(d.Shipped))
		}
		p("\n")
	}

	p("Performance\tWeek\tCumulative\t\n")
	p("Standard cost\t%s\t%s\t\n", money(r.Performance.StandardCost), money(r.CumulativePerformance.StandardCost))
	p("Actual cost\t%s\t%s\t\n", money(r.Performance.ActualCost), money(r.CumulativePerformance.ActualCost))
	p("Efficiency %%\t%s\t%s\t\n", r.Performance.EfficiencyPercent.StringFixed(1), r.CumulativePerformance.EfficiencyPercent.StringFixed(1))
	p("Variance/unit\t%s\t%s\t\n", money(r.Performance.VariancePerUnit), money(r.CumulativePerformance.VariancePerUnit))
	p("On-time delivery %%\t%s\t%s\t\n", optional(r.Performance.OnTimeDelivery), optional(r.CumulativePerformance.OnTimeDelivery))

	if err := tw.Flush(); err != nil {
		return err
	}

	if ws := workforceLines(r.Workforce); len(ws) > 0 {
		fmt.Fprintf(w, "\nWorkforce: %d operators\n", r.Workforce.Headcount)
		for _, l := range ws {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

// WriteCSV writes the cost sheet as section,category,product,weekly,cumulative rows
func WriteCSV(w io.Writer, r entities.WeeklyReport) error {
	cw := csv.NewWriter(w)
	week := strconv.Itoa(r.Week)
	rows := [][]string{{"week", "section", "category", "product", "weekly", "cumulative"}}
	for _, line := range productCostLines {
		for _, prod := range entities.Products {
			rows = append(rows, []string{week, "product", line.key, prod.String(),
				line.get(r.Costs.Product(prod)).String(), line.get(r.CumulativeCosts.Product(prod)).String()})
		}
	}
	for _, line := range overheadLines {
		rows = append(rows, []string{week, "overhead", line.key, "",
			line.get(r.Costs.Overhead).String(), line.get(r.CumulativeCosts.Overhead).String()})
	}
	rows = append(rows, []string{week, "total", "total", "", r.Costs.Total().String(), r.CumulativeCosts.Total().String()})
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

type productCostLine struct {
	key, name string
	get       func(entities.ProductCosts) decimal.Decimal
}

var productCostLines = []productCostLine{
	{"labor", "Labor", func(c entities.ProductCosts) decimal.Decimal { return c.Labor }},
	{"machine_setup", "Machine setup", func(c entities.ProductCosts) decimal.Decimal { return c.MachineSetup }},
	{"machine_repair", "Machine repair", func(c entities.ProductCosts) decimal.Decimal { return c.MachineRepair }},
	{"raw_materials", "Raw materials", func(c entities.ProductCosts) decimal.Decimal { return c.RawMaterials }},
	{"purchased_parts", "Purchased parts", func(c entities.ProductCosts) decimal.Decimal { return c.PurchasedParts }},
	{"equipment_usage", "Equipment usage", func(c entities.ProductCosts) decimal.Decimal { return c.EquipmentUsage }},
	{"parts_carrying", "Parts carrying", func(c entities.ProductCosts) decimal.Decimal { return c.PartsCarrying }},
	{"products_carrying", "Products carrying", func(c entities.ProductCosts) decimal.Decimal { return c.ProductsCarrying }},
	{"demand_penalty", "Demand penalty", func(c entities.ProductCosts) decimal.Decimal { return c.DemandPenalty }},
}

type overheadLine struct {
	key, name string
	get       func(entities.OverheadCosts) decimal.Decimal
}

var overheadLines = []overheadLine{
	{"quality", "Quality", func(c entities.OverheadCosts) decimal.Decimal { return c.Quality }},
	{"maintenance", "Maintenance", func(c entities.OverheadCosts) decimal.Decimal { return c.Maintenance }},
	{"training", "Training", func(c entities.OverheadCosts) decimal.Decimal { return c.Training }},
	{"hiring", "Hiring", func(c entities.OverheadCosts) decimal.Decimal { return c.Hiring }},
	{"layoff_and_termination", "Layoff and termination", func(c entities.OverheadCosts) decimal.Decimal { return c.LayoffAndTermination }},
	{"raw_materials_carrying", "Raw materials carrying", func(c entities.OverheadCosts) decimal.Decimal { return c.RawMaterialsCarrying }},
	{"ordering", "Ordering", func(c entities.OverheadCosts) decimal.Decimal { return c.Ordering }},
	{"fixed_expense", "Fixed expense", func(c entities.OverheadCosts) decimal.Decimal { return c.FixedExpense }},
}

func workforceLines(s entities.WorkforceSummary) []string {
	var out []string
	add := func(label string, ids []int) {
		if len(ids) == 0 {
			return
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		out = append(out, fmt.Sprintf("%s: %s", label, strings.Join(parts, ", ")))
	}
	add("hired", s.Hired)
	add("sent to training", s.SentToTraining)
	add("completed training", s.CompletedTraining)
	add("laid off", s.LaidOff)
	add("terminated", s.Terminated)
	return out
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func units(d decimal.Decimal) string { return d.StringFixed(0) }

func optional(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(1)
}
