package decs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
)

// MachineLines is the number of machine rows in a decision file
const MachineLines = 9

var ErrMalformed = errors.New("malformed decision file")

// ParseError points at the offending line of a decision file
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// Loader reads and writes weekly decisions in the DECS text format:
//
//	week company quality maintenance rm_regular rm_expedited
//	x_prime y_prime z_prime
//	machine train_flag part_code hours   (nine lines, train_flag 0 sends the operator to training)
type Loader struct{}

// NewLoader creates a new DECS loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile loads decisions from a DECS file
func (l *Loader) LoadFile(filename string) (entities.Decisions, error) {
	file, err := os.Open(filename)
	if err != nil {
		return entities.Decisions{}, fmt.Errorf("failed to open decisions file %s: %w", filename, err)
	}
	defer file.Close()

	d, err := l.Load(file)
	if err != nil {
		return entities.Decisions{}, fmt.Errorf("%s: %w", filename, err)
	}
	return d, nil
}

// Load parses decisions from r. Blank lines are skipped and CRLF endings accepted.
func (l *Loader) Load(r io.Reader) (entities.Decisions, error) {
	type line struct {
		number int
		fields []string
	}
	var lines []line
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		fields := strings.Fields(strings.ReplaceAll(scanner.Text(), "\r", ""))
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, line{number: n, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return entities.Decisions{}, fmt.Errorf("failed to read decisions: %w", err)
	}
	if len(lines) < 2+MachineLines {
		return entities.Decisions{}, &ParseError{Msg: fmt.Sprintf("expected at least %d lines, got %d", 2+MachineLines, len(lines))}
	}

	header, err := parseValues(lines[0].fields, 6, lines[0].number)
	if err != nil {
		return entities.Decisions{}, err
	}
	week, err := wholeNumber(header[0], "week", lines[0].number)
	if err != nil {
		return entities.Decisions{}, err
	}
	company, err := wholeNumber(header[1], "company", lines[0].number)
	if err != nil {
		return entities.Decisions{}, err
	}

	d := entities.Decisions{
		Week:                  week,
		CompanyID:             company,
		QualityBudget:         header[2],
		MaintenanceBudget:     header[3],
		RawMaterialsRegular:   header[4],
		RawMaterialsExpedited: header[5],
		PartOrders:            make(entities.Amounts[entities.PartType], len(entities.Parts)),
	}

	orders, err := parseValues(lines[1].fields, len(entities.Parts), lines[1].number)
	if err != nil {
		return entities.Decisions{}, err
	}
	for i, p := range entities.Parts {
		d.PartOrders[p] = orders[i]
	}

	for _, ln := range lines[2 : 2+MachineLines] {
		values, err := parseValues(ln.fields, 4, ln.number)
		if err != nil {
			return entities.Decisions{}, err
		}
		id, err := wholeNumber(values[0], "machine id", ln.number)
		if err != nil {
			return entities.Decisions{}, err
		}
		flag, err := wholeNumber(values[1], "train flag", ln.number)
		if err != nil {
			return entities.Decisions{}, err
		}
		code, err := wholeNumber(values[2], "part code", ln.number)
		if err != nil {
			return entities.Decisions{}, err
		}
		d.Machines = append(d.Machines, entities.MachineDecision{
			MachineID:       id,
			SendForTraining: flag == 0,
			PartCode:        code,
			ScheduledHours:  values[3],
		})
	}
	return d, nil
}

// Write renders decisions in the DECS format. Operator overrides and hires
// have no place in the format and are dropped.
func (l *Loader) Write(w io.Writer, d entities.Decisions) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, " %-13d%-14d%-14s%-14s%-14s%s\n",
		d.Week, d.CompanyID,
		d.QualityBudget.String(), d.MaintenanceBudget.String(),
		d.RawMaterialsRegular.String(), d.RawMaterialsExpedited.String())

	orders := make([]string, 0, len(entities.Parts))
	for _, p := range entities.Parts {
		orders = append(orders, d.PartOrders.Get(p).String())
	}
	fmt.Fprintf(bw, " %-14s%-14s%s\n", orders[0], orders[1], orders[2])

	for _, m := range d.Machines {
		flag := 1
		if m.SendForTraining {
			flag = 0
		}
		fmt.Fprintf(bw, " %-14d%-14d%-14d%s\n", m.MachineID, flag, m.PartCode, m.ScheduledHours.String())
	}
	return bw.Flush()
}

// WriteFile writes decisions to filename
func (l *Loader) WriteFile(filename string, d entities.Decisions) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create decisions file %s: %w", filename, err)
	}
	if err := l.Write(file, d); err != nil {
		file.Close()
		return fmt.Errorf("failed to write decisions file %s: %w", filename, err)
	}
	return file.Close()
}

// LoadDir loads every DECS*.DAT and DECS*.txt file in dir, ordered by week.
// Two files for the same week and company are rejected.
func (l *Loader) LoadDir(dir string) ([]entities.Decisions, error) {
	var files []string
	for _, pattern := range []string{"DECS*.DAT", "DECS*.txt"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no decision files in %s", dir)
	}

	seen := make(map[[2]int]string, len(files))
	out := make([]entities.Decisions, 0, len(files))
	for _, f := range files {
		d, err := l.LoadFile(f)
		if err != nil {
			return nil, err
		}
		key := [2]int{d.Week, d.CompanyID}
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s and %s both hold week %d for company %d", prev, f, d.Week, d.CompanyID)
		}
		seen[key] = f
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].CompanyID < out[j].CompanyID
	})
	return out, nil
}

func parseValues(fields []string, expected, line int) ([]decimal.Decimal, error) {
	if len(fields) != expected {
		return nil, &ParseError{Line: line, Msg: fmt.Sprintf("expected %d values, got %d", expected, len(fields))}
	}
	values := make([]decimal.Decimal, len(fields))
	for i, f := range fields {
		v, err := decimal.NewFromString(f)
		if err != nil {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("invalid number %q", f)}
		}
		values[i] = v
	}
	return values, nil
}

// wholeNumber accepts integral values written as "3" or "3.0"
func wholeNumber(v decimal.Decimal, name string, line int) (int, error) {
	if !v.Equal(v.Truncate(0)) {
		return 0, &ParseError{Line: line, Msg: fmt.Sprintf("%s must be a whole number, got %s", name, v)}
	}
	n, err := strconv.Atoi(v.String())
	if err != nil {
		return 0, &ParseError{Line: line, Msg: fmt.Sprintf("%s out of range: %s", name, v)}
	}
	return n, nil
}
