package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/application/services/simulation"
	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
	testhelpers "github.com/vsinha/prosim/pkg/infrastructure/testing"
)

func weekOneReport(t *testing.T) entities.WeeklyReport {
	t.Helper()
	sim := simulation.NewSimulator(config.Default(), false)
	company := testhelpers.NewTestCompany(t, 1)
	d := testhelpers.UniformDecisions(1, 1, 1, "40")
	d.RawMaterialsRegular = testhelpers.Dec("1000")
	d.Machines[0].SendForTraining = true

	res, err := sim.ProcessWeek(context.Background(), company, d)
	require.NoError(t, err)
	return res.Report
}

func TestWriteJSON_ValuesUnaltered(t *testing.T) {
	report := weekOneReport(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))

	var decoded entities.WeeklyReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.Week, decoded.Week)
	assert.True(t, report.Costs.Total().Equal(decoded.Costs.Total()))
	assert.True(t, report.Inventory.RawMaterials.Ending.Equal(decoded.Inventory.RawMaterials.Ending))
	assert.Len(t, decoded.Machines, len(report.Machines))
}

func TestWriteText(t *testing.T) {
	report := weekOneReport(t)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, report, false))
	out := buf.String()

	assert.Contains(t, out, "Company 1")
	assert.Contains(t, out, "Week 1 (production week)")
	assert.Contains(t, out, "Fixed expense")
	assert.Contains(t, out, report.Costs.Total().StringFixed(2))
	assert.Contains(t, out, "RegularRawMaterials")
	assert.Contains(t, out, "sent to training: 1")
	assert.NotContains(t, out, "Rejects", "machine table only in verbose mode")

	buf.Reset()
	require.NoError(t, WriteText(&buf, report, true))
	assert.Contains(t, buf.String(), "Rejects")
	assert.Contains(t, buf.String(), "(T)")
}

func TestWriteCSV(t *testing.T) {
	report := weekOneReport(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// header + 9 product categories x 3 products + 8 overhead + total
	require.Len(t, rows, 1+27+8+1)
	last := rows[len(rows)-1]
	assert.Equal(t, "total", last[1])
	assert.Equal(t, report.Costs.Total().String(), last[4])
}

func TestGenerate(t *testing.T) {
	report := weekOneReport(t)
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, report, Config{Format: "json", OutputDir: dir}))
	assert.NotEmpty(t, buf.String())

	saved, err := os.ReadFile(filepath.Join(dir, "REPT01_C1.json"))
	require.NoError(t, err)
	assert.JSONEq(t, buf.String(), string(saved))

	err = Generate(&buf, report, Config{Format: "xml"})
	assert.Error(t, err)
}
