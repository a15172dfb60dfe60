package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
	"github.com/vsinha/prosim/pkg/infrastructure/decs"
	testhelpers "github.com/vsinha/prosim/pkg/infrastructure/testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := BuildCLI()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDecs(t *testing.T, dir string, d entities.Decisions) string {
	t.Helper()
	path := filepath.Join(dir, "DECS"+twoDigits(d.Week)+"_C"+twoDigits(d.CompanyID)+".DAT")
	require.NoError(t, decs.NewLoader().WriteFile(path, d))
	return path
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func TestCLI_NewWeekReport(t *testing.T) {
	state := t.TempDir()
	decsDir := t.TempDir()

	out, err := execute(t, "--state-dir", state, "new", "--company", "1", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "created company 1")

	_, err = execute(t, "--state-dir", state, "new", "--company", "1")
	assert.Error(t, err, "company already exists")

	file := writeDecs(t, decsDir, testhelpers.UniformDecisions(1, 1, 1, "40"))
	out, err = execute(t, "--state-dir", state, "week", "--decs", file, "--format", "json")
	require.NoError(t, err)

	var report entities.WeeklyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Week)
	assert.Equal(t, 1, report.CompanyID)

	out, err = execute(t, "--state-dir", state, "report", "--company", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Week 1")

	_, err = execute(t, "--state-dir", state, "report", "--company", "1", "--week", "4")
	assert.Error(t, err)

	out, err = execute(t, "--state-dir", state, "week", "--decs", file)
	assert.Error(t, err, "week 1 was already played")
	assert.Empty(t, out)
}

func TestCLI_RunDirectory(t *testing.T) {
	state := t.TempDir()
	decsDir := t.TempDir()

	_, err := execute(t, "--state-dir", state, "new", "--company", "1,2", "--seed", "7")
	require.NoError(t, err)

	for week := 1; week <= 2; week++ {
		for _, id := range []int{1, 2} {
			writeDecs(t, decsDir, testhelpers.UniformDecisions(week, id, id, "40"))
		}
	}

	out, err := execute(t, "--state-dir", state, "run", "--decs-dir", decsDir, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "week,section,category")

	for _, id := range []int{1, 2} {
		_, err := os.Stat(filepath.Join(state, "company-00"+string(rune('0'+id)), "week-003.json"))
		assert.NoError(t, err, "company %d advanced to week 3", id)
	}

	out, err = execute(t, "--state-dir", state, "run", "--decs-dir", decsDir)
	require.NoError(t, err, "rerunning skips weeks already played")
	assert.Empty(t, out)
}

func TestCLI_Config(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")

	out, err := execute(t, "--state-dir", dir, "config", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Simulation.MaxWeeks, loaded.Simulation.MaxWeeks)

	out, err = execute(t, "--state-dir", dir, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "max_weeks")

	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  max_weeks_typo: 3\n"), 0o644))
	_, err = execute(t, "--state-dir", dir, "--config", path, "config")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "json")
	require.NoError(t, err)
	logger.Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = NewLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
