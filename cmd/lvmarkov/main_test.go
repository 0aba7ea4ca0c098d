package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/config"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)

	return v
}

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func sumInts(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}

	return s
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"version": version}, decode[map[string]string](t, out))

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lvmarkov version "+version+"\n", out)
}

func TestAnalyze_DefaultLoanScenario(t *testing.T) {
	out, _, err := execute(t, "analyze", "--json")
	require.NoError(t, err)
	rep := decode[analyzeReport](t, out)

	assert.Equal(t, "loan-demo", rep.Name)
	assert.Equal(t, 12, rep.Horizon)
	assert.Equal(t, []string{"transient", "transient", "transient", "transient", "absorbing", "absorbing"}, rep.Kinds)
	assert.InDelta(t, 0.052153, rep.NStep[0][3], 1e-5, "12-month performing to NPE")

	var total float64
	for _, v := range rep.ExpectedCounts {
		total += v
	}
	assert.InDelta(t, 10_000, total, 1e-6)

	require.NotNil(t, rep.Stationary)
	assert.True(t, rep.Stationary.Ambiguous)
	assert.Equal(t, 2, rep.Stationary.Multiplicity)

	require.NotNil(t, rep.Absorption)
	assert.Equal(t, []string{"recovered", "default"}, rep.Absorption.Absorbing)
	assert.Empty(t, rep.Absorption.Error)
	assert.InDelta(t, 27.485970819, rep.Absorption.ExpectedTime[0], 1e-6)
	assert.Zero(t, rep.Absorption.ExpectedTime[4])
	p := rep.Absorption.Probabilities["performing"]
	assert.InDelta(t, 1.0, p["recovered"]+p["default"], 1e-9)
}

func TestAnalyze_TextAndMatrixCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "p3.csv")
	out, _, err := execute(t, "analyze", "--horizon", "3", "--matrix-csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "3-step transition probabilities")
	assert.Contains(t, out, "Absorption into recovered, default")
	assert.Contains(t, out, "not unique")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "from,performing,delinq30,delinq60,NPE,recovered,default\n"))
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 7)
}

func TestAnalyze_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "weather.yaml", `
name: weather
states: [sunny, rainy]
matrix:
  - [0.9, 0.1]
  - [0.5, 0.5]
initial: [100, 0]
`)
	out, _, err := execute(t, "--config", cfgPath, "analyze", "--json")
	require.NoError(t, err)
	rep := decode[analyzeReport](t, out)
	require.NotNil(t, rep.Stationary)
	assert.InDelta(t, 5.0/6.0, rep.Stationary.Pi[0], 1e-9)
	assert.InDelta(t, 1.0/6.0, rep.Stationary.Pi[1], 1e-9)
	assert.False(t, rep.Stationary.Ambiguous)
	assert.Nil(t, rep.Absorption, "no absorbing states")
	assert.Equal(t, []string{"recurrent", "recurrent"}, rep.Kinds)
}

const observations = `entity_id,date,state
a,2024-01-01,performing
a,2024-02-01,delinq30
a,2024-03-01,performing
b,2024-01-01,performing
b,2024-02-01,performing
`

func TestAnalyze_FromObservations(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "obs.csv", observations)
	cfgPath := writeTemp(t, dir, "s.yaml", "name: observed\nobservations: obs.csv\n")

	out, _, err := execute(t, "--config", cfgPath, "analyze", "--json")
	require.NoError(t, err)
	rep := decode[analyzeReport](t, out)
	assert.Equal(t, []string{"delinq30", "performing"}, rep.States)
	require.NotNil(t, rep.Stationary)
	assert.InDelta(t, 1.0/3.0, rep.Stationary.Pi[0], 1e-9)
	assert.InDelta(t, 2.0/3.0, rep.Stationary.Pi[1], 1e-9)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	obs := writeTemp(t, dir, "obs.csv", observations)

	out, _, err := execute(t, "build", obs)
	require.NoError(t, err)
	assert.Equal(t, "from,delinq30,performing\ndelinq30,0,1\nperforming,0.5,0.5\n", out)

	out, _, err = execute(t, "build", obs, "--json")
	require.NoError(t, err)
	rep := decode[buildReport](t, out)
	assert.Equal(t, 3, rep.Transitions)
	assert.Equal(t, [][]float64{{0, 1}, {0.5, 0.5}}, rep.Matrix)

	_, _, err = execute(t, "build")
	require.Error(t, err)
}

func TestSimulate_DeterministicAndConserving(t *testing.T) {
	out1, _, err := execute(t, "simulate", "--json", "--steps", "6", "--seed", "7")
	require.NoError(t, err)
	out2, _, err := execute(t, "simulate", "--json", "--steps", "6", "--seed", "7")
	require.NoError(t, err)
	assert.Equal(t, out1, out2)

	rep := decode[simulateReport](t, out1)
	assert.Equal(t, 6, rep.Steps)
	assert.Equal(t, uint64(7), rep.Seed)
	assert.Len(t, rep.History, 7)
	for _, row := range rep.History {
		assert.Equal(t, 10_000, sumInts(row))
	}
}

func TestSimulate_ReferenceStrategyText(t *testing.T) {
	out, _, err := execute(t, "simulate", "--strategy", "reference", "--steps", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "strategy reference")
	assert.Contains(t, out, "Counts after 2 steps")

	_, _, err = execute(t, "simulate", "--strategy", "poisson")
	require.Error(t, err)
}

func TestSimulate_OutputsAndRuns(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "h.csv")
	plotPath := filepath.Join(dir, "h.png")
	dbPath := filepath.Join(dir, "runs.db")

	out, _, err := execute(t, "simulate", "--json", "--steps", "3",
		"--csv", csvPath, "--plot", plotPath, "--db", dbPath)
	require.NoError(t, err)
	rep := decode[simulateReport](t, out)
	require.Positive(t, rep.RunID)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "step,performing,delinq30,delinq60,NPE,recovered,default,total\n0,10000,0,0,0,0,0,10000\n"))
	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out, _, err = execute(t, "runs", "list", "--db", dbPath, "--json")
	require.NoError(t, err)
	runs := decode[[]map[string]any](t, out)
	require.Len(t, runs, 1)
	assert.Equal(t, "loan-demo", runs[0]["name"])

	out, _, err = execute(t, "runs", "show", "1", "--db", dbPath, "--json")
	require.NoError(t, err)
	shown := decode[simulateReport](t, out)
	assert.Equal(t, rep.Final, shown.Final)
	assert.Equal(t, rep.History, shown.History)

	_, _, err = execute(t, "runs", "show", "99", "--db", dbPath)
	require.Error(t, err)
	_, _, err = execute(t, "runs", "list")
	require.Error(t, err)
}

func TestEnsemble(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	bandsPath := filepath.Join(dir, "bands.csv")

	out, _, err := execute(t, "ensemble", "--json", "--runs", "6", "--workers", "2", "--steps", "4",
		"--csv", bandsPath, "--db", dbPath)
	require.NoError(t, err)
	rep := decode[ensembleReport](t, out)
	assert.Equal(t, 6, rep.Runs)
	assert.Equal(t, 4, rep.Steps)
	require.Len(t, rep.Mean, 5)

	var total float64
	for i := range rep.Mean[4] {
		total += rep.Mean[4][i]
		assert.LessOrEqual(t, rep.Lower[4][i], rep.Mean[4][i])
		assert.GreaterOrEqual(t, rep.Upper[4][i], rep.Mean[4][i])
	}
	assert.InDelta(t, 10_000, total, 1e-6)

	data, err := os.ReadFile(bandsPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "step,state,mean,lower,upper\n0,performing,10000,10000,10000\n"))

	out, _, err = execute(t, "runs", "show", "1", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "6 runs")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "verbose", "analyze")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestLogLevelDebugWritesStderr(t *testing.T) {
	_, stderr, err := execute(t, "--log-level", "debug", "simulate", "--steps", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "scenario loaded")
}
