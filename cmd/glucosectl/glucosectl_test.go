package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/glucolog/backend/internal/store"
	"github.com/pageza/glucolog/backend/internal/testdb"
)

const glucoseExport = `timestamp,glucose (mg/dL)
2024/03/04  00:00:00,100
2024/03/04  02:00:00,150
2024/03/04  02:00:00,200
2024/03/04  04:00:00,200
`

func runMean(t *testing.T, input string, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"mean"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMeanWeekly(t *testing.T) {
	out, err := runMean(t, glucoseExport, "--mode", "weekly")
	require.NoError(t, err)
	assert.Equal(t, "year/week,time-weighted mean glucose (mg/dL)\n2024/W10,198.81\n", out)
}

func TestMeanDaily(t *testing.T) {
	out, err := runMean(t, glucoseExport+"2024/03/05  00:00:00,120\n", "--mode", "daily")
	require.NoError(t, err)
	assert.Equal(t, "date,time-weighted mean glucose (mg/dL)\n2024/03/04,191.67\n2024/03/05,120.00\n", out)
}

func TestMeanRejectsBadInput(t *testing.T) {
	_, err := runMean(t, "time,level\n", "--mode", "weekly")
	assert.Error(t, err)

	_, err = runMean(t, glucoseExport, "--mode", "hourly")
	assert.Error(t, err)

	_, err = runMean(t, "timestamp,glucose (mg/dL)\nyesterday,100\n", "--mode", "weekly")
	assert.Error(t, err)
}

func TestReadGlucoseCSVDeduplicates(t *testing.T) {
	samples, err := readGlucoseCSV(strings.NewReader(glucoseExport))
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, 200.0, samples[1].Value)
	assert.True(t, samples[0].At.Before(samples[1].At))
}

func TestReadLevelCSV(t *testing.T) {
	rows, err := readLevelCSV(strings.NewReader("level,timestamp\n110,2024/03/04 08:00:00\n95,2024-03-04 12:30:00\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-04 08:00:00", rows[0].Timestamp.String())
	assert.Equal(t, "110", rows[0].Level)

	_, err = readLevelCSV(strings.NewReader("when,level\n"))
	assert.Error(t, err)

	_, err = readLevelCSV(strings.NewReader("timestamp,level\nnot a time,1\n"))
	assert.Error(t, err)
}

func TestImportRows(t *testing.T) {
	ctx := context.Background()
	db := testdb.SQLite(t)

	rows, err := readLevelCSV(strings.NewReader("timestamp,level\n2024/03/04  08:00:00,4.5\n2024/03/04  20:00:00,6\n"))
	require.NoError(t, err)

	n, err := importRows(ctx, db, "insulin", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	doses, err := store.New(db).ListInsulin(ctx, nil)
	require.NoError(t, err)
	require.Len(t, doses, 2)
	assert.Equal(t, 4.5, doses[0].Level)

	// a bad level rolls back the whole file
	bad, err := readLevelCSV(strings.NewReader("timestamp,level\n2024/03/04  08:00:00,110\n2024/03/04  09:00:00,high\n"))
	require.NoError(t, err)
	_, err = importRows(ctx, db, "glucose", bad)
	require.Error(t, err)

	readings, err := store.New(db).ListGlucose(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, readings)
}
