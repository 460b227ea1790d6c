package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"surveyd/internal/models"
	"surveyd/internal/structures"
	"surveyd/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsConfig(totalLots int) *structures.Config {
	return &structures.Config{
		Survey: structures.SurveyConfig{TotalLots: totalLots},
	}
}

func TestStatsService_Stats(t *testing.T) {
	subs := &testutil.MockSubmissionStore{
		AggregateFn: func(_ context.Context) (*models.SurveyStats, error) {
			return &models.SurveyStats{
				TotalResponses: 30,
				ByStatus:       map[string]int{"owner": 20, "tenant": 10},
			}, nil
		},
	}
	st := NewStatsService(statsConfig(120), subs)

	stats, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, stats.TotalResponses)
	assert.Equal(t, 120, stats.TotalLots)
	assert.Equal(t, 25.0, stats.ParticipationRate)
}

func TestStatsService_StatsZeroLots(t *testing.T) {
	st := NewStatsService(statsConfig(0), &testutil.MockSubmissionStore{})

	stats, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.ParticipationRate)
}

func TestStatsService_ExportCSV(t *testing.T) {
	email := "resident@example.com"
	created := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	subs := &testutil.MockSubmissionStore{
		ListAllFn: func(_ context.Context) ([]models.SubmissionRecord, error) {
			return []models.SubmissionRecord{{
				ID:             1,
				CreatedAt:      created,
				Building:       "A",
				Apartment:      "12",
				Status:         "owner",
				HasEV:          "yes",
				Interested:     "yes",
				Comments:       "with, comma",
				Email:          &email,
				ConsentContact: true,
			}}, nil
		},
	}
	st := NewStatsService(statsConfig(120), subs)

	out, err := st.ExportCSV(context.Background())
	require.NoError(t, err)

	// UTF-8 BOM prefix for spreadsheet compatibility
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	r := csv.NewReader(bytes.NewReader(out[3:]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2026-03-15 10:30:00", rows[1][1])
	assert.Equal(t, "A", rows[1][2])
	assert.Equal(t, "with, comma", rows[1][10])
	assert.Equal(t, email, rows[1][11])
	assert.Equal(t, "true", rows[1][12])
}

func TestStatsService_ExportCSVEmpty(t *testing.T) {
	st := NewStatsService(statsConfig(120), &testutil.MockSubmissionStore{})

	out, err := st.ExportCSV(context.Background())
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out[3:]))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
