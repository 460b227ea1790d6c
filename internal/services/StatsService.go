package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"surveyd/internal/models"
	"surveyd/internal/store"
	"surveyd/internal/structures"
)

type StatsServiceInterface interface {
	Stats(ctx context.Context) (*models.SurveyStats, error)
	ExportCSV(ctx context.Context) ([]byte, error)
}

type StatsService struct {
	conf        *structures.Config
	submissions store.SubmissionStoreInterface
}

func NewStatsService(conf *structures.Config, submissions store.SubmissionStoreInterface) StatsServiceInterface {
	return &StatsService{conf: conf, submissions: submissions}
}

// Stats returns the anonymized rollup plus the participation rate against
// the configured lot count.
func (st *StatsService) Stats(ctx context.Context) (*models.SurveyStats, error) {
	stats, err := st.submissions.Aggregate(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	stats.TotalLots = st.conf.Survey.TotalLots
	if stats.TotalLots > 0 {
		rate := float64(stats.TotalResponses) / float64(stats.TotalLots) * 100
		stats.ParticipationRate = math.Round(rate*10) / 10
	}
	return stats, nil
}

var csvHeader = []string{
	"id", "created_at", "building", "apartment", "parking_spot", "status",
	"has_ev", "interested", "preferred_solution", "timeline", "comments",
	"email", "consent_contact", "consent_timestamp",
}

// ExportCSV renders every stored response as UTF-8 CSV with a BOM so the
// file opens correctly in spreadsheet software. Provenance columns are
// never exported.
func (st *StatsService) ExportCSV(ctx context.Context) ([]byte, error) {
	records, err := st.submissions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		email := ""
		if rec.Email != nil {
			email = *rec.Email
		}
		consentTS := ""
		if rec.ConsentTimestamp != nil {
			consentTS = rec.ConsentTimestamp.UTC().Format("2006-01-02 15:04:05")
		}
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			rec.Building,
			rec.Apartment,
			rec.ParkingSpot,
			rec.Status,
			rec.HasEV,
			rec.Interested,
			rec.PreferredSolution,
			rec.Timeline,
			rec.Comments,
			email,
			strconv.FormatBool(rec.ConsentContact),
			consentTS,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
