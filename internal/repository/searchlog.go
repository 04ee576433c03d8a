package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SearchLogRepository persists search and feedback events to PostgreSQL.
// Logging is an optional concern: a nil *SearchLogRepository is a valid
// no-op receiver, so callers never have to branch on whether the database
// is configured.
type SearchLogRepository struct {
	db *sqlx.DB
}

// NewSearchLogRepository connects to PostgreSQL and returns the repository.
func NewSearchLogRepository(dsn string, maxConn, maxIdleConn int) (*SearchLogRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SearchLogRepository{db: db}, nil
}

// Close closes the database connection
func (r *SearchLogRepository) Close() error {
	if r == nil {
		return nil
	}
	return r.db.Close()
}

// SearchLogEntry is one logged search.
type SearchLogEntry struct {
	SearchID       string
	CenterLat      float64
	CenterLng      float64
	RadiusMeters   int
	Categories     []string
	HighRecall     bool
	ResultCount    int
	CacheHit       bool
	ResponseTimeMs int
}

// LogSearch records a completed search.
func (r *SearchLogRepository) LogSearch(ctx context.Context, e SearchLogEntry) error {
	if r == nil {
		return nil
	}
	query := `
		INSERT INTO search_logs (search_id, center_lat, center_lng, radius_meters, categories, high_recall, result_count, cache_hit, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.SearchID, e.CenterLat, e.CenterLng, e.RadiusMeters,
		pq.Array(e.Categories), e.HighRecall, e.ResultCount, e.CacheHit, e.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback records a user action (click, contact, export) on a prospect
// returned by a prior search.
func (r *SearchLogRepository) LogFeedback(ctx context.Context, searchID, placeID, action string) error {
	if r == nil {
		return nil
	}
	query := `
		UPDATE search_logs
		SET clicked_place_id = $2, action = $3
		WHERE search_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, searchID, placeID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
