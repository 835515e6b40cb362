// Package visitors records privacy-preserving page visits in SQLite and
// aggregates them for the admin endpoints.
package visitors

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrDisabled is returned when visitor tracking is switched off.
var ErrDisabled = errors.New("visitor tracking is disabled")

const (
	topPathsLimit     = 10
	recentVisitsLimit = 20
)

// Visit is one recorded page view. VisitorHash never holds a raw address.
type Visit struct {
	VisitorHash string
	UserAgent   string
	Path        string
	At          time.Time
}

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// RecentVisit is a stored visit as shown to the admin.
type RecentVisit struct {
	VisitorHash string    `json:"visitor_hash"`
	Path        string    `json:"path"`
	UserAgent   string    `json:"user_agent"`
	VisitedAt   time.Time `json:"visited_at"`
}

type Stats struct {
	TotalVisits    int64         `json:"total_visits"`
	UniqueVisitors int64         `json:"unique_visitors"`
	VisitsToday    int64         `json:"visits_today"`
	VisitsThisWeek int64         `json:"visits_this_week"`
	TopPaths       []PathCount   `json:"top_paths"`
	RecentVisits   []RecentVisit `json:"recent_visits"`
	LastVisit      *time.Time    `json:"last_visit,omitempty"`
	LastVisitAgo   string        `json:"last_visit_ago,omitempty"`
	DatabaseSize   string        `json:"database_size"`
}

// Store is the SQLite-backed visit log.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the visit database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, errors.Wrap(err, "creating visitors dir")
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "opening visitors db")
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}

	return &Store{db: db, path: dbPath, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a single visit.
func (s *Store) Record(ctx context.Context, v Visit) error {
	at := v.At
	if at.IsZero() {
		at = s.now()
	}

	query, args, err := squirrel.
		Insert("visits").
		Columns("visitor_hash", "user_agent", "path", "visited_at").
		Values(v.VisitorHash, v.UserAgent, v.Path, formatTime(at)).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building insert")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "recording visit")
	}
	return nil
}

// Stats aggregates every stored visit relative to the current time.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := &Stats{TopPaths: []PathCount{}, RecentVisits: []RecentVisit{}}

	counts := []struct {
		dst   *int64
		query squirrel.SelectBuilder
	}{
		{&stats.TotalVisits, squirrel.Select("COUNT(*)").From("visits")},
		{&stats.UniqueVisitors, squirrel.Select("COUNT(DISTINCT visitor_hash)").From("visits")},
		{&stats.VisitsToday, squirrel.Select("COUNT(*)").From("visits").
			Where(squirrel.GtOrEq{"visited_at": formatTime(startOfDay)})},
		{&stats.VisitsThisWeek, squirrel.Select("COUNT(*)").From("visits").
			Where(squirrel.GtOrEq{"visited_at": formatTime(now.AddDate(0, 0, -7))})},
	}
	for _, c := range counts {
		if err := s.scalar(ctx, c.query, c.dst); err != nil {
			return nil, err
		}
	}

	top, err := s.topPaths(ctx)
	if err != nil {
		return nil, err
	}
	stats.TopPaths = top

	recent, err := s.recentVisits(ctx)
	if err != nil {
		return nil, err
	}
	stats.RecentVisits = recent

	last, err := s.lastVisit(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil {
		stats.LastVisit = last
		stats.LastVisitAgo = humanize.RelTime(*last, now, "ago", "from now")
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.DatabaseSize = humanize.Bytes(uint64(info.Size()))
	}

	return stats, nil
}

// Purge deletes visits recorded before the cutoff and reports how many went.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := squirrel.
		Delete("visits").
		Where(squirrel.Lt{"visited_at": formatTime(before)}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building purge")
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "purging visits")
	}

	return result.RowsAffected()
}

func (s *Store) scalar(ctx context.Context, b squirrel.SelectBuilder, dst *int64) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building count")
	}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(dst); err != nil {
		return errors.Wrapf(err, "running %q", query)
	}
	return nil
}

func (s *Store) topPaths(ctx context.Context) ([]PathCount, error) {
	query, args, err := squirrel.
		Select("path", "COUNT(*) AS hits").
		From("visits").
		GroupBy("path").
		OrderBy("hits DESC", "path ASC").
		Limit(topPathsLimit).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building top paths")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying top paths")
	}
	defer func() { _ = rows.Close() }()

	result := []PathCount{}
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, errors.Wrap(err, "scanning top path")
		}
		result = append(result, pc)
	}
	return result, rows.Err()
}

func (s *Store) recentVisits(ctx context.Context) ([]RecentVisit, error) {
	query, args, err := squirrel.
		Select("visitor_hash", "path", "user_agent", "visited_at").
		From("visits").
		OrderBy("visited_at DESC", "id DESC").
		Limit(recentVisitsLimit).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building recent visits")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent visits")
	}
	defer func() { _ = rows.Close() }()

	result := []RecentVisit{}
	for rows.Next() {
		var (
			rv  RecentVisit
			raw string
		)
		if err := rows.Scan(&rv.VisitorHash, &rv.Path, &rv.UserAgent, &raw); err != nil {
			return nil, errors.Wrap(err, "scanning recent visit")
		}
		if rv.VisitedAt, err = time.Parse(time.RFC3339, raw); err != nil {
			return nil, errors.Wrap(err, "parsing recent visit")
		}
		result = append(result, rv)
	}
	return result, rows.Err()
}

func (s *Store) lastVisit(ctx context.Context) (*time.Time, error) {
	query, args, err := squirrel.Select("MAX(visited_at)").From("visits").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building last visit")
	}

	var raw sql.NullString
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return nil, errors.Wrap(err, "querying last visit")
	}
	if !raw.Valid {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return nil, errors.Wrap(err, "parsing last visit")
	}
	return &t, nil
}

// formatTime keeps timestamps lexically ordered in the text column.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
