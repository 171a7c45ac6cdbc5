package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"weddingbot/internal/schedule"
	logx "weddingbot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) LoadSchedule(ctx context.Context) ([]schedule.Announcement, error) {
	if s == nil || s.db == nil {
		return nil, ErrDisabled
	}
	rows, err := s.db.QueryContext(ctx, `SELECT at, body, with_menu FROM announcements ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.Announcement
	for rows.Next() {
		var (
			atText   string
			body     string
			withMenu int
		)
		if err := rows.Scan(&atText, &body, &withMenu); err != nil {
			return nil, err
		}
		// RFC 3339 text keeps the zone offset, which the dedup tolerance
		// comparison depends on across runs.
		at, err := time.Parse(time.RFC3339Nano, atText)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", atText, err)
		}
		out = append(out, schedule.Announcement{At: at, Body: body, WithMenu: withMenu != 0})
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveSchedule(ctx context.Context, list []schedule.Announcement) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM announcements`); err != nil {
		return err
	}
	for _, a := range list {
		menu := 0
		if a.WithMenu {
			menu = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO announcements(at, body, with_menu) VALUES(?,?,?)`,
			a.At.Format(time.RFC3339Nano), a.Body, menu,
		); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("schedule saved", logx.Int("count", len(list)))
	return nil
}
