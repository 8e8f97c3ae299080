package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/gradlift/scholar-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS applications (
	id             TEXT PRIMARY KEY,
	scholarship_id TEXT NOT NULL,
	applicant_id   TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'applied',
	timeline       TEXT NOT NULL,
	documents      TEXT NOT NULL,
	deadline       DATETIME NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS saved_scholarships (
	scholarship_id TEXT PRIMARY KEY,
	saved          INTEGER NOT NULL DEFAULT 0,
	version        INTEGER NOT NULL DEFAULT 1,
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
CREATE INDEX IF NOT EXISTS idx_applications_scholarship ON applications(scholarship_id);
CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateApplication(ctx context.Context, app *model.Application) error {
	timelineJSON, documentsJSON, err := marshalApplication(app)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO applications (id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.ScholarshipID, app.ApplicantID, string(app.Status),
		timelineJSON, documentsJSON, app.Deadline.UTC(), app.CreatedAt.UTC(), app.UpdatedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: insert application")
}

func (s *SQLiteStore) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at
		 FROM applications WHERE id = ?`,
		id,
	)
	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, &model.NotFoundError{Kind: "application", ID: id}
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get application %s", id)
	}
	return app, nil
}

func (s *SQLiteStore) UpdateApplication(ctx context.Context, app *model.Application) error {
	timelineJSON, documentsJSON, err := marshalApplication(app)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = ?, timeline = ?, documents = ?, updated_at = ? WHERE id = ?`,
		string(app.Status), timelineJSON, documentsJSON, app.UpdatedAt.UTC(), app.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update application %s", app.ID)
	}
	return checkRowsAffected(res, "application", app.ID)
}

func (s *SQLiteStore) ListApplications(ctx context.Context, filter ApplicationFilter) ([]model.Application, error) {
	query := `SELECT id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at
	          FROM applications WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.ScholarshipID != "" {
		query += ` AND scholarship_id = ?`
		args = append(args, filter.ScholarshipID)
	}
	if filter.ApplicantID != "" {
		query += ` AND applicant_id = ?`
		args = append(args, filter.ApplicantID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list applications")
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan application")
		}
		apps = append(apps, *app)
	}
	return apps, eris.Wrap(rows.Err(), "sqlite: list applications iterate")
}

func (s *SQLiteStore) GetSaved(ctx context.Context, scholarshipID string) (*SavedState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT scholarship_id, saved, version FROM saved_scholarships WHERE scholarship_id = ?`,
		scholarshipID,
	)
	st := &SavedState{}
	err := row.Scan(&st.ScholarshipID, &st.Saved, &st.Version)
	if err == sql.ErrNoRows {
		// Lazily created: absent means unsaved at version 1.
		return &SavedState{ScholarshipID: scholarshipID, Saved: false, Version: 1}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get saved")
	}
	return st, nil
}

func (s *SQLiteStore) ToggleSaved(ctx context.Context, scholarshipID string, expectedVersion int64) (*SavedState, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO saved_scholarships (scholarship_id, saved, version) VALUES (?, 0, 1)`,
		scholarshipID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: ensure saved row")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE saved_scholarships
		 SET saved = 1 - saved, version = version + 1, updated_at = ?
		 WHERE scholarship_id = ? AND version = ?`,
		time.Now().UTC(), scholarshipID, expectedVersion,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: toggle saved")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: toggle saved rows affected")
	}
	if n == 0 {
		current, gerr := s.GetSaved(ctx, scholarshipID)
		if gerr != nil {
			return nil, gerr
		}
		return nil, &model.ConcurrentModificationError{
			ScholarshipID:   scholarshipID,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  current.Version,
		}
	}
	return s.GetSaved(ctx, scholarshipID)
}

// helpers

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return &model.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func marshalApplication(app *model.Application) (timelineJSON, documentsJSON string, err error) {
	tl, err := json.Marshal(app.Timeline)
	if err != nil {
		return "", "", eris.Wrap(err, "marshal timeline")
	}
	docs, err := json.Marshal(app.Documents)
	if err != nil {
		return "", "", eris.Wrap(err, "marshal documents")
	}
	return string(tl), string(docs), nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(row scannable) (*model.Application, error) {
	var app model.Application
	var timelineJSON, documentsJSON string

	err := row.Scan(&app.ID, &app.ScholarshipID, &app.ApplicantID, &app.Status,
		&timelineJSON, &documentsJSON, &app.Deadline, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(timelineJSON), &app.Timeline); err != nil {
		return nil, eris.Wrap(err, "unmarshal timeline")
	}
	if err := json.Unmarshal([]byte(documentsJSON), &app.Documents); err != nil {
		return nil, eris.Wrap(err, "unmarshal documents")
	}
	return &app, nil
}
