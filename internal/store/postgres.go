package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/gradlift/scholar-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot store operations.
var preparedStatements = map[string]string{
	"insert_application": `INSERT INTO applications (id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
	"get_application":    `SELECT id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at FROM applications WHERE id = $1`,
	"update_application": `UPDATE applications SET status = $1, timeline = $2, documents = $3, updated_at = $4 WHERE id = $5`,
	"get_saved":          `SELECT scholarship_id, saved, version FROM saved_scholarships WHERE scholarship_id = $1`,
	"toggle_saved":       `UPDATE saved_scholarships SET saved = NOT saved, version = version + 1, updated_at = $1 WHERE scholarship_id = $2 AND version = $3 RETURNING saved, version`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS applications (
	id             TEXT PRIMARY KEY,
	scholarship_id TEXT NOT NULL,
	applicant_id   TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'applied',
	timeline       JSONB NOT NULL,
	documents      JSONB NOT NULL,
	deadline       TIMESTAMPTZ NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS saved_scholarships (
	scholarship_id TEXT PRIMARY KEY,
	saved          BOOLEAN NOT NULL DEFAULT false,
	version        BIGINT NOT NULL DEFAULT 1,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
CREATE INDEX IF NOT EXISTS idx_applications_scholarship ON applications(scholarship_id);
CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateApplication(ctx context.Context, app *model.Application) error {
	timelineJSON, documentsJSON, err := marshalApplication(app)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO applications (id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.ScholarshipID, app.ApplicantID, string(app.Status),
		timelineJSON, documentsJSON, app.Deadline.UTC(), app.CreatedAt.UTC(), app.UpdatedAt.UTC(),
	)
	return eris.Wrap(err, "postgres: insert application")
}

func (s *PostgresStore) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at
		 FROM applications WHERE id = $1`,
		id,
	)
	app, err := scanPgApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &model.NotFoundError{Kind: "application", ID: id}
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get application %s", id)
	}
	return app, nil
}

func (s *PostgresStore) UpdateApplication(ctx context.Context, app *model.Application) error {
	timelineJSON, documentsJSON, err := marshalApplication(app)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE applications SET status = $1, timeline = $2, documents = $3, updated_at = $4 WHERE id = $5`,
		string(app.Status), timelineJSON, documentsJSON, app.UpdatedAt.UTC(), app.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update application %s", app.ID)
	}
	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{Kind: "application", ID: app.ID}
	}
	return nil
}

func (s *PostgresStore) ListApplications(ctx context.Context, filter ApplicationFilter) ([]model.Application, error) {
	query := `SELECT id, scholarship_id, applicant_id, status, timeline, documents, deadline, created_at, updated_at
	          FROM applications WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.ScholarshipID != "" {
		query += ` AND scholarship_id = ` + arg(filter.ScholarshipID)
	}
	if filter.ApplicantID != "" {
		query += ` AND applicant_id = ` + arg(filter.ApplicantID)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list applications")
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		app, err := scanPgApplication(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan application")
		}
		apps = append(apps, *app)
	}
	return apps, eris.Wrap(rows.Err(), "postgres: list applications iterate")
}

func (s *PostgresStore) GetSaved(ctx context.Context, scholarshipID string) (*SavedState, error) {
	st := &SavedState{}
	err := s.pool.QueryRow(ctx,
		`SELECT scholarship_id, saved, version FROM saved_scholarships WHERE scholarship_id = $1`,
		scholarshipID,
	).Scan(&st.ScholarshipID, &st.Saved, &st.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return &SavedState{ScholarshipID: scholarshipID, Saved: false, Version: 1}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get saved")
	}
	return st, nil
}

func (s *PostgresStore) ToggleSaved(ctx context.Context, scholarshipID string, expectedVersion int64) (*SavedState, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO saved_scholarships (scholarship_id, saved, version) VALUES ($1, false, 1)
		 ON CONFLICT (scholarship_id) DO NOTHING`,
		scholarshipID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: ensure saved row")
	}

	st := &SavedState{ScholarshipID: scholarshipID}
	err = s.pool.QueryRow(ctx,
		`UPDATE saved_scholarships SET saved = NOT saved, version = version + 1, updated_at = $1
		 WHERE scholarship_id = $2 AND version = $3
		 RETURNING saved, version`,
		time.Now().UTC(), scholarshipID, expectedVersion,
	).Scan(&st.Saved, &st.Version)
	if errors.Is(err, pgx.ErrNoRows) {
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
	if err != nil {
		return nil, eris.Wrap(err, "postgres: toggle saved")
	}
	return st, nil
}

func scanPgApplication(row pgx.Row) (*model.Application, error) {
	var app model.Application
	var status string
	var timelineJSON, documentsJSON []byte

	err := row.Scan(&app.ID, &app.ScholarshipID, &app.ApplicantID, &status,
		&timelineJSON, &documentsJSON, &app.Deadline, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	app.Status = model.ApplicationStatus(status)

	if err := json.Unmarshal(timelineJSON, &app.Timeline); err != nil {
		return nil, eris.Wrap(err, "unmarshal timeline")
	}
	if err := json.Unmarshal(documentsJSON, &app.Documents); err != nil {
		return nil, eris.Wrap(err, "unmarshal documents")
	}
	return &app, nil
}
