package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. Both *pgxpool.Pool
// and pgxmock satisfy it, which is how the postgres store is tested
// without a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on a pgx connection pool. List-valued
// investor fields are stored as jsonb; a bigserial seq column preserves
// insertion order.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects to the given database URL and pings it.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS investors (
	id             TEXT PRIMARY KEY,
	seq            BIGSERIAL,
	name           TEXT NOT NULL,
	type           TEXT NOT NULL DEFAULT 'vc',
	aum            BIGINT NOT NULL DEFAULT 0,
	location       TEXT NOT NULL DEFAULT '',
	thesis         JSONB NOT NULL DEFAULT '[]',
	stage          JSONB NOT NULL DEFAULT '[]',
	check_size_min BIGINT NOT NULL DEFAULT 0,
	check_size_max BIGINT NOT NULL DEFAULT 0,
	portfolio      JSONB NOT NULL DEFAULT '[]',
	partners       JSONB NOT NULL DEFAULT '[]',
	geo            JSONB NOT NULL DEFAULT '[]',
	status         TEXT NOT NULL DEFAULT 'researching',
	score          INTEGER NOT NULL DEFAULT 0,
	notes          TEXT NOT NULL DEFAULT '',
	last_activity  TIMESTAMPTZ,
	source         TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS interactions (
	id           TEXT PRIMARY KEY,
	investor_id  TEXT NOT NULL REFERENCES investors(id),
	type         TEXT NOT NULL,
	channel      TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	sent_at      TIMESTAMPTZ,
	response     TEXT,
	responded_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_investors_status ON investors(status);
CREATE INDEX IF NOT EXISTS idx_investors_score ON investors(score);
CREATE INDEX IF NOT EXISTS idx_interactions_investor_id ON interactions(investor_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateInvestor(ctx context.Context, inv *model.Investor) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.Status == "" {
		inv.Status = model.StatusResearching
	}

	thesis, stage, portfolio, partners, geo, err := marshalInvestorLists(inv)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO investors
		 (id, name, type, aum, location, thesis, stage, check_size_min, check_size_max,
		  portfolio, partners, geo, status, score, notes, last_activity, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, type = EXCLUDED.type, aum = EXCLUDED.aum,
		   location = EXCLUDED.location, thesis = EXCLUDED.thesis,
		   stage = EXCLUDED.stage, check_size_min = EXCLUDED.check_size_min,
		   check_size_max = EXCLUDED.check_size_max, portfolio = EXCLUDED.portfolio,
		   partners = EXCLUDED.partners, geo = EXCLUDED.geo,
		   status = EXCLUDED.status, score = EXCLUDED.score,
		   notes = EXCLUDED.notes, last_activity = EXCLUDED.last_activity,
		   source = EXCLUDED.source, updated_at = now()`,
		inv.ID, inv.Name, string(inv.Type), inv.AUM, inv.Location,
		thesis, stage, inv.CheckSize.Min, inv.CheckSize.Max,
		portfolio, partners, geo, string(inv.Status), inv.Score, inv.Notes,
		nullableTime(inv.LastActivity), inv.Source,
	)
	return eris.Wrapf(err, "postgres: insert investor %s", inv.ID)
}

const pgInvestorColumns = `SELECT id, name, type, aum, location, thesis, stage,
	check_size_min, check_size_max, portfolio, partners, geo, status, score,
	notes, last_activity, source`

func (s *PostgresStore) GetInvestor(ctx context.Context, id string) (*model.Investor, error) {
	row := s.pool.QueryRow(ctx, pgInvestorColumns+` FROM investors WHERE id = $1`, id)
	inv, err := scanPgInvestor(row)
	if err == pgx.ErrNoRows {
		return nil, eris.Errorf("postgres: investor not found: %s", id)
	}
	return inv, err
}

func (s *PostgresStore) ListInvestors(ctx context.Context, filter InvestorFilter) ([]model.Investor, error) {
	var sb strings.Builder
	sb.WriteString(pgInvestorColumns + ` FROM investors WHERE 1=1`)
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != "" {
		sb.WriteString(` AND type = ` + arg(string(filter.Type)))
	}
	if filter.Status != "" {
		sb.WriteString(` AND status = ` + arg(string(filter.Status)))
	}
	if filter.Search != "" {
		pat := "%" + filter.Search + "%"
		p := arg(pat)
		sb.WriteString(` AND (name ILIKE ` + p + ` OR location ILIKE ` + p + ` OR thesis::text ILIKE ` + p + `)`)
	}
	if filter.MinScore > 0 {
		sb.WriteString(` AND score >= ` + arg(filter.MinScore))
	}

	switch filter.Sort {
	case "score":
		sb.WriteString(` ORDER BY score DESC, seq ASC`)
	case "name":
		sb.WriteString(` ORDER BY name ASC`)
	case "aum":
		sb.WriteString(` ORDER BY aum DESC, seq ASC`)
	default:
		sb.WriteString(` ORDER BY seq ASC`)
	}

	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ` + arg(filter.Limit))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list investors")
	}
	defer rows.Close()

	var investors []model.Investor
	for rows.Next() {
		inv, err := scanPgInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, *inv)
	}
	return investors, eris.Wrap(rows.Err(), "postgres: list investors iterate")
}

func (s *PostgresStore) UpdateScore(ctx context.Context, id string, score int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE investors SET score = $1, updated_at = now() WHERE id = $2`,
		score, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update score %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("investor not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status model.InvestorStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE investors SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("investor not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) CreateInteraction(ctx context.Context, it *model.Interaction) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO interactions (id, investor_id, type, channel, subject, content, sent_at, response, responded_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		it.ID, it.InvestorID, string(it.Type), it.Channel, it.Subject, it.Content,
		nullableTime(it.SentAt), nullableString(it.Response), nullableTime(it.RespondedAt), it.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert interaction for %s", it.InvestorID)
}

func (s *PostgresStore) ListInteractions(ctx context.Context, investorID string) ([]model.Interaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, investor_id, type, channel, subject, content, sent_at, response, responded_at, created_at
		 FROM interactions WHERE investor_id = $1 ORDER BY created_at DESC`,
		investorID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list interactions")
	}
	defer rows.Close()

	var interactions []model.Interaction
	for rows.Next() {
		var it model.Interaction
		var sentAt, respondedAt *time.Time
		var response *string
		err := rows.Scan(&it.ID, &it.InvestorID, &it.Type, &it.Channel, &it.Subject,
			&it.Content, &sentAt, &response, &respondedAt, &it.CreatedAt)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan interaction")
		}
		it.SentAt = sentAt
		it.RespondedAt = respondedAt
		if response != nil {
			it.Response = *response
		}
		interactions = append(interactions, it)
	}
	return interactions, eris.Wrap(rows.Err(), "postgres: list interactions iterate")
}

func (s *PostgresStore) OutreachStats(ctx context.Context) (*model.OutreachStats, error) {
	var stats model.OutreachStats
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(sent_at), COUNT(responded_at) FROM interactions`,
	).Scan(&stats.Total, &stats.Sent, &stats.Responded)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: outreach stats")
	}
	if stats.Sent > 0 {
		stats.ResponseRate = int(float64(stats.Responded)/float64(stats.Sent)*100 + 0.5)
	}
	return &stats, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM investors GROUP BY status`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count by status")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan status count")
		}
		counts[status] = int(n)
	}
	return counts, eris.Wrap(rows.Err(), "postgres: count by status iterate")
}

func scanPgInvestor(row pgx.Row) (*model.Investor, error) {
	var inv model.Investor
	var thesis, stage, portfolio, partners, geo []byte
	var lastActivity *time.Time

	err := row.Scan(&inv.ID, &inv.Name, &inv.Type, &inv.AUM, &inv.Location,
		&thesis, &stage, &inv.CheckSize.Min, &inv.CheckSize.Max,
		&portfolio, &partners, &geo, &inv.Status, &inv.Score,
		&inv.Notes, &lastActivity, &inv.Source)
	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan investor")
	}

	if err := unmarshalInvestorLists(&inv, string(thesis), string(stage), string(portfolio), string(partners), string(geo)); err != nil {
		return nil, err
	}
	inv.LastActivity = lastActivity
	return &inv, nil
}

// Open selects a backend by driver name and runs migrations. Recognized
// drivers are "sqlite" and "postgres".
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "sqlite", "":
		s, err = NewSQLite(databaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, databaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
