package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. List-valued
// investor fields are stored as JSON text columns.
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
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS investors (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	type           TEXT NOT NULL DEFAULT 'vc',
	aum            INTEGER NOT NULL DEFAULT 0,
	location       TEXT NOT NULL DEFAULT '',
	thesis         TEXT NOT NULL DEFAULT '[]',
	stage          TEXT NOT NULL DEFAULT '[]',
	check_size_min INTEGER NOT NULL DEFAULT 0,
	check_size_max INTEGER NOT NULL DEFAULT 0,
	portfolio      TEXT NOT NULL DEFAULT '[]',
	partners       TEXT NOT NULL DEFAULT '[]',
	geo            TEXT NOT NULL DEFAULT '[]',
	status         TEXT NOT NULL DEFAULT 'researching',
	score          INTEGER NOT NULL DEFAULT 0,
	notes          TEXT NOT NULL DEFAULT '',
	last_activity  DATETIME,
	source         TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS interactions (
	id           TEXT PRIMARY KEY,
	investor_id  TEXT NOT NULL REFERENCES investors(id),
	type         TEXT NOT NULL,
	channel      TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	sent_at      DATETIME,
	response     TEXT,
	responded_at DATETIME,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_investors_status ON investors(status);
CREATE INDEX IF NOT EXISTS idx_investors_score ON investors(score);
CREATE INDEX IF NOT EXISTS idx_interactions_investor_id ON interactions(investor_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateInvestor(ctx context.Context, inv *model.Investor) error {
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

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO investors
		 (id, name, type, aum, location, thesis, stage, check_size_min, check_size_max,
		  portfolio, partners, geo, status, score, notes, last_activity, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Name, string(inv.Type), inv.AUM, inv.Location,
		thesis, stage, inv.CheckSize.Min, inv.CheckSize.Max,
		portfolio, partners, geo, string(inv.Status), inv.Score, inv.Notes,
		nullableTime(inv.LastActivity), inv.Source, now, now,
	)
	return eris.Wrapf(err, "sqlite: insert investor %s", inv.ID)
}

func (s *SQLiteStore) GetInvestor(ctx context.Context, id string) (*model.Investor, error) {
	row := s.db.QueryRowContext(ctx, investorColumns+` FROM investors WHERE id = ?`, id)
	inv, err := scanInvestor(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: investor not found: %s", id)
	}
	return inv, err
}

const investorColumns = `SELECT id, name, type, aum, location, thesis, stage,
	check_size_min, check_size_max, portfolio, partners, geo, status, score,
	notes, last_activity, source`

func (s *SQLiteStore) ListInvestors(ctx context.Context, filter InvestorFilter) ([]model.Investor, error) {
	query := investorColumns + ` FROM investors WHERE 1=1`
	var args []any

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Search != "" {
		query += ` AND (name LIKE ? OR location LIKE ? OR thesis LIKE ?)`
		pat := "%" + filter.Search + "%"
		args = append(args, pat, pat, pat)
	}
	if filter.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, filter.MinScore)
	}

	switch filter.Sort {
	case "score":
		query += ` ORDER BY score DESC, rowid ASC`
	case "name":
		query += ` ORDER BY name ASC`
	case "aum":
		query += ` ORDER BY aum DESC, rowid ASC`
	default:
		// Insertion order; scoring tie-breaks depend on it.
		query += ` ORDER BY rowid ASC`
	}

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list investors")
	}
	defer rows.Close()

	var investors []model.Investor
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, *inv)
	}
	return investors, eris.Wrap(rows.Err(), "sqlite: list investors iterate")
}

func (s *SQLiteStore) UpdateScore(ctx context.Context, id string, score int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE investors SET score = ?, updated_at = ? WHERE id = ?`,
		score, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update score %s", id)
	}
	return checkRowsAffected(res, "investor", id)
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status model.InvestorStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE investors SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update status %s", id)
	}
	return checkRowsAffected(res, "investor", id)
}

func (s *SQLiteStore) CreateInteraction(ctx context.Context, it *model.Interaction) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, investor_id, type, channel, subject, content, sent_at, response, responded_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.InvestorID, string(it.Type), it.Channel, it.Subject, it.Content,
		nullableTime(it.SentAt), nullableString(it.Response), nullableTime(it.RespondedAt), it.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert interaction for %s", it.InvestorID)
}

func (s *SQLiteStore) ListInteractions(ctx context.Context, investorID string) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, investor_id, type, channel, subject, content, sent_at, response, responded_at, created_at
		 FROM interactions WHERE investor_id = ? ORDER BY created_at DESC`,
		investorID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list interactions")
	}
	defer rows.Close()

	var interactions []model.Interaction
	for rows.Next() {
		var it model.Interaction
		var sentAt, respondedAt sql.NullTime
		var response sql.NullString
		err := rows.Scan(&it.ID, &it.InvestorID, &it.Type, &it.Channel, &it.Subject,
			&it.Content, &sentAt, &response, &respondedAt, &it.CreatedAt)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan interaction")
		}
		if sentAt.Valid {
			it.SentAt = &sentAt.Time
		}
		if response.Valid {
			it.Response = response.String
		}
		if respondedAt.Valid {
			it.RespondedAt = &respondedAt.Time
		}
		interactions = append(interactions, it)
	}
	return interactions, eris.Wrap(rows.Err(), "sqlite: list interactions iterate")
}

func (s *SQLiteStore) OutreachStats(ctx context.Context) (*model.OutreachStats, error) {
	var stats model.OutreachStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(sent_at),
		        COUNT(responded_at)
		 FROM interactions`,
	).Scan(&stats.Total, &stats.Sent, &stats.Responded)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: outreach stats")
	}
	if stats.Sent > 0 {
		stats.ResponseRate = int(float64(stats.Responded)/float64(stats.Sent)*100 + 0.5)
	}
	return &stats, nil
}

func (s *SQLiteStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM investors GROUP BY status`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: count by status")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan status count")
		}
		counts[status] = n
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: count by status iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func marshalInvestorLists(inv *model.Investor) (thesis, stage, portfolio, partners, geo string, err error) {
	encode := func(v any, name string) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", eris.Wrapf(err, "store: marshal %s", name)
		}
		return string(b), nil
	}

	if thesis, err = encode(emptyIfNil(inv.Thesis), "thesis"); err != nil {
		return
	}
	if stage, err = encode(emptyIfNil(inv.Stage), "stage"); err != nil {
		return
	}
	if portfolio, err = encode(emptyIfNil(inv.Portfolio), "portfolio"); err != nil {
		return
	}
	if partners, err = encode(emptyPartnersIfNil(inv.Partners), "partners"); err != nil {
		return
	}
	geo, err = encode(emptyIfNil(inv.Geo), "geo")
	return
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyPartnersIfNil(p []model.Partner) []model.Partner {
	if p == nil {
		return []model.Partner{}
	}
	return p
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scannable interface {
	Scan(dest ...any) error
}

func scanInvestor(row scannable) (*model.Investor, error) {
	var inv model.Investor
	var thesis, stage, portfolio, partners, geo string
	var lastActivity sql.NullTime

	err := row.Scan(&inv.ID, &inv.Name, &inv.Type, &inv.AUM, &inv.Location,
		&thesis, &stage, &inv.CheckSize.Min, &inv.CheckSize.Max,
		&portfolio, &partners, &geo, &inv.Status, &inv.Score,
		&inv.Notes, &lastActivity, &inv.Source)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan investor")
	}

	if err := unmarshalInvestorLists(&inv, thesis, stage, portfolio, partners, geo); err != nil {
		return nil, err
	}
	if lastActivity.Valid {
		t := lastActivity.Time
		inv.LastActivity = &t
	}
	return &inv, nil
}

func unmarshalInvestorLists(inv *model.Investor, thesis, stage, portfolio, partners, geo string) error {
	decode := func(data string, v any, name string) error {
		if data == "" {
			return nil
		}
		return eris.Wrapf(json.Unmarshal([]byte(data), v), "store: unmarshal %s", name)
	}

	if err := decode(thesis, &inv.Thesis, "thesis"); err != nil {
		return err
	}
	if err := decode(stage, &inv.Stage, "stage"); err != nil {
		return err
	}
	if err := decode(portfolio, &inv.Portfolio, "portfolio"); err != nil {
		return err
	}
	if err := decode(partners, &inv.Partners, "partners"); err != nil {
		return err
	}
	return decode(geo, &inv.Geo, "geo")
}
