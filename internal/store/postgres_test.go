package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func TestPostgresUpdateScore(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE investors SET score").
		WithArgs(73, "inv-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdateScore(ctx, "inv-1", 73))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateScoreNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE investors SET score").
		WithArgs(73, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateScore(context.Background(), "missing", 73)
	assert.ErrorContains(t, err, "not found")
}

func TestPostgresUpdateStatus(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE investors SET status").
		WithArgs("meeting", "inv-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdateStatus(context.Background(), "inv-1", model.StatusMeeting))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetInvestor(t *testing.T) {
	s, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{
		"id", "name", "type", "aum", "location", "thesis", "stage",
		"check_size_min", "check_size_max", "portfolio", "partners", "geo",
		"status", "score", "notes", "last_activity", "source",
	}).AddRow(
		"inv-1", "Sweetspot Capital", "crypto_fund", int64(250_000_000), "Hong Kong",
		[]byte(`["DeFi","AI"]`), []byte(`["pre-seed"]`),
		int64(500_000), int64(2_000_000),
		[]byte(`["Jupiter"]`), []byte(`[{"name":"Alice Chen","title":"Partner","focus":["DeFi"]}]`),
		[]byte(`["Asia"]`), "researching", 0, "", nil, "seed-list",
	)
	mock.ExpectQuery("SELECT id, name, type").
		WithArgs("inv-1").
		WillReturnRows(rows)

	inv, err := s.GetInvestor(context.Background(), "inv-1")
	require.NoError(t, err)

	assert.Equal(t, "Sweetspot Capital", inv.Name)
	assert.Equal(t, model.TypeCryptoFund, inv.Type)
	assert.Equal(t, []string{"DeFi", "AI"}, inv.Thesis)
	assert.Equal(t, model.CheckSize{Min: 500_000, Max: 2_000_000}, inv.CheckSize)
	require.Len(t, inv.Partners, 1)
	assert.Equal(t, "Alice Chen", inv.Partners[0].Name)
	assert.Nil(t, inv.LastActivity)
}

func TestPostgresOutreachStats(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COUNT\(sent_at\), COUNT\(responded_at\)`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "sent", "responded"}).AddRow(4, 2, 1))

	stats, err := s.OutreachStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Sent)
	assert.Equal(t, 1, stats.Responded)
	assert.Equal(t, 50, stats.ResponseRate)
}

func TestPostgresCountByStatus(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("researching", int64(5)).
			AddRow("contacted", int64(2)))

	counts, err := s.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"researching": 5, "contacted": 2}, counts)
}

func TestPostgresCreateInteraction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO interactions").
		WithArgs(pgxmock.AnyArg(), "inv-1", "cold_email", "email", "Intro",
			"Hi Alice...", nil, nil, nil, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.CreateInteraction(context.Background(), &model.Interaction{
		InvestorID: "inv-1",
		Type:       model.InteractionColdEmail,
		Channel:    "email",
		Subject:    "Intro",
		Content:    "Hi Alice...",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
