package match

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
	"github.com/chris-donut/donut-investor-pipe/internal/store"
)

// fakeStore implements store.Store for ranking tests. Only the methods the
// ranker touches do anything useful.
type fakeStore struct {
	mu        sync.Mutex
	investors []model.Investor
	scores    map[string]int
	failIDs   map[string]bool
}

func newFakeStore(investors ...model.Investor) *fakeStore {
	return &fakeStore{
		investors: investors,
		scores:    make(map[string]int),
		failIDs:   make(map[string]bool),
	}
}

func (f *fakeStore) ListInvestors(ctx context.Context, filter store.InvestorFilter) ([]model.Investor, error) {
	return f.investors, nil
}

func (f *fakeStore) UpdateScore(ctx context.Context, id string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return eris.New("write failed")
	}
	f.scores[id] = score
	return nil
}

func (f *fakeStore) CreateInvestor(ctx context.Context, inv *model.Investor) error { return nil }
func (f *fakeStore) GetInvestor(ctx context.Context, id string) (*model.Investor, error) {
	return nil, eris.New("not implemented")
}
func (f *fakeStore) UpdateStatus(ctx context.Context, id string, status model.InvestorStatus) error {
	return nil
}
func (f *fakeStore) CreateInteraction(ctx context.Context, it *model.Interaction) error { return nil }
func (f *fakeStore) ListInteractions(ctx context.Context, investorID string) ([]model.Interaction, error) {
	return nil, nil
}
func (f *fakeStore) OutreachStats(ctx context.Context) (*model.OutreachStats, error) {
	return &model.OutreachStats{}, nil
}
func (f *fakeStore) CountByStatus(ctx context.Context) (map[string]int, error) { return nil, nil }
func (f *fakeStore) Migrate(ctx context.Context) error                         { return nil }
func (f *fakeStore) Close() error                                              { return nil }

func TestScoreAllSortsDescending(t *testing.T) {
	e := testEngine()
	p := testProfile()

	investors := []model.Investor{
		{ID: "weak", Name: "Weak", Geo: []string{"US"}},
		{
			ID: "strong", Name: "Strong",
			Thesis:    []string{"AI", "DeFi", "Trading", "Solana"},
			Stage:     []string{"pre-seed"},
			CheckSize: model.CheckSize{Min: 2_000_000, Max: 3_000_000},
			Geo:       []string{"Hong Kong"},
		},
		{ID: "mid", Name: "Mid", Thesis: []string{"DeFi"}, Stage: []string{"seed"}},
	}

	results, err := e.ScoreAll(context.Background(), investors, p)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Strong", results[0].Investor.Name)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestScoreAllTiesKeepInputOrder(t *testing.T) {
	e := testEngine()
	p := testProfile()

	// Identical investors always tie; input order must survive the sort.
	var investors []model.Investor
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		investors = append(investors, model.Investor{ID: id, Thesis: []string{"DeFi"}})
	}

	results, err := e.ScoreAll(context.Background(), investors, p)
	require.NoError(t, err)

	var ids []string
	for _, res := range results {
		ids = append(ids, res.Investor.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestScoreAllEmptyInput(t *testing.T) {
	e := testEngine()
	results, err := e.ScoreAll(context.Background(), nil, testProfile())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunAndPersistWritesEveryScore(t *testing.T) {
	st := newFakeStore(
		model.Investor{ID: "a", Thesis: []string{"DeFi"}},
		model.Investor{ID: "b", Stage: []string{"pre-seed"}},
		model.Investor{ID: "c"},
	)
	ranker := NewRanker(testEngine(), st)

	results, report, err := ranker.RunAndPersist(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scored)
	assert.Equal(t, 3, report.Persisted)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, st.scores, 3)

	for _, res := range results {
		assert.Equal(t, res.Score, st.scores[res.Investor.ID])
	}
}

func TestRunAndPersistToleratesWriteFailures(t *testing.T) {
	st := newFakeStore(
		model.Investor{ID: "a", Thesis: []string{"DeFi"}},
		model.Investor{ID: "b", Stage: []string{"pre-seed"}},
		model.Investor{ID: "c"},
	)
	st.failIDs["b"] = true

	ranker := NewRanker(testEngine(), st)
	results, report, err := ranker.RunAndPersist(context.Background(), testProfile())

	// A failed write never aborts the batch.
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 3, report.Scored)
	assert.Equal(t, 2, report.Persisted)
	assert.Equal(t, 1, report.Failed)

	_, wroteB := st.scores["b"]
	assert.False(t, wroteB)
	assert.Contains(t, st.scores, "a")
	assert.Contains(t, st.scores, "c")
}

func TestRankUsesInjectedClock(t *testing.T) {
	recent := fixedNow.Add(-24 * time.Hour)
	st := newFakeStore(model.Investor{ID: "a", LastActivity: &recent})

	ranker := NewRanker(testEngine(), st)
	results, err := ranker.Rank(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 10, results[0].Breakdown.ActivityRecency)
}
