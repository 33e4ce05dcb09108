// Package store persists investors and outreach interactions. Two backends
// implement the same interface: sqlite for single-user local use and
// postgres for shared deployments.
package store

import (
	"context"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

// InvestorFilter specifies criteria for listing investors. The zero value
// lists everything in insertion order, which is the order the matching
// engine relies on for stable tie-breaking.
type InvestorFilter struct {
	Type     model.InvestorType   `json:"type,omitempty"`
	Status   model.InvestorStatus `json:"status,omitempty"`
	Search   string               `json:"search,omitempty"`
	MinScore int                  `json:"min_score,omitempty"`
	Sort     string               `json:"sort,omitempty"` // "score", "name", "aum"; empty = insertion order
	Limit    int                  `json:"limit,omitempty"`
}

// Store defines the persistence interface for the investor pipeline.
type Store interface {
	// Investors
	CreateInvestor(ctx context.Context, inv *model.Investor) error
	GetInvestor(ctx context.Context, id string) (*model.Investor, error)
	ListInvestors(ctx context.Context, filter InvestorFilter) ([]model.Investor, error)
	UpdateScore(ctx context.Context, id string, score int) error
	UpdateStatus(ctx context.Context, id string, status model.InvestorStatus) error

	// Interactions
	CreateInteraction(ctx context.Context, it *model.Interaction) error
	ListInteractions(ctx context.Context, investorID string) ([]model.Interaction, error)

	// Stats
	OutreachStats(ctx context.Context) (*model.OutreachStats, error)
	CountByStatus(ctx context.Context) (map[string]int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
