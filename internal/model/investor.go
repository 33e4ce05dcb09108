package model

import "time"

// InvestorStatus tracks where an investor sits in the outreach funnel.
type InvestorStatus string

const (
	StatusResearching InvestorStatus = "researching"
	StatusContacted   InvestorStatus = "contacted"
	StatusResponded   InvestorStatus = "responded"
	StatusMeeting     InvestorStatus = "meeting"
	StatusPassed      InvestorStatus = "passed"
	StatusCommitted   InvestorStatus = "committed"
)

// InvestorType categorizes the kind of fund or individual.
type InvestorType string

const (
	TypeCryptoFund   InvestorType = "crypto_fund"
	TypeVC           InvestorType = "vc"
	TypeAngel        InvestorType = "angel"
	TypeFamilyOffice InvestorType = "family_office"
)

// CheckSize is the typical investment range an investor writes, in currency
// units. Both fields zero means the range is unknown.
type CheckSize struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Unknown reports whether no check-size data is tracked for the investor.
func (c CheckSize) Unknown() bool {
	return c.Min == 0 && c.Max == 0
}

// Partner is a named contact at an investor.
type Partner struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	LinkedIn     string   `json:"linkedin,omitempty"`
	Twitter      string   `json:"twitter,omitempty"`
	EmailPattern string   `json:"email_pattern,omitempty"`
	Focus        []string `json:"focus"`
	Notes        string   `json:"notes,omitempty"`
}

// Investor is a tracked fund or angel. List-valued fields preserve the
// order they were recorded in; the matching engine only reads them.
type Investor struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         InvestorType   `json:"type"`
	AUM          int64          `json:"aum"`
	Location     string         `json:"location"`
	Thesis       []string       `json:"thesis"`
	Stage        []string       `json:"stage"`
	CheckSize    CheckSize      `json:"check_size"`
	Portfolio    []string       `json:"portfolio"`
	Partners     []Partner      `json:"partners"`
	Geo          []string       `json:"geo"`
	Status       InvestorStatus `json:"status"`
	Score        int            `json:"score"`
	Notes        string         `json:"notes,omitempty"`
	LastActivity *time.Time     `json:"last_activity,omitempty"`
	Source       string         `json:"source,omitempty"`
}

// Profile is the target-company profile every investor is matched against.
// Loaded once at startup and treated as read-only afterwards.
type Profile struct {
	Name           string   `json:"name" yaml:"name"`
	Stage          string   `json:"stage" yaml:"stage"`
	Sectors        []string `json:"sectors" yaml:"sectors"`
	Product        string   `json:"product" yaml:"product"`
	Differentiator string   `json:"differentiator" yaml:"differentiator"`
	TargetRaise    string   `json:"target_raise" yaml:"target_raise"`
	Traction       string   `json:"traction" yaml:"traction"`
	TeamSize       string   `json:"team_size" yaml:"team_size"`
	Location       string   `json:"location" yaml:"location"`
}
