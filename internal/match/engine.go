// Package match implements the deterministic investor fit-scoring engine.
//
// Scoring is a pure function of (investor, profile, reference lists): six
// weighted sub-scores, each rounded half-up independently, summed into a
// 0-100 total. Thesis and partner-focus matching use substring containment
// in both directions; this is deliberately loose (very short tags like "ai"
// can match inside unrelated words) and is kept as-is because the numeric
// contracts depend on it.
package match

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

// Sub-score weights. Sum = 100.
const (
	weightThesis    = 30
	weightStage     = 20
	weightCheckSize = 15
	weightPortfolio = 15
	weightGeo       = 10
	weightRecency   = 10
)

// ScoreBreakdown carries the six sub-scores. Each is bounded by its weight;
// the total score is always their exact sum.
type ScoreBreakdown struct {
	ThesisMatch      int `json:"thesis_match"`      // 0-30
	StageMatch       int `json:"stage_match"`       // 0-20
	CheckSizeMatch   int `json:"check_size_match"`  // 0-15
	PortfolioSynergy int `json:"portfolio_synergy"` // 0-15
	GeoMatch         int `json:"geo_match"`         // 0-10
	ActivityRecency  int `json:"activity_recency"`  // 0-10
}

// Total returns the sum of all sub-scores.
func (b ScoreBreakdown) Total() int {
	return b.ThesisMatch + b.StageMatch + b.CheckSizeMatch +
		b.PortfolioSynergy + b.GeoMatch + b.ActivityRecency
}

// MatchResult is the full scoring output for one investor. It is built
// fresh on every call and never cached; only Score is persisted.
type MatchResult struct {
	Investor  *model.Investor `json:"investor"`
	Score     int             `json:"score"`
	Breakdown ScoreBreakdown  `json:"breakdown"`
	Reasons   []string        `json:"reasons"`
}

// Engine scores investors against a target profile. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	refs References
	now  func() time.Time
}

// NewEngine creates an Engine with the given reference lists.
func NewEngine(refs References) *Engine {
	return &Engine{refs: refs, now: time.Now}
}

// NewEngineWithClock creates an Engine with a fixed clock for the activity
// recency sub-score. Used in tests.
func NewEngineWithClock(refs References, now func() time.Time) *Engine {
	return &Engine{refs: refs, now: now}
}

// Score computes the fit score for one investor. Pure: it reads only its
// inputs and the engine's reference lists.
func (e *Engine) Score(inv *model.Investor, p *model.Profile) MatchResult {
	breakdown := ScoreBreakdown{
		ThesisMatch:      scoreThesis(inv, p, e.refs),
		StageMatch:       scoreStage(inv, p, e.refs),
		CheckSizeMatch:   scoreCheckSize(inv, p),
		PortfolioSynergy: scorePortfolio(inv, e.refs),
		GeoMatch:         scoreGeo(inv, p, e.refs),
		ActivityRecency:  scoreRecency(inv.LastActivity, e.now()),
	}

	return MatchResult{
		Investor:  inv,
		Score:     breakdown.Total(),
		Breakdown: breakdown,
		Reasons:   buildReasons(inv, breakdown, p, e.refs),
	}
}

// roundWeight rounds ratio*weight half-up. All ratios are non-negative, so
// math.Round's half-away-from-zero is exactly half-up here.
func roundWeight(ratio float64, weight int) int {
	return int(math.Round(ratio * float64(weight)))
}

// scoreThesis counts distinct profile sectors (broadened by the sector
// keyword list) matched by any investor thesis tag. A sector matched by
// several tags counts once; 4 distinct matches earn the full weight.
func scoreThesis(inv *model.Investor, p *model.Profile, refs References) int {
	sectors := make([]string, 0, len(p.Sectors)+len(refs.SectorKeywords))
	for _, s := range p.Sectors {
		sectors = append(sectors, strings.ToLower(s))
	}
	for _, s := range refs.SectorKeywords {
		sectors = append(sectors, strings.ToLower(s))
	}

	theses := make([]string, len(inv.Thesis))
	for i, t := range inv.Thesis {
		theses[i] = strings.ToLower(t)
	}

	matched := make(map[string]struct{})
	for _, sector := range sectors {
		for _, thesis := range theses {
			if tagsOverlap(thesis, sector) {
				matched[sector] = struct{}{}
			}
		}
	}

	ratio := math.Min(float64(len(matched))/4, 1)
	return roundWeight(ratio, weightThesis)
}

// tagsOverlap reports whether two lower-cased tags match: equal, or either
// contains the other.
func tagsOverlap(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// scoreStage awards the full weight for an exact stage match and partial
// credit for the single adjacent stage in the adjacency table.
func scoreStage(inv *model.Investor, p *model.Profile, refs References) int {
	target := strings.ToLower(p.Stage)

	for _, s := range inv.Stage {
		if strings.ToLower(s) == target {
			return weightStage
		}
	}

	if adjacent, ok := refs.StageAdjacency[target]; ok {
		for _, s := range inv.Stage {
			if strings.ToLower(s) == adjacent {
				return roundWeight(0.7, weightStage)
			}
		}
	}

	return 0
}

var raisePattern = regexp.MustCompile(`\$?([\d.]+)\s*[Mm]\s*-\s*\$?([\d.]+)\s*[Mm]`)

// defaultTargetRaise is used when the profile's target raise string cannot
// be parsed. Leniency is deliberate: a malformed raise string is not an
// error.
var defaultTargetRaise = model.CheckSize{Min: 2_000_000, Max: 3_000_000}

// parseTargetRaise parses a "$2M-3M" style range into currency units.
func parseTargetRaise(raise string) model.CheckSize {
	m := raisePattern.FindStringSubmatch(raise)
	if m == nil {
		return defaultTargetRaise
	}
	minV, errMin := strconv.ParseFloat(m[1], 64)
	maxV, errMax := strconv.ParseFloat(m[2], 64)
	if errMin != nil || errMax != nil {
		return defaultTargetRaise
	}
	return model.CheckSize{
		Min: int64(minV * 1_000_000),
		Max: int64(maxV * 1_000_000),
	}
}

// scoreCheckSize scores the overlap between the investor's check range and
// the target raise. An unknown range earns a neutral half-weight score.
func scoreCheckSize(inv *model.Investor, p *model.Profile) int {
	target := parseTargetRaise(p.TargetRaise)

	if inv.CheckSize.Unknown() {
		return roundWeight(0.5, weightCheckSize)
	}

	overlapMin := max(inv.CheckSize.Min, target.Min)
	overlapMax := min(inv.CheckSize.Max, target.Max)

	if overlapMin <= overlapMax {
		overlapSize := float64(overlapMax - overlapMin)
		targetSize := float64(target.Max - target.Min)
		ratio := math.Min(overlapSize/targetSize, 1)
		return roundWeight(0.6+0.4*ratio, weightCheckSize)
	}

	if inv.CheckSize.Max < target.Min {
		// Investor writes smaller checks than the raise needs.
		if target.Min-inv.CheckSize.Max < 500_000 {
			return roundWeight(0.3, weightCheckSize)
		}
		return 0
	}

	// Investor writes bigger checks than the raise needs.
	return roundWeight(0.2, weightCheckSize)
}

// scorePortfolio counts synergy-list companies in the investor's portfolio.
// Any competitor-list company is a hard veto: the sub-score is zero no
// matter how many synergy companies are present.
func scorePortfolio(inv *model.Investor, refs References) int {
	for _, company := range refs.CompetitorCompanies {
		for _, p := range inv.Portfolio {
			if strings.EqualFold(p, company) {
				return 0
			}
		}
	}

	var synergyCount int
	for _, company := range refs.SynergyCompanies {
		for _, p := range inv.Portfolio {
			if strings.EqualFold(p, company) {
				synergyCount++
				break
			}
		}
	}

	ratio := math.Min(float64(synergyCount)/3, 1)
	return roundWeight(ratio, weightPortfolio)
}

// scoreGeo applies a specificity cascade over the investor's geo tags:
// exact target region, then asia, then an adjacent hub, then global, then a
// generic match. Funds outside the target geography still get a small
// baseline since they remain reachable.
func scoreGeo(inv *model.Investor, p *model.Profile, refs References) int {
	location := strings.ToLower(p.Location)

	geo := make([]string, len(inv.Geo))
	for i, g := range inv.Geo {
		geo[i] = strings.ToLower(g)
	}

	var matched bool
	for _, g := range geo {
		if strings.Contains(location, g) || g == "global" || g == "asia" || g == location {
			matched = true
			break
		}
	}
	if !matched {
		return roundWeight(0.3, weightGeo)
	}

	if containsTag(geo, location) {
		return weightGeo
	}
	if containsTag(geo, "asia") {
		return roundWeight(0.8, weightGeo)
	}
	for _, region := range refs.AdjacentRegions {
		if containsTag(geo, strings.ToLower(region)) {
			return roundWeight(0.7, weightGeo)
		}
	}
	if containsTag(geo, "global") {
		return roundWeight(0.6, weightGeo)
	}
	return roundWeight(0.5, weightGeo)
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// scoreRecency scores how recently the investor was active. Days are the
// floor of the elapsed time; an unknown date earns a neutral half weight.
func scoreRecency(last *time.Time, now time.Time) int {
	if last == nil {
		return roundWeight(0.5, weightRecency)
	}

	days := int(now.Sub(*last) / (24 * time.Hour))
	switch {
	case days <= 30:
		return weightRecency
	case days <= 90:
		return roundWeight(0.7, weightRecency)
	case days <= 180:
		return roundWeight(0.4, weightRecency)
	default:
		return roundWeight(0.2, weightRecency)
	}
}
