package match

import (
	"fmt"
	"strings"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

// buildReasons renders human-readable justifications for the stronger
// sub-scores. Each reason is a stable sentence suitable for outreach
// context; the order follows the sub-score evaluation order. The list is
// empty when no threshold is met.
func buildReasons(inv *model.Investor, b ScoreBreakdown, p *model.Profile, refs References) []string {
	var reasons []string

	if b.ThesisMatch >= 20 {
		var overlap []string
		for _, t := range inv.Thesis {
			for _, s := range p.Sectors {
				if tagsOverlap(strings.ToLower(t), strings.ToLower(s)) {
					overlap = append(overlap, t)
					break
				}
			}
		}
		reasons = append(reasons, fmt.Sprintf("Strong thesis alignment: %s", strings.Join(overlap, ", ")))
	}

	if b.StageMatch >= 15 {
		reasons = append(reasons, fmt.Sprintf("Invests at %s stage", p.Stage))
	} else if b.StageMatch > 0 {
		reasons = append(reasons, fmt.Sprintf("Adjacent stage investor (may flex to %s)", p.Stage))
	}

	if b.CheckSizeMatch >= 10 {
		reasons = append(reasons, fmt.Sprintf("Check size fits: $%.1fM-$%.1fM",
			float64(inv.CheckSize.Min)/1e6, float64(inv.CheckSize.Max)/1e6))
	}

	if b.PortfolioSynergy >= 8 {
		var synergies []string
		for _, company := range inv.Portfolio {
			for _, s := range refs.SynergyCompanies {
				if strings.EqualFold(company, s) {
					synergies = append(synergies, company)
					break
				}
			}
		}
		reasons = append(reasons, fmt.Sprintf("Portfolio synergy: %s", strings.Join(synergies, ", ")))
	}

	if b.GeoMatch >= 8 {
		reasons = append(reasons, fmt.Sprintf("Geographic alignment: %s", strings.Join(inv.Geo, ", ")))
	}

	// Key contacts are reported whenever a partner's focus overlaps the
	// profile sectors, independent of any sub-score threshold.
	var contacts []string
	for _, partner := range inv.Partners {
		if partnerFocusMatches(partner, p.Sectors) {
			contacts = append(contacts, fmt.Sprintf("%s (%s)", partner.Name, partner.Title))
		}
	}
	if len(contacts) > 0 {
		reasons = append(reasons, fmt.Sprintf("Key contact: %s", strings.Join(contacts, ", ")))
	}

	return reasons
}

func partnerFocusMatches(partner model.Partner, sectors []string) bool {
	for _, f := range partner.Focus {
		for _, s := range sectors {
			if tagsOverlap(strings.ToLower(f), strings.ToLower(s)) {
				return true
			}
		}
	}
	return false
}
