package outreach

import (
	"fmt"
	"strings"

	"github.com/chris-donut/donut-investor-pipe/internal/match"
	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

// BuildContext renders the investor dossier and match analysis that every
// generation prompt embeds. Missing data degrades to explicit placeholders
// rather than empty strings so the model never pads gaps with guesses.
func BuildContext(inv *model.Investor, res match.MatchResult, p *model.Profile) string {
	portfolio := "Not tracked"
	if len(inv.Portfolio) > 0 {
		portfolio = strings.Join(inv.Portfolio, ", ")
	}

	partners := "Unknown"
	if len(inv.Partners) > 0 {
		descs := make([]string, len(inv.Partners))
		for i, pt := range inv.Partners {
			descs[i] = fmt.Sprintf("%s (%s, focus: %s)", pt.Name, pt.Title, strings.Join(pt.Focus, "/"))
		}
		partners = strings.Join(descs, "; ")
	}

	reasons := make([]string, len(res.Reasons))
	for i, r := range res.Reasons {
		reasons[i] = "- " + r
	}

	return strings.TrimSpace(fmt.Sprintf(`
INVESTOR PROFILE:
- Name: %s
- Type: %s
- Investment Thesis: %s
- Stage Focus: %s
- Check Size: $%.1fM - $%.1fM
- Portfolio: %s
- Key Partners: %s
- Geography: %s
- Notes: %s

MATCH ANALYSIS (Score: %d/100):
%s

COMPANY PROFILE:
- Product: %s
- Differentiator: %s
- Stage: %s
- Sectors: %s
- Target Raise: %s
- Location: %s
- Team Size: %s
`,
		inv.Name,
		inv.Type,
		strings.Join(inv.Thesis, ", "),
		strings.Join(inv.Stage, ", "),
		float64(inv.CheckSize.Min)/1e6,
		float64(inv.CheckSize.Max)/1e6,
		portfolio,
		partners,
		strings.Join(inv.Geo, ", "),
		inv.Notes,
		res.Score,
		strings.Join(reasons, "\n"),
		p.Product,
		p.Differentiator,
		p.Stage,
		strings.Join(p.Sectors, ", "),
		p.TargetRaise,
		p.Location,
		p.TeamSize,
	))
}
