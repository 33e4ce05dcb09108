package match

// References holds the compiled reference lists the engine scores against.
// These encode business meaning rather than deployment configuration, so
// they are constructed in code and injected, which also lets tests
// substitute smaller lists without touching the engine.
type References struct {
	// SectorKeywords broadens the profile's sectors for thesis matching.
	SectorKeywords []string

	// SynergyCompanies are portfolio companies that signal thesis alignment.
	SynergyCompanies []string

	// CompetitorCompanies are portfolio companies that signal a conflict of
	// interest. Any hit zeroes the portfolio sub-score outright.
	CompetitorCompanies []string

	// AdjacentRegions are geo tags one step less specific than the target
	// region (nearby hubs).
	AdjacentRegions []string

	// StageAdjacency maps a target stage to the single stage that still
	// earns partial credit. Fixed table, not a distance function.
	StageAdjacency map[string]string
}

// DefaultReferences returns the production reference lists for the Donut
// Labs raise.
func DefaultReferences() References {
	return References{
		SectorKeywords: []string{
			"AI",
			"DeFi",
			"Trading",
			"Infrastructure",
			"Solana",
			"Trading Infrastructure",
			"Crypto",
		},
		SynergyCompanies: []string{
			"Jupiter",
			"Drift",
			"Zeta Markets",
			"Tensor",
			"Jito",
			"Phantom",
			"dYdX",
			"Pyth",
			"Flashbots",
			"1inch",
			"Nansen",
			"Perpetual Protocol",
			"SushiSwap",
			"GMX",
		},
		CompetitorCompanies: []string{
			"3Commas",
			"Shrimpy",
			"Pionex",
		},
		AdjacentRegions: []string{"singapore"},
		StageAdjacency: map[string]string{
			"pre-seed": "seed",
			"seed":     "pre-seed",
		},
	}
}
