package catalog

import "github.com/okian/scout/internal/domain/types"

// Canonical keys used outside the catalog itself.
const (
	KeyMinutes                = "sure"
	KeySustainabilityRank     = "surdurulebilirlik_sira"
	KeySavePct                = "save_pct"
	KeyGoalsPreventedPer90    = "goals_prevented_per90"
	KeyXGPerShot              = "xg_per_shot"
	KeyShotsPer90             = "shots_per90"
	KeyKeyPassesPer90         = "key_passes_per90"
	KeyXAPer90                = "xa_per90"
	KeyTacklesWonPer90        = "tackles_won_per90"
	KeyFoulsPer90             = "fouls_per90"
	KeyYellowCards            = "yellow_cards"
	KeyPossessionPct          = "possession_pct"
	KeyPPDA                   = "ppda"
	KeyProgressivePassesPer90 = "progressive_passes_per90"
	KeyPassAccuracyPct        = "pass_accuracy_pct"
)

// defaultDefinitions holds the hand-calibrated bounds the dashboard charts
// were tuned against.
var defaultDefinitions = []Definition{
	// general
	{Key: KeyMinutes, Label: "Minutes played", DomainMin: 0, DomainMax: 3420, Aliases: []string{"minutes", "süre", "minSure"}},
	{Key: "surdurulebilirlik", Label: "Sustainability score", DomainMin: 0, DomainMax: 100, IsPercentage: true, Aliases: []string{"sürdürülebilirlik", "sustainability"}},
	{Key: KeySustainabilityRank, Label: "Sustainability rank", DomainMin: 1, DomainMax: 100, Invert: true, Aliases: []string{"surdurabilirlik_sira", "sürdürülebilirlik_sira", "sustainability_rank"}},

	// goalkeeper
	{Key: KeySavePct, Label: "Save %", DomainMin: 50, DomainMax: 100, Family: types.Goalkeeper, Aliases: []string{"kurtaris_yuzdesi", "save_percentage"}},
	{Key: KeyGoalsPreventedPer90, Label: "Goals prevented / 90", DomainMin: -0.5, DomainMax: 0.5, Family: types.Goalkeeper, Aliases: []string{"onlenen_gol_90"}},
	{Key: "goals_conceded_per90", Label: "Goals conceded / 90", DomainMin: 0, DomainMax: 3, Invert: true, Family: types.Goalkeeper, Aliases: []string{"yenilen_gol_90"}},
	{Key: "clean_sheet_pct", Label: "Clean sheet %", DomainMin: 0, DomainMax: 100, IsPercentage: true, Family: types.Goalkeeper, Aliases: []string{"gol_yememe_yuzdesi"}},
	{Key: "claims_per90", Label: "High claims / 90", DomainMin: 0, DomainMax: 3, Family: types.Goalkeeper},
	{Key: "launch_pct", Label: "Launch %", DomainMin: 0, DomainMax: 100, IsPercentage: true, Family: types.Goalkeeper},

	// defender
	{Key: KeyTacklesWonPer90, Label: "Tackles won / 90", DomainMin: 0, DomainMax: 4, Family: types.Defender, Aliases: []string{"kazanilan_top_90"}},
	{Key: "interceptions_per90", Label: "Interceptions / 90", DomainMin: 0, DomainMax: 4, Family: types.Defender, Aliases: []string{"top_kapma_90"}},
	{Key: "aerial_won_pct", Label: "Aerial duels won %", DomainMin: 0, DomainMax: 100, IsPercentage: true, Family: types.Defender},
	{Key: "duels_won_pct", Label: "Duels won %", DomainMin: 30, DomainMax: 75, Family: types.Defender},
	{Key: KeyFoulsPer90, Label: "Fouls / 90", DomainMin: 0, DomainMax: 3, Invert: true, Family: types.Defender, Aliases: []string{"faul_90"}},
	{Key: KeyYellowCards, Label: "Yellow cards", DomainMin: 0, DomainMax: 15, Invert: true, Family: types.Defender, Aliases: []string{"sari_kart"}},
	{Key: "cards_per90", Label: "Cards / 90", DomainMin: 0, DomainMax: 0.6, Invert: true, Family: types.Defender, Aliases: []string{"kart_90"}},
	{Key: "dribbled_past_per90", Label: "Dribbled past / 90", DomainMin: 0, DomainMax: 2.5, Invert: true, Family: types.Defender},

	// midfielder
	{Key: KeyPassAccuracyPct, Label: "Pass accuracy %", DomainMin: 60, DomainMax: 95, Family: types.Midfielder, Aliases: []string{"pas_isabeti"}},
	{Key: KeyKeyPassesPer90, Label: "Key passes / 90", DomainMin: 0, DomainMax: 3.5, Family: types.Midfielder, Aliases: []string{"kilit_pas_90"}},
	{Key: KeyProgressivePassesPer90, Label: "Progressive passes / 90", DomainMin: 0, DomainMax: 12, Family: types.Midfielder},
	{Key: KeyXAPer90, Label: "xA / 90", DomainMin: 0, DomainMax: 0.5, Family: types.Midfielder},
	{Key: "chances_created_per90", Label: "Chances created / 90", DomainMin: 0, DomainMax: 4, Family: types.Midfielder},

	// forward
	{Key: KeyXGPerShot, Label: "xG / shot", DomainMin: 0, DomainMax: 0.52, Family: types.Forward, Aliases: []string{"xg_sut"}},
	{Key: KeyShotsPer90, Label: "Shots / 90", DomainMin: 0, DomainMax: 5, Family: types.Forward, Aliases: []string{"sut_90"}},
	{Key: "goals_per90", Label: "Goals / 90", DomainMin: 0, DomainMax: 1.2, Family: types.Forward, Aliases: []string{"gol_90"}},
	{Key: "xg_per90", Label: "xG / 90", DomainMin: 0, DomainMax: 1, Family: types.Forward},
	{Key: "conversion_pct", Label: "Shot conversion %", DomainMin: 0, DomainMax: 100, IsPercentage: true, Family: types.Forward},

	// team
	{Key: KeyPossessionPct, Label: "Possession %", DomainMin: 30, DomainMax: 70, Family: types.Team, Aliases: []string{"topla_oynama"}},
	{Key: KeyPPDA, Label: "PPDA", DomainMin: 5, DomainMax: 20, Invert: true, Family: types.Team},
	{Key: "xg_for_per_match", Label: "xG for / match", DomainMin: 0.5, DomainMax: 2.8, Family: types.Team},
	{Key: "xg_against_per_match", Label: "xG against / match", DomainMin: 0.5, DomainMax: 2.5, Invert: true, Family: types.Team},
}

// Default returns the built-in calibrated catalog.
func Default() *Catalog {
	c, err := New(defaultDefinitions...)
	if err != nil {
		panic("catalog: invalid built-in definitions: " + err.Error())
	}
	return c
}
