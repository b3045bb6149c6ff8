package quadrant

import "github.com/okian/scout/internal/domain/types"

// Built-in pair ids.
const (
	PairGoalkeeperShotStopping = "gk_shot_stopping"
	PairDefenderDiscipline     = "def_discipline"
	PairMidfielderCreation     = "mid_creation"
	PairForwardFinishing       = "fwd_finishing"
	PairTeamStyle              = "team_style"
)

var defaultPairs = []Pair{
	{
		ID:         PairGoalkeeperShotStopping,
		Title:      "Shot stopping",
		Source:     types.Goalkeeper,
		XMetric:    "save_pct",
		YMetric:    "goals_prevented_per90",
		XThreshold: 69,
		YThreshold: 50,
		Labels: Captions{
			HighXHighY: "Elite shot stopper",
			HighXLowY:  "Reliable, low impact",
			LowXHighY:  "Overperforming",
			LowXLowY:   "Below level",
		},
		Captions: Captions{
			HighXHighY: "Saves more and prevents more",
			HighXLowY:  "Saves the savable",
			LowXHighY:  "Fewer saves, hard shots stopped",
			LowXLowY:   "Concedes more than expected",
		},
	},
	{
		ID:             PairDefenderDiscipline,
		Title:          "Defensive activity vs discipline",
		Source:         types.Defender,
		XMetric:        "tackles_won_per90",
		YMetric:        "yellow_cards",
		XThreshold:     69,
		YThreshold:     3.0,
		YRaw:           true,
		YLowerIsBetter: true,
		Labels: Captions{
			HighXHighY: "Clean ball winner",
			HighXLowY:  "Aggressive ball winner",
			LowXHighY:  "Positional defender",
			LowXLowY:   "Passive and rash",
		},
		Captions: Captions{
			HighXHighY: "Wins the ball, stays out of the book",
			HighXLowY:  "Wins the ball, collects bookings",
			LowXHighY:  "Few duels, few bookings",
			LowXLowY:   "Few duels, many bookings",
		},
	},
	{
		ID:         PairMidfielderCreation,
		Title:      "Chance creation",
		Source:     types.Midfielder,
		XMetric:    "key_passes_per90",
		YMetric:    "xa_per90",
		XThreshold: 50,
		YThreshold: 50,
		Labels: Captions{
			HighXHighY: "Playmaker",
			HighXLowY:  "Volume creator",
			LowXHighY:  "Efficient creator",
			LowXLowY:   "Low creation",
		},
		Captions: Captions{
			HighXHighY: "Creates often and well",
			HighXLowY:  "Many low quality chances",
			LowXHighY:  "Few but dangerous passes",
			LowXLowY:   "Rarely creates",
		},
	},
	{
		ID:         PairForwardFinishing,
		Title:      "Shot quality vs volume",
		Source:     types.Forward,
		XMetric:    "xg_per_shot",
		YMetric:    "shots_per90",
		XThreshold: 69,
		YThreshold: 3.0,
		YRaw:       true,
		Labels: Captions{
			HighXHighY: "Complete finisher",
			HighXLowY:  "Selective finisher",
			LowXHighY:  "Volume shooter",
			LowXLowY:   "Peripheral",
		},
		Captions: Captions{
			HighXHighY: "Shoots often from good positions",
			HighXLowY:  "Waits for the big chance",
			LowXHighY:  "Shoots from anywhere",
			LowXLowY:   "Rarely threatens",
		},
	},
	{
		ID:         PairTeamStyle,
		Title:      "Possession vs pressing",
		Source:     types.Team,
		XMetric:    "possession_pct",
		YMetric:    "ppda",
		XThreshold: 50,
		YThreshold: 50,
		Labels: Captions{
			HighXHighY: "Dominant pressing",
			HighXLowY:  "Patient possession",
			LowXHighY:  "Direct pressing",
			LowXLowY:   "Deep block",
		},
		Captions: Captions{
			HighXHighY: "Keeps the ball and wins it back high",
			HighXLowY:  "Keeps the ball, drops off without it",
			LowXHighY:  "Presses, plays direct",
			LowXLowY:   "Sits deep and counters",
		},
	},
}

// Default returns the built-in pair table.
func Default() *Table {
	t, err := NewTable(defaultPairs...)
	if err != nil {
		panic("quadrant: invalid built-in pairs: " + err.Error())
	}
	return t
}
