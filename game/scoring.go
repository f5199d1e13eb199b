package game

import "fmt"

// Game-over thresholds. First team to 500 wins; a team driven to -500
// loses ("going out backwards").
const (
	WinningScore = 500
	LosingScore  = -500
)

// slamBonus is the minimum award for winning all 10 tricks. It raises
// small contracts to 250 but never reduces one already worth more.
const slamBonus = 250

// HandScore is the scoring breakdown for one completed hand
type HandScore struct {
	Contract         Bid  `json:"contract"`
	ContractorTricks int  `json:"contractorTricks"`
	OpponentTricks   int  `json:"opponentTricks"`
	ContractMade     bool `json:"contractMade"`
	Slam             bool `json:"slam"`
	ContractorDelta  int  `json:"contractorDelta"`
	OpponentDelta    int  `json:"opponentDelta"`
}

// ScoreHand scores a completed hand: the contracting team wins or loses
// the Avondale value of its bid (no overtrick bonus, no floor on
// failure), while the opponents always bank 10 per trick taken. The
// trick counts must sum to 10; anything else is a caller bug and panics.
func ScoreHand(contract Bid, contractorTricks, opponentTricks int) HandScore {
	if contractorTricks < 0 || opponentTricks < 0 || contractorTricks+opponentTricks != 10 {
		panic(fmt.Sprintf("scoring %d contractor + %d opponent tricks, want a 10-trick hand",
			contractorTricks, opponentTricks))
	}

	score := HandScore{
		Contract:         contract,
		ContractorTricks: contractorTricks,
		OpponentTricks:   opponentTricks,
		ContractMade:     contractorTricks >= contract.Tricks,
		Slam:             contractorTricks == 10,
		OpponentDelta:    opponentTricks * 10,
	}

	value := contract.Value()
	switch {
	case score.ContractMade && score.Slam:
		score.ContractorDelta = max(value, slamBonus)
	case score.ContractMade:
		score.ContractorDelta = value
	default:
		score.ContractorDelta = -value
	}
	return score
}

// CheckGameOver reports the winning team given cumulative scores, or nil
// while the game continues. Win thresholds are evaluated before loss
// thresholds; if both teams cross 500 in the same hand the strictly
// higher score wins (an exact tie stays undecided and play continues).
func CheckGameOver(scoreNS, scoreEW int) *Team {
	if scoreNS >= WinningScore || scoreEW >= WinningScore {
		switch {
		case scoreNS > scoreEW:
			return teamPtr(NorthSouth)
		case scoreEW > scoreNS:
			return teamPtr(EastWest)
		default:
			return nil
		}
	}
	if scoreNS <= LosingScore {
		return teamPtr(EastWest)
	}
	if scoreEW <= LosingScore {
		return teamPtr(NorthSouth)
	}
	return nil
}

func teamPtr(t Team) *Team {
	return &t
}
