package bot

import (
	"math/rand"

	"fivehundred/game"
)

// RandomAgent plays uniformly random legal actions. It is the baseline
// opponent for simulations and the filler for abandoned seats.
type RandomAgent struct {
	name string
	rng  *rand.Rand
}

// NewRandomAgent creates a random agent with its own RNG
func NewRandomAgent(name string, rng *rand.Rand) *RandomAgent {
	return &RandomAgent{name: name, rng: rng}
}

func (a *RandomAgent) Name() string {
	return a.name
}

// ChooseBid passes most of the time, otherwise makes the minimum raise
// over the standing bid.
func (a *RandomAgent) ChooseBid(state *game.GameState, pos game.Position) BidChoice {
	if a.rng.Intn(3) != 0 {
		return BidChoice{Pass: true}
	}
	raise, ok := minimumRaise(game.HighestBid(state.BidHistory), a.rng)
	if !ok {
		return BidChoice{Pass: true}
	}
	return BidChoice{Tricks: raise.Tricks, Suit: raise.Suit}
}

// minimumRaise returns the cheapest bid that beats high, false when the
// auction already sits at 10 no-trump.
func minimumRaise(high *game.Bid, rng *rand.Rand) (game.Bid, bool) {
	if high == nil {
		suits := []game.BidSuit{game.BidSpades, game.BidClubs, game.BidDiamonds, game.BidHearts, game.NoTrump}
		return game.Bid{Tricks: 7, Suit: suits[rng.Intn(len(suits))]}, true
	}
	if high.Suit < game.NoTrump {
		return game.Bid{Tricks: high.Tricks, Suit: high.Suit + 1}, true
	}
	if high.Tricks < 10 {
		return game.Bid{Tricks: high.Tricks + 1, Suit: game.BidSpades}, true
	}
	return game.Bid{}, false
}

// ChooseDiscards buries five random cards
func (a *RandomAgent) ChooseDiscards(state *game.GameState, pos game.Position) []game.Card {
	hand := state.PlayerAt(pos).Hand
	picks := a.rng.Perm(len(hand))[:5]
	out := make([]game.Card, 5)
	for i, idx := range picks {
		out[i] = hand[idx]
	}
	return out
}

// ChoosePlay plays a random legal card
func (a *RandomAgent) ChoosePlay(state *game.GameState, pos game.Position) PlayChoice {
	legal := playableCards(state, pos)
	card := legal[a.rng.Intn(len(legal))]

	choice := PlayChoice{Card: card}
	if card.IsJoker() && !state.Rules().HasTrump() && leadingNow(state) {
		suit := game.AllSuits()[a.rng.Intn(4)]
		choice.NominatedSuit = &suit
	}
	return choice
}

// leadingNow reports whether the current play opens a trick
func leadingNow(state *game.GameState) bool {
	return state.CurrentTrick != nil && len(state.CurrentTrick.Plays) == 0
}
