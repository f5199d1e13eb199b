package bot

import (
	"sort"

	"fivehundred/game"
)

// BasicAgent plays straightforward heuristics: bid from counted winners,
// keep trump through the kitty, win tricks as cheaply as possible.
type BasicAgent struct {
	name string
}

// NewBasicAgent creates a heuristic agent
func NewBasicAgent(name string) *BasicAgent {
	return &BasicAgent{name: name}
}

func (a *BasicAgent) Name() string {
	return a.name
}

// ChooseBid counts likely winners in the hand's best suit and bids that
// many tricks when it beats the standing bid. An inkle goes out when
// the hand is promising but short of seven, and the seat may still
// signal.
func (a *BasicAgent) ChooseBid(state *game.GameState, pos game.Position) BidChoice {
	hand := state.PlayerAt(pos).Hand

	bestSuit, winners := bestTrumpSuit(hand)
	if winners >= 7 {
		tricks := winners
		if tricks > 10 {
			tricks = 10
		}
		proposed := game.Bid{Tricks: tricks, Suit: game.BidSuitOf(bestSuit), Bidder: pos}
		if high := game.HighestBid(state.BidHistory); high == nil || proposed.Beats(*high) {
			return BidChoice{Tricks: proposed.Tricks, Suit: proposed.Suit}
		}
		return BidChoice{Pass: true}
	}

	if winners == 6 && game.CanInkle(pos, state.Dealer, state.BidHistory) {
		return BidChoice{Inkle: true, Tricks: 6, Suit: game.BidSuitOf(bestSuit)}
	}
	return BidChoice{Pass: true}
}

// bestTrumpSuit returns the suit that yields the most likely winners
// and that count: trump held plus side aces.
func bestTrumpSuit(hand []game.Card) (game.Suit, int) {
	best, bestWinners := game.Hearts, -1
	for _, suit := range game.AllSuits() {
		rules := game.NewTrumpRules(&suit)
		winners := len(rules.TrumpCards(hand))
		for _, c := range rules.NonTrumpCards(hand) {
			if c.Rank == game.Ace {
				winners++
			}
		}
		if winners > bestWinners {
			best, bestWinners = suit, winners
		}
	}
	return best, bestWinners
}

// ChooseDiscards buries the five weakest cards, never trump
func (a *BasicAgent) ChooseDiscards(state *game.GameState, pos game.Position) []game.Card {
	hand := state.PlayerAt(pos).Hand
	rules := state.Rules()

	sorted := append([]game.Card(nil), hand...)
	sort.Slice(sorted, func(i, j int) bool {
		iTrump, jTrump := rules.IsTrump(sorted[i]), rules.IsTrump(sorted[j])
		if iTrump != jTrump {
			return !iTrump // non-trump buries first
		}
		return rules.Compare(sorted[i], sorted[j]) < 0
	})
	return sorted[:5]
}

// ChoosePlay wins the trick with the cheapest card that takes it, or
// sheds the lowest legal card when the trick is lost.
func (a *BasicAgent) ChoosePlay(state *game.GameState, pos game.Position) PlayChoice {
	legal := playableCards(state, pos)
	rules := state.Rules()
	trick := state.CurrentTrick

	if leadingNow(state) {
		return a.lead(state, pos, legal)
	}

	// Find the cheapest card that would currently win the trick
	var cheapest *game.Card
	for i := range legal {
		candidate := legal[i]
		outcome, err := game.PlayCard(*trick, candidate, pos, legal, rules)
		if err != nil {
			continue
		}
		winner, _ := game.CurrentWinner(outcome.Trick, rules)
		if winner != pos {
			continue
		}
		if cheapest == nil || rules.Compare(candidate, *cheapest) < 0 {
			c := candidate
			cheapest = &c
		}
	}
	if cheapest != nil {
		return PlayChoice{Card: *cheapest}
	}

	low, _ := rules.LowestOf(legal)
	return PlayChoice{Card: low}
}

// lead opens a trick: top trump when it is unbeatable, otherwise the
// lowest card of the longest plain suit.
func (a *BasicAgent) lead(state *game.GameState, pos game.Position, legal []game.Card) PlayChoice {
	rules := state.Rules()

	// Bare joker lead in no-trump needs a nomination
	if len(legal) == 1 && legal[0].IsJoker() && !rules.HasTrump() {
		suit := mostHeldSuit(state.PlayerAt(pos).Hand)
		return PlayChoice{Card: legal[0], NominatedSuit: &suit}
	}

	if high, ok := rules.HighestOf(legal); ok && rules.IsTrump(high) {
		outstanding := outstandingTo(state, pos)
		if top, any := rules.HighestOf(rules.TrumpCards(outstanding)); !any || rules.Compare(high, top) > 0 {
			return PlayChoice{Card: high}
		}
	}

	plain := rules.NonTrumpCards(legal)
	if len(plain) == 0 {
		low, _ := rules.LowestOf(legal)
		return PlayChoice{Card: low}
	}
	suit := mostHeldSuit(plain)
	var ofSuit []game.Card
	for _, c := range plain {
		if c.Suit == suit {
			ofSuit = append(ofSuit, c)
		}
	}
	low, _ := rules.LowestOf(ofSuit)
	return PlayChoice{Card: low}
}

// outstandingTo returns the cards neither in pos's hand nor yet played
func outstandingTo(state *game.GameState, pos game.Position) []game.Card {
	hand := state.PlayerAt(pos).Hand
	played := state.PlayedCards()
	seen := make(map[game.Card]bool, len(hand)+len(played))
	for _, c := range hand {
		seen[c] = true
	}
	for _, c := range played {
		seen[c] = true
	}
	var out []game.Card
	for _, c := range game.NewDeck().Cards {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}
