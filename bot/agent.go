// Package bot provides computer players that act through the same
// action interface as human players.
package bot

import "fivehundred/game"

// BidChoice is an agent's auction decision
type BidChoice struct {
	Pass   bool
	Inkle  bool
	Tricks int
	Suit   game.BidSuit
}

// PlayChoice is an agent's card to play. NominatedSuit is set only when
// leading the joker in a no-trump hand.
type PlayChoice struct {
	Card          game.Card
	NominatedSuit *game.Suit
}

// Agent decides game actions for one seat. Implementations must only
// consult their own hand and the public fields of the state.
type Agent interface {
	Name() string
	ChooseBid(state *game.GameState, pos game.Position) BidChoice
	ChooseDiscards(state *game.GameState, pos game.Position) []game.Card
	ChoosePlay(state *game.GameState, pos game.Position) PlayChoice
}

// NextAction translates the agent's decision for the current phase into
// an engine action. False when the seat has nothing to do right now.
func NextAction(agent Agent, state *game.GameState, pos game.Position) (game.Action, bool) {
	switch state.Phase {
	case game.PhaseBidding:
		if state.CurrentPlayer != pos {
			return game.Action{}, false
		}
		choice := agent.ChooseBid(state, pos)
		return game.Action{
			Type:      game.ActionPlaceBid,
			Position:  pos,
			Pass:      choice.Pass,
			Inkle:     choice.Inkle,
			BidTricks: choice.Tricks,
			BidSuit:   choice.Suit,
		}, true

	case game.PhaseKitty:
		if state.Contract == nil || state.Contract.Bidder != pos {
			return game.Action{}, false
		}
		return game.Action{
			Type:     game.ActionExchangeKitty,
			Position: pos,
			Discards: agent.ChooseDiscards(state, pos),
		}, true

	case game.PhasePlaying:
		if state.CurrentPlayer != pos {
			return game.Action{}, false
		}
		choice := agent.ChoosePlay(state, pos)
		return game.Action{
			Type:          game.ActionPlayCard,
			Position:      pos,
			Card:          choice.Card,
			NominatedSuit: choice.NominatedSuit,
		}, true

	default:
		return game.Action{}, false
	}
}

// playableCards returns the legal plays, extended with the joker when a
// no-trump lead leaves it as the only card: the engine allows it once a
// suit is nominated, but LegalPlays cannot know the nomination yet.
func playableCards(state *game.GameState, pos game.Position) []game.Card {
	legal := state.LegalPlays(pos)
	if len(legal) > 0 {
		return legal
	}
	hand := state.PlayerAt(pos).Hand
	if len(hand) == 1 && hand[0].IsJoker() {
		return hand
	}
	return legal
}

// mostHeldSuit returns the suit the hand holds most of, ignoring the
// joker. Falls back to hearts for a bare joker.
func mostHeldSuit(hand []game.Card) game.Suit {
	counts := make(map[game.Suit]int)
	for _, c := range hand {
		if !c.IsJoker() {
			counts[c.Suit]++
		}
	}
	best, bestCount := game.Hearts, -1
	for _, s := range game.AllSuits() {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}
