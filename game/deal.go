package game

import "fmt"

// DealResult holds one hand's card distribution
type DealResult struct {
	Hands map[Position][]Card
	Kitty []Card
}

// dealPattern is the fixed 500 distribution: three rounds to each player
// with kitty cards interleaved (3 each, 3 kitty, 4 each, 2 kitty, 3 each).
var dealPattern = []struct {
	perPlayer int
	toKitty   int
}{
	{3, 3},
	{4, 2},
	{3, 0},
}

// DealHand partitions a 45-card deck into four 10-card hands and a
// 5-card kitty, dealing clockwise starting left of the dealer. The deck
// is consumed in order; shuffling is the caller's responsibility.
func DealHand(deck *Deck, dealer Position) (*DealResult, error) {
	if deck == nil || len(deck.Cards) != 45 {
		got := 0
		if deck != nil {
			got = len(deck.Cards)
		}
		return nil, fmt.Errorf("deal requires a 45-card deck, got %d", got)
	}

	result := &DealResult{Hands: make(map[Position][]Card, 4)}
	for _, round := range dealPattern {
		pos := dealer.Next()
		for i := 0; i < 4; i++ {
			result.Hands[pos] = append(result.Hands[pos], deck.Deal(round.perPlayer)...)
			pos = pos.Next()
		}
		if round.toKitty > 0 {
			result.Kitty = append(result.Kitty, deck.Deal(round.toKitty)...)
		}
	}

	// Provable from the pattern; kept as a safety net against pattern edits.
	for _, pos := range AllPositions() {
		if len(result.Hands[pos]) != 10 {
			return nil, fmt.Errorf("deal produced %d cards for %s, want 10", len(result.Hands[pos]), pos)
		}
	}
	if len(result.Kitty) != 5 {
		return nil, fmt.Errorf("deal produced %d kitty cards, want 5", len(result.Kitty))
	}
	return result, nil
}

// NextDealer returns who deals the following hand
func NextDealer(current Position) Position {
	return current.Next()
}
