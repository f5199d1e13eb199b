package game

import (
	"math/rand"
	"testing"
)

func TestDealHand(t *testing.T) {
	deck := NewDeck()
	deck.ShuffleWithRNG(rand.New(rand.NewSource(1)))

	result, err := DealHand(deck, North)
	if err != nil {
		t.Fatalf("DealHand failed: %v", err)
	}

	for _, pos := range AllPositions() {
		if len(result.Hands[pos]) != 10 {
			t.Errorf("%s has %d cards, want 10", pos, len(result.Hands[pos]))
		}
	}
	if len(result.Kitty) != 5 {
		t.Errorf("Kitty has %d cards, want 5", len(result.Kitty))
	}

	// Every deck card lands in exactly one place
	seen := make(map[Card]bool)
	total := 0
	for _, pos := range AllPositions() {
		for _, c := range result.Hands[pos] {
			if seen[c] {
				t.Errorf("Card %s dealt twice", c)
			}
			seen[c] = true
			total++
		}
	}
	for _, c := range result.Kitty {
		if seen[c] {
			t.Errorf("Card %s in both a hand and the kitty", c)
		}
		seen[c] = true
		total++
	}
	if total != 45 {
		t.Errorf("Dealt %d cards, want 45", total)
	}
}

func TestDealHandRejectsShortDeck(t *testing.T) {
	deck := NewDeck()
	deck.Deal(5)
	if _, err := DealHand(deck, North); err == nil {
		t.Error("DealHand should reject a deck that is not 45 cards")
	}
}

func TestNextDealer(t *testing.T) {
	order := []Position{North, East, South, West, North}
	for i := 0; i < len(order)-1; i++ {
		if got := NextDealer(order[i]); got != order[i+1] {
			t.Errorf("NextDealer(%s) = %s, want %s", order[i], got, order[i+1])
		}
	}
}

func TestPositions(t *testing.T) {
	if North.Partner() != South || East.Partner() != West {
		t.Error("Partners should sit opposite")
	}
	if TeamOf(North) != NorthSouth || TeamOf(South) != NorthSouth {
		t.Error("North and South should be on the north-south team")
	}
	if TeamOf(East) != EastWest || TeamOf(West) != EastWest {
		t.Error("East and West should be on the east-west team")
	}
	if NorthSouth.Other() != EastWest || EastWest.Other() != NorthSouth {
		t.Error("Team.Other should flip the partnership")
	}
}
