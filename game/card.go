package game

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
	"strings"
)

// Suit represents a card suit. The order matches bidding precedence:
// spades rank lowest, hearts highest.
type Suit int

const (
	Spades Suit = iota
	Clubs
	Diamonds
	Hearts
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "spades"
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	default:
		return "?"
	}
}

// Code returns the single-letter suit code used in card codes.
func (s Suit) Code() string {
	return [...]string{"S", "C", "D", "H"}[s]
}

// AllSuits returns all suits in bidding order
func AllSuits() []Suit {
	return []Suit{Spades, Clubs, Diamonds, Hearts}
}

// SameColor returns the other suit of the same color.
// Spades <-> Clubs (black), Hearts <-> Diamonds (red).
// The left bower is the Jack of this suit.
func (s Suit) SameColor() Suit {
	switch s {
	case Spades:
		return Clubs
	case Clubs:
		return Spades
	case Hearts:
		return Diamonds
	case Diamonds:
		return Hearts
	default:
		return s
	}
}

// Rank represents a card rank. The 500 deck runs 4 through Ace plus a
// single joker. Joker carries rank 0 so the numeric ranks keep their
// face values.
type Rank int

const (
	Joker Rank = 0
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

func (r Rank) String() string {
	switch r {
	case Joker:
		return "joker"
	case Jack:
		return "jack"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Ace:
		return "ace"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// Code returns the short rank code used in card codes ("4".."10", "J", "Q", "K", "A").
func (r Rank) Code() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// AllRanks returns the non-joker ranks in order (4-A)
func AllRanks() []Rank {
	return []Rank{Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
}

// Card represents a playing card. The joker stores a placeholder suit
// (Spades) so the two-int encoding stays total; that suit carries no
// meaning and callers must route suit questions through TrumpRules.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// JokerCard returns the single joker.
func JokerCard() Card {
	return Card{Rank: Joker, Suit: Spades}
}

// IsJoker returns true for the joker regardless of its placeholder suit.
func (c Card) IsJoker() bool {
	return c.Rank == Joker
}

// String returns the card code, e.g. "10H", "JS", "JOKER".
func (c Card) String() string {
	if c.IsJoker() {
		return "JOKER"
	}
	return c.Rank.Code() + c.Suit.Code()
}

// ParseCard parses a card code produced by String. Codes are
// case-insensitive.
func ParseCard(code string) (Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "JOKER" {
		return JokerCard(), nil
	}
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	var suit Suit
	switch code[len(code)-1] {
	case 'S':
		suit = Spades
	case 'C':
		suit = Clubs
	case 'D':
		suit = Diamonds
	case 'H':
		suit = Hearts
	default:
		return Card{}, fmt.Errorf("invalid suit in card code %q", code)
	}
	var rank Rank
	switch code[:len(code)-1] {
	case "4":
		rank = Four
	case "5":
		rank = Five
	case "6":
		rank = Six
	case "7":
		rank = Seven
	case "8":
		rank = Eight
	case "9":
		rank = Nine
	case "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank in card code %q", code)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// Encode returns the card as two small integers (rank index, suit index)
// for persistence. The round trip through DecodeCard is stable.
func (c Card) Encode() (int, int) {
	return int(c.Rank), int(c.Suit)
}

// DecodeCard rebuilds a card from its two-int encoding. Out-of-range
// values are clamped rather than rejected, since persisted data may
// predate the current enum ordering: non-joker ranks below 4 clamp to
// Four, oversized ranks to Ace, and suits into [Spades, Hearts].
func DecodeCard(rank, suit int) Card {
	if suit < int(Spades) {
		suit = int(Spades)
	}
	if suit > int(Hearts) {
		suit = int(Hearts)
	}
	switch {
	case rank <= int(Joker):
		return JokerCard()
	case rank < int(Four):
		rank = int(Four)
	case rank > int(Ace):
		rank = int(Ace)
	}
	return Card{Rank: Rank(rank), Suit: Suit(suit)}
}

// Deck represents a deck of cards
type Deck struct {
	Cards []Card
}

// NewDeck creates the 45-card 500 deck: ranks 4 through Ace in each of
// the four suits, plus one joker.
func NewDeck() *Deck {
	d := &Deck{Cards: make([]Card, 0, 45)}
	for _, suit := range AllSuits() {
		for _, rank := range AllRanks() {
			d.Cards = append(d.Cards, NewCard(rank, suit))
		}
	}
	d.Cards = append(d.Cards, JokerCard())
	return d
}

// Shuffle randomizes the deck order using cryptographically secure randomness
func (d *Deck) Shuffle() {
	var seed int64
	binary.Read(rand.Reader, binary.LittleEndian, &seed)
	rng := mathrand.New(mathrand.NewSource(seed))

	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// ShuffleWithRNG randomizes the deck order with a caller-supplied RNG,
// for deterministic simulation.
func (d *Deck) ShuffleWithRNG(rng *mathrand.Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal removes and returns n cards from the top of the deck
// Returns a copy of the cards to prevent slice aliasing issues
func (d *Deck) Deal(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}
	dealt := make([]Card, n)
	copy(dealt, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return dealt
}

// Remaining returns how many cards are left
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
