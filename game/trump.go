package game

// TrumpRules resolves trump membership, bower identity, effective suits
// and card ordering for one hand's chosen trump suit. A nil trump suit
// means a no-trump hand, where the joker is the only trump.
type TrumpRules struct {
	trump *Suit
}

// NewTrumpRules creates trump rules for the given trump suit (nil for no-trump)
func NewTrumpRules(trump *Suit) TrumpRules {
	if trump != nil {
		t := *trump
		trump = &t
	}
	return TrumpRules{trump: trump}
}

// NoTrumpRules creates rules for a no-trump hand
func NoTrumpRules() TrumpRules {
	return TrumpRules{}
}

// TrumpSuit returns the trump suit, or nil in a no-trump hand
func (r TrumpRules) TrumpSuit() *Suit {
	if r.trump == nil {
		return nil
	}
	t := *r.trump
	return &t
}

// HasTrump returns true when a trump suit is set
func (r TrumpRules) HasTrump() bool {
	return r.trump != nil
}

// IsTrump reports whether the card counts as trump. The joker is always
// trump, even in no-trump hands.
func (r TrumpRules) IsTrump(c Card) bool {
	if c.IsJoker() {
		return true
	}
	if r.trump == nil {
		return false
	}
	return c.Suit == *r.trump || r.IsLeftBower(c)
}

// IsRightBower reports whether the card is the Jack of the trump suit
func (r TrumpRules) IsRightBower(c Card) bool {
	return r.trump != nil && c.Rank == Jack && c.Suit == *r.trump
}

// IsLeftBower reports whether the card is the Jack of the same-color
// suit as trump. The left bower counts as trump, not its printed suit.
func (r TrumpRules) IsLeftBower(c Card) bool {
	return r.trump != nil && c.Rank == Jack && c.Suit == r.trump.SameColor()
}

// EffectiveSuit returns the suit the card counts as for follow-suit
// purposes. The joker and the left bower count as the trump suit; in a
// no-trump hand the joker falls back to its placeholder suit, but it is
// still forced trump through IsTrump.
func (r TrumpRules) EffectiveSuit(c Card) Suit {
	if c.IsJoker() {
		if r.trump != nil {
			return *r.trump
		}
		return c.Suit
	}
	if r.IsLeftBower(c) {
		return *r.trump
	}
	return c.Suit
}

// Trump ordering: joker above the bowers, bowers above the ace.
// Ten sits above nine at 11 because the Jack has left the suit.
const (
	jokerPower      = 100
	rightBowerPower = 99
	leftBowerPower  = 98
)

func (r TrumpRules) trumpPower(c Card) int {
	switch {
	case c.IsJoker():
		return jokerPower
	case r.IsRightBower(c):
		return rightBowerPower
	case r.IsLeftBower(c):
		return leftBowerPower
	case c.Rank >= Queen:
		return int(c.Rank)
	default:
		// 4..10 shift up one slot to fill the Jack's place
		return int(c.Rank) + 1
	}
}

func plainPower(c Card) int {
	return int(c.Rank)
}

// Compare orders two cards under these rules: negative if a < b, zero if
// equal, positive if a > b. Trump beats non-trump unconditionally; two
// non-trumps are compared by plain rank and are assumed to share a suit
// (led-suit filtering is the trick engine's job).
func (r TrumpRules) Compare(a, b Card) int {
	aTrump, bTrump := r.IsTrump(a), r.IsTrump(b)
	switch {
	case aTrump && !bTrump:
		return 1
	case !aTrump && bTrump:
		return -1
	case aTrump && bTrump:
		return r.trumpPower(a) - r.trumpPower(b)
	default:
		return plainPower(a) - plainPower(b)
	}
}

// TrumpCards returns the cards that count as trump, preserving order
func (r TrumpRules) TrumpCards(cards []Card) []Card {
	var out []Card
	for _, c := range cards {
		if r.IsTrump(c) {
			out = append(out, c)
		}
	}
	return out
}

// NonTrumpCards returns the cards that do not count as trump, preserving order
func (r TrumpRules) NonTrumpCards(cards []Card) []Card {
	var out []Card
	for _, c := range cards {
		if !r.IsTrump(c) {
			out = append(out, c)
		}
	}
	return out
}

// HighestOf returns the highest card under these rules, and false for an
// empty slice
func (r TrumpRules) HighestOf(cards []Card) (Card, bool) {
	if len(cards) == 0 {
		return Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		if r.Compare(c, best) > 0 {
			best = c
		}
	}
	return best, true
}

// LowestOf returns the lowest card under these rules, and false for an
// empty slice
func (r TrumpRules) LowestOf(cards []Card) (Card, bool) {
	if len(cards) == 0 {
		return Card{}, false
	}
	worst := cards[0]
	for _, c := range cards[1:] {
		if r.Compare(c, worst) < 0 {
			worst = c
		}
	}
	return worst, true
}
