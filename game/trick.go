package game

// CardPlay is one card played into a trick by a player
type CardPlay struct {
	Card   Card     `json:"card"`
	Player Position `json:"player"`
}

// Trick is an immutable snapshot of one trick in progress. The led suit
// is derived from the first play under the hand's trump rules, never
// stored. NominatedSuit is set only when a no-trump hand was led with
// the joker: the leader nominates the suit the others must follow.
type Trick struct {
	Plays         []CardPlay `json:"plays"`
	Leader        Position   `json:"leader"`
	NominatedSuit *Suit      `json:"nominatedSuit,omitempty"`
}

// NewTrick starts an empty trick led by the given player
func NewTrick(leader Position) Trick {
	return Trick{Leader: leader}
}

// IsComplete returns true once all four players have played
func (t Trick) IsComplete() bool {
	return len(t.Plays) == 4
}

// NextPlayer returns who plays next, or false when the trick is complete
func (t Trick) NextPlayer() (Position, bool) {
	if t.IsComplete() {
		return North, false
	}
	pos := t.Leader
	for i := 0; i < len(t.Plays); i++ {
		pos = pos.Next()
	}
	return pos, true
}

// LedSuit returns the suit led, derived from the first card: the left
// bower leads trump, the joker leads trump (or its nominated suit in a
// no-trump hand). False if nothing has been played or a no-trump joker
// lead has no nomination.
func (t Trick) LedSuit(rules TrumpRules) (Suit, bool) {
	if len(t.Plays) == 0 {
		return Spades, false
	}
	first := t.Plays[0].Card
	if first.IsJoker() && !rules.HasTrump() {
		if t.NominatedSuit == nil {
			return Spades, false
		}
		return *t.NominatedSuit, true
	}
	return rules.EffectiveSuit(first), true
}

// LegalCards returns the cards in hand that may legally be played into
// the trick. Leading allows any card, except the joker in a no-trump
// hand may only lead with a nominated suit (passed by the caller once
// the leader has declared it). Following requires matching the led suit
// by effective suit; a hand void in the led suit may play anything.
func LegalCards(trick Trick, hand []Card, rules TrumpRules, nominated *Suit) []Card {
	if len(trick.Plays) == 0 {
		if rules.HasTrump() || nominated != nil {
			return append([]Card(nil), hand...)
		}
		var out []Card
		for _, c := range hand {
			if !c.IsJoker() {
				out = append(out, c)
			}
		}
		return out
	}

	led, ok := trick.LedSuit(rules)
	if !ok {
		return append([]Card(nil), hand...)
	}

	var follows []Card
	for _, c := range hand {
		if followsLed(c, led, trick, rules) {
			follows = append(follows, c)
		}
	}
	if len(follows) == 0 {
		// Void in the led suit: anything goes
		return append([]Card(nil), hand...)
	}
	return follows
}

// followsLed reports whether playing c follows the led suit. After a
// nominated-suit joker lead in no-trump, following means matching the
// nominated suit; the joker itself always follows.
func followsLed(c Card, led Suit, trick Trick, rules TrumpRules) bool {
	if !rules.HasTrump() && c.IsJoker() {
		return true
	}
	return rules.EffectiveSuit(c) == led
}

// ValidatePlay checks that the card is in hand and legal for the trick.
// The two failure modes are distinct errors: ErrCardNotInHand for a card
// the player doesn't hold, ErrMustFollowSuit for a held card that breaks
// the follow-suit rule, and ErrJokerLeadNeedsSuit for a bare joker lead
// in a no-trump hand.
func ValidatePlay(trick Trick, card Card, hand []Card, rules TrumpRules) error {
	if !containsCard(hand, card) {
		return ErrCardNotInHand
	}
	if len(trick.Plays) == 0 && card.IsJoker() && !rules.HasTrump() && trick.NominatedSuit == nil {
		return ErrJokerLeadNeedsSuit
	}
	for _, legal := range LegalCards(trick, hand, rules, trick.NominatedSuit) {
		if legal == card {
			return nil
		}
	}
	return ErrMustFollowSuit
}

// PlayOutcome is the result of a legal play: the advanced trick, and the
// winner once the fourth card lands.
type PlayOutcome struct {
	Trick    Trick
	Complete bool
	Winner   Position
}

// PlayCard validates and applies one play, returning a new trick value.
// The input trick is never mutated; an illegal play returns an error and
// leaves everything untouched.
func PlayCard(trick Trick, card Card, player Position, hand []Card, rules TrumpRules) (PlayOutcome, error) {
	if turn, ok := trick.NextPlayer(); !ok || turn != player {
		return PlayOutcome{}, ErrNotYourTurn
	}
	if err := ValidatePlay(trick, card, hand, rules); err != nil {
		return PlayOutcome{}, err
	}

	next := Trick{
		Plays:         make([]CardPlay, len(trick.Plays), len(trick.Plays)+1),
		Leader:        trick.Leader,
		NominatedSuit: trick.NominatedSuit,
	}
	copy(next.Plays, trick.Plays)
	next.Plays = append(next.Plays, CardPlay{Card: card, Player: player})

	outcome := PlayOutcome{Trick: next}
	if next.IsComplete() {
		winner, _ := CurrentWinner(next, rules)
		outcome.Complete = true
		outcome.Winner = winner
	}
	return outcome, nil
}

// CurrentWinner returns who currently holds the trick: the highest trump
// if any trump has been played, otherwise the highest card of the led
// suit. Off-suit discards never win, however high. False for an empty
// trick.
func CurrentWinner(trick Trick, rules TrumpRules) (Position, bool) {
	if len(trick.Plays) == 0 {
		return North, false
	}
	led, _ := trick.LedSuit(rules)

	best := -1
	for i, play := range trick.Plays {
		if !contends(play.Card, led, rules) {
			continue
		}
		if best == -1 || rules.Compare(play.Card, trick.Plays[best].Card) > 0 {
			best = i
		}
	}
	if best == -1 {
		// No card followed and no trump fell; the lead stands
		best = 0
	}
	return trick.Plays[best].Player, true
}

// contends reports whether a card can win the trick at all: any trump,
// or a card of the led suit.
func contends(c Card, led Suit, rules TrumpRules) bool {
	return rules.IsTrump(c) || rules.EffectiveSuit(c) == led
}

func containsCard(cards []Card, target Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}
