package game

// CanClaimRemaining conservatively decides whether the holder of hand is
// guaranteed to win every remaining trick, given the cards already
// played this hand. It is used only to fast-forward foregone endings;
// a false negative costs nothing, so every test errs toward "no".
//
// Any one of three sufficient tests passes the claim:
//  1. the holder has the joker and every unplayed trump card, with
//     enough trump in hand to lead one at every remaining trick,
//  2. the holder has the joker, holds nothing but trump, and every held
//     card outranks every unseen trump,
//  3. every held card is a sure winner when led: no unseen card of its
//     effective suit outranks it, and a plain-suit card additionally
//     requires every trump to be out of play, since a hand void in the
//     suit could ruff the lead.
//
// Cards buried in the kitty are never visible here, so they count as
// outstanding, which only makes the answer more conservative.
func CanClaimRemaining(hand, played []Card, rules TrumpRules, tricksRemaining int) bool {
	if len(hand) == 0 || len(hand) < tricksRemaining {
		return false
	}

	outstanding := outstandingCards(hand, played)
	outstandingTrump := rules.TrumpCards(outstanding)
	hasJoker := containsCard(hand, JokerCard())

	if hasJoker && len(outstandingTrump) == 0 && len(rules.TrumpCards(hand)) >= tricksRemaining {
		return true
	}
	if hasJoker && len(rules.NonTrumpCards(hand)) == 0 && outranksAll(hand, outstandingTrump, rules) {
		return true
	}
	return everyHeldCardWins(hand, outstanding, outstandingTrump, rules)
}

// outstandingCards returns every deck card not yet seen by the holder:
// not in their hand and not played to a finished or current trick.
func outstandingCards(hand, played []Card) []Card {
	var out []Card
	for _, c := range NewDeck().Cards {
		if !containsCard(hand, c) && !containsCard(played, c) {
			out = append(out, c)
		}
	}
	return out
}

// everyHeldCardWins checks claim test 3: each held card would win a
// trick it led no matter what the other seats do. An unseen card of the
// same effective suit that outranks it takes the trick, and a plain
// lead also loses to any unseen trump ruffing from a void hand. The
// joker counts as trump here, so an unseen joker blocks every plain
// claim and any trump claim it would outrank, in no-trump included.
func everyHeldCardWins(hand, outstanding, outstandingTrump []Card, rules TrumpRules) bool {
	for _, held := range hand {
		if !rules.IsTrump(held) && len(outstandingTrump) > 0 {
			return false
		}
		suit := rules.EffectiveSuit(held)
		for _, c := range outstanding {
			if rules.EffectiveSuit(c) == suit && rules.Compare(c, held) > 0 {
				return false
			}
		}
	}
	return true
}

// outranksAll reports whether every held card beats every threat
func outranksAll(hand, threats []Card, rules TrumpRules) bool {
	for _, held := range hand {
		for _, threat := range threats {
			if rules.Compare(threat, held) >= 0 {
				return false
			}
		}
	}
	return true
}
