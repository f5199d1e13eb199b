package game

import (
	"errors"
	"fmt"
)

// BidSuit is a suit for bidding purposes: the four suits plus no-trump.
// The order is bidding precedence (spades lowest, no-trump highest).
type BidSuit int

const (
	BidSpades BidSuit = iota
	BidClubs
	BidDiamonds
	BidHearts
	NoTrump
)

func (s BidSuit) String() string {
	if s == NoTrump {
		return "no-trump"
	}
	return Suit(s).String()
}

// BidSuitOf lifts a plain suit into a BidSuit
func BidSuitOf(s Suit) BidSuit {
	return BidSuit(s)
}

// TrumpSuit converts the bid suit to the trump suit it establishes,
// nil for no-trump.
func (s BidSuit) TrumpSuit() *Suit {
	if s == NoTrump {
		return nil
	}
	suit := Suit(s)
	return &suit
}

// ParseBidSuit parses a bid suit name ("spades", ..., "no-trump")
func ParseBidSuit(name string) (BidSuit, bool) {
	if name == "no-trump" || name == "notrump" {
		return NoTrump, true
	}
	for _, s := range AllSuits() {
		if s.String() == name {
			return BidSuitOf(s), true
		}
	}
	return NoTrump, false
}

// Bid is a contract proposal: win at least Tricks tricks with Suit as trump
type Bid struct {
	Tricks int      `json:"tricks"`
	Suit   BidSuit  `json:"suit"`
	Bidder Position `json:"bidder"`
}

// Avondale base values for a 6-trick contract; each extra trick adds 100.
var avondaleBase = [5]int{
	BidSpades:   40,
	BidClubs:    60,
	BidDiamonds: 80,
	BidHearts:   100,
	NoTrump:     120,
}

// Value returns the bid's point value from the Avondale table
func (b Bid) Value() int {
	return avondaleBase[b.Suit] + 100*(b.Tricks-6)
}

// Beats reports whether this bid outranks other: more tricks, or the
// same tricks in a higher suit.
func (b Bid) Beats(other Bid) bool {
	if b.Tricks != other.Tricks {
		return b.Tricks > other.Tricks
	}
	return b.Suit > other.Suit
}

func (b Bid) String() string {
	return fmt.Sprintf("%d %s by %s", b.Tricks, b.Suit, b.Bidder)
}

// BidKind tags one auction action
type BidKind int

const (
	BidPass BidKind = iota
	BidInkle
	BidNormal
)

func (k BidKind) String() string {
	return [...]string{"pass", "inkle", "bid"}[k]
}

// BidEntry is one recorded auction action. Bid is nil iff Kind is
// BidPass; use the constructors to keep that pairing intact.
type BidEntry struct {
	Bidder Position `json:"bidder"`
	Kind   BidKind  `json:"kind"`
	Bid    *Bid     `json:"bid,omitempty"`
}

// PassEntry records a pass
func PassEntry(bidder Position) BidEntry {
	return BidEntry{Bidder: bidder, Kind: BidPass}
}

// InkleEntry records an inkle (a capped 6-trick signal bid)
func InkleEntry(bid Bid) BidEntry {
	return BidEntry{Bidder: bid.Bidder, Kind: BidInkle, Bid: &bid}
}

// NormalEntry records a regular bid
func NormalEntry(bid Bid) BidEntry {
	return BidEntry{Bidder: bid.Bidder, Kind: BidNormal, Bid: &bid}
}

// Auction bid submission errors
var (
	ErrAlreadyBid      = errors.New("player has already acted this auction")
	ErrNotYourBid      = errors.New("not this player's turn to bid")
	ErrAuctionOver     = errors.New("auction is complete")
	ErrInkleNotAllowed = errors.New("only the first two bidders may inkle")
	ErrInkleTricks     = errors.New("an inkle is always a 6-trick bid")
	ErrBidTooLow       = errors.New("bid must beat the current highest bid")
	ErrBidTricksRange  = errors.New("bid must be for 7 to 10 tricks")
)

// BiddingOrder returns the four seats in the order they act, starting
// left of the dealer. The American variant is a single pass: each seat
// acts exactly once.
func BiddingOrder(dealer Position) [4]Position {
	var order [4]Position
	pos := dealer.Next()
	for i := 0; i < 4; i++ {
		order[i] = pos
		pos = pos.Next()
	}
	return order
}

// NextBidder returns whose turn it is, or false when all four have acted
func NextBidder(dealer Position, history []BidEntry) (Position, bool) {
	if len(history) >= 4 {
		return North, false
	}
	return BiddingOrder(dealer)[len(history)], true
}

func hasActed(bidder Position, history []BidEntry) bool {
	for _, e := range history {
		if e.Bidder == bidder {
			return true
		}
	}
	return false
}

// CanInkle reports whether the bidder may inkle: only the first two
// seats in bidding order, and only before they have acted.
func CanInkle(bidder, dealer Position, history []BidEntry) bool {
	order := BiddingOrder(dealer)
	if bidder != order[0] && bidder != order[1] {
		return false
	}
	return !hasActed(bidder, history)
}

// highestOfKind returns the best bid of the given kind in the history
func highestOfKind(history []BidEntry, kind BidKind) *Bid {
	var best *Bid
	for _, e := range history {
		if e.Kind != kind || e.Bid == nil {
			continue
		}
		if best == nil || e.Bid.Beats(*best) {
			best = e.Bid
		}
	}
	return best
}

// HighestBid returns the best non-inkle bid so far, nil if none
func HighestBid(history []BidEntry) *Bid {
	return highestOfKind(history, BidNormal)
}

// HighestInkle returns the best inkle so far, nil if none
func HighestInkle(history []BidEntry) *Bid {
	return highestOfKind(history, BidInkle)
}

// ValidateBid checks a proposed auction action against the history. A
// nil proposed bid is a pass and is always legal on the bidder's turn.
// The returned error carries the reason; it never mutates history.
func ValidateBid(bidder, dealer Position, proposed *Bid, history []BidEntry, isInkle bool) error {
	turn, ok := NextBidder(dealer, history)
	if !ok {
		return ErrAuctionOver
	}
	if turn != bidder {
		return ErrNotYourBid
	}
	if proposed == nil {
		return nil
	}
	if hasActed(bidder, history) {
		return ErrAlreadyBid
	}
	if isInkle {
		if !CanInkle(bidder, dealer, history) {
			return ErrInkleNotAllowed
		}
		if proposed.Tricks != 6 {
			return ErrInkleTricks
		}
		return nil
	}
	// Only an inkle may sit at 6; a bare 6-trick bid could never win.
	if proposed.Tricks < 7 || proposed.Tricks > 10 {
		return ErrBidTricksRange
	}
	if high := HighestBid(history); high != nil && !proposed.Beats(*high) {
		return fmt.Errorf("%w: %d %s does not beat %d %s", ErrBidTooLow,
			proposed.Tricks, proposed.Suit, high.Tricks, high.Suit)
	}
	return nil
}

// AuctionResult is the terminal outcome of an auction: a winning
// contract, or a redeal when no bid reached 7 tricks. Redeal is a
// first-class outcome, not an error.
type AuctionResult struct {
	Redeal bool
	Winner *Bid
}

// DetermineWinner resolves a completed auction. It must only be called
// once all four seats have acted; an incomplete history is a caller bug.
func DetermineWinner(history []BidEntry) AuctionResult {
	if len(history) != 4 {
		panic(fmt.Sprintf("auction resolved with %d of 4 actions", len(history)))
	}
	highest := HighestBid(history)
	if highest == nil || highest.Tricks < 7 {
		// Only inkles or passes: inkles cannot win, so the hand is redealt.
		return AuctionResult{Redeal: true}
	}
	return AuctionResult{Winner: highest}
}
