package game

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"math/rand"
)

// Phase represents the current game phase
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseBidding  Phase = "bidding"
	PhaseKitty    Phase = "kitty" // Contractor exchanges with the kitty
	PhasePlaying  Phase = "playing"
	PhaseScoring  Phase = "scoring"
	PhaseFinished Phase = "finished"
)

// Player represents a player in the game
type Player struct {
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	Hand         []Card   `json:"hand,omitempty"`
	SessionToken string   `json:"-"`
	Connected    bool     `json:"connected"`
}

// GenerateSessionToken creates a random session token
func GenerateSessionToken() string {
	b := make([]byte, 16)
	cryptorand.Read(b)
	return hex.EncodeToString(b)
}

// TeamState tracks one partnership's standing
type TeamState struct {
	Score     int `json:"score"`
	TricksWon int `json:"tricksWon"` // Tricks taken this hand
	GamesWon  int `json:"gamesWon"`
}

// CompletedTrick stores a finished trick with its winner
type CompletedTrick struct {
	Trick  Trick    `json:"trick"`
	Winner Position `json:"winner"`
}

// GameState represents the complete state of a game. The pure rules
// components (TrumpRules, the auction functions, the trick engine, the
// scorer) never see this type; it is the orchestration layer that feeds
// them values and records their results.
type GameState struct {
	Phase         Phase         `json:"phase"`
	Players       [4]*Player    `json:"players"`
	Teams         [2]*TeamState `json:"teams"`
	Deck          *Deck         `json:"-"`
	Dealer        Position      `json:"dealer"`
	CurrentPlayer Position      `json:"currentPlayer"`

	// Auction
	BidHistory []BidEntry `json:"bidHistory"`
	Contract   *Bid       `json:"contract"`
	Redeals    int        `json:"redeals"` // Consecutive redeals this hand

	// Kitty - dealt face down, exchanged by the contractor
	Kitty []Card `json:"-"`

	// Play
	CurrentTrick    *Trick           `json:"currentTrick"`
	LastTrick       *CompletedTrick  `json:"lastTrick"`
	CompletedTricks []CompletedTrick `json:"-"`

	LastHandScore *HandScore `json:"lastHandScore"`
	Winner        *Team      `json:"winner"`

	// House is the game owner's seat, nil until someone joins
	House *Position `json:"house"`

	// Rng, when set, makes deals deterministic for simulations and tests
	Rng *rand.Rand `json:"-"`
}

// NewGameState creates a new game in lobby phase
func NewGameState() *GameState {
	return &GameState{
		Phase: PhaseLobby,
		Teams: [2]*TeamState{{}, {}},
	}
}

// PlayerAt returns the player seated at a position, nil if empty
func (g *GameState) PlayerAt(pos Position) *Player {
	return g.Players[int(pos)]
}

// AllPlayersSeated returns true if all 4 seats are filled
func (g *GameState) AllPlayersSeated() bool {
	for _, p := range g.Players {
		if p == nil {
			return false
		}
	}
	return true
}

// ConnectedPlayerCount returns the number of connected players
func (g *GameState) ConnectedPlayerCount() int {
	count := 0
	for _, p := range g.Players {
		if p != nil && p.Connected {
			count++
		}
	}
	return count
}

// Rules returns the trump rules for the current contract. Before a
// contract exists this is the no-trump ordering, which only matters for
// display.
func (g *GameState) Rules() TrumpRules {
	if g.Contract == nil {
		return NoTrumpRules()
	}
	return NewTrumpRules(g.Contract.Suit.TrumpSuit())
}

// ContractorTeam returns the partnership that won the auction
func (g *GameState) ContractorTeam() Team {
	return TeamOf(g.Contract.Bidder)
}

// PlayedCards returns every card played so far this hand, including the
// current partial trick.
func (g *GameState) PlayedCards() []Card {
	var out []Card
	for _, ct := range g.CompletedTricks {
		for _, p := range ct.Trick.Plays {
			out = append(out, p.Card)
		}
	}
	if g.CurrentTrick != nil {
		for _, p := range g.CurrentTrick.Plays {
			out = append(out, p.Card)
		}
	}
	return out
}

// LegalPlays returns the cards the seated player may legally play now,
// nil outside the play phase or off turn.
func (g *GameState) LegalPlays(pos Position) []Card {
	if g.Phase != PhasePlaying || g.CurrentTrick == nil || g.CurrentPlayer != pos {
		return nil
	}
	player := g.PlayerAt(pos)
	if player == nil {
		return nil
	}
	return LegalCards(*g.CurrentTrick, player.Hand, g.Rules(), g.CurrentTrick.NominatedSuit)
}

// TricksPlayed returns how many tricks have been completed this hand
func (g *GameState) TricksPlayed() int {
	return len(g.CompletedTricks)
}
