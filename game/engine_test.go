package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seatedGame returns a lobby game with four players seated, North as
// house, and a seeded RNG so deals are reproducible.
func seatedGame(t *testing.T, seed int64) *GameState {
	t.Helper()
	state := NewGameState()
	state.Rng = rand.New(rand.NewSource(seed))

	names := map[Position]string{North: "alice", East: "bob", South: "carol", West: "dave"}
	for _, pos := range AllPositions() {
		var err error
		state, err = ApplyAction(state, Action{Type: ActionJoinSeat, Position: pos, PlayerName: names[pos]})
		require.NoError(t, err)
	}
	return state
}

func TestJoinSeat(t *testing.T) {
	state := NewGameState()

	state, err := ApplyAction(state, Action{Type: ActionJoinSeat, Position: South, PlayerName: "carol"})
	require.NoError(t, err)

	// First joiner becomes the house and the first dealer
	require.NotNil(t, state.House)
	assert.Equal(t, South, *state.House)
	assert.Equal(t, South, state.Dealer)
	assert.Equal(t, "carol", state.PlayerAt(South).Name)
	assert.NotEmpty(t, state.PlayerAt(South).SessionToken)

	_, err = ApplyAction(state, Action{Type: ActionJoinSeat, Position: South, PlayerName: "eve"})
	assert.ErrorIs(t, err, ErrSeatTaken)
}

func TestStartGameRequirements(t *testing.T) {
	state := NewGameState()
	state, err := ApplyAction(state, Action{Type: ActionJoinSeat, Position: North, PlayerName: "alice"})
	require.NoError(t, err)

	_, err = ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	state, err = ApplyAction(state, Action{Type: ActionJoinSeat, Position: East, PlayerName: "bob"})
	require.NoError(t, err)
	_, err = ApplyAction(state, Action{Type: ActionStartGame, Position: East})
	assert.ErrorIs(t, err, ErrHouseOnly)
}

func TestStartGameDeals(t *testing.T) {
	state := seatedGame(t, 1)

	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	assert.Equal(t, PhaseBidding, state.Phase)
	assert.Equal(t, state.Dealer.Next(), state.CurrentPlayer, "bidding opens left of the dealer")
	for _, pos := range AllPositions() {
		assert.Len(t, state.PlayerAt(pos).Hand, 10)
	}
	assert.Len(t, state.Kitty, 5)
}

func TestAuctionToContract(t *testing.T) {
	state := seatedGame(t, 2)
	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	// North is dealer, so East leads the auction
	require.Equal(t, East, state.CurrentPlayer)

	state, err = ApplyAction(state, Action{
		Type: ActionPlaceBid, Position: East, Inkle: true, BidTricks: 6, BidSuit: BidHearts,
	})
	require.NoError(t, err)

	state, err = ApplyAction(state, Action{
		Type: ActionPlaceBid, Position: South, BidTricks: 7, BidSuit: BidSpades,
	})
	require.NoError(t, err)

	state, err = ApplyAction(state, Action{Type: ActionPlaceBid, Position: West, Pass: true})
	require.NoError(t, err)

	// Underbidding the standing contract is rejected on the spot
	_, err = ApplyAction(state, Action{
		Type: ActionPlaceBid, Position: North, BidTricks: 7, BidSuit: BidSpades,
	})
	assert.ErrorIs(t, err, ErrBidTooLow)

	state, err = ApplyAction(state, Action{Type: ActionPlaceBid, Position: North, Pass: true})
	require.NoError(t, err)

	// South's 7 spades stands; the inkle never contends
	assert.Equal(t, PhaseKitty, state.Phase)
	require.NotNil(t, state.Contract)
	assert.Equal(t, South, state.Contract.Bidder)
	assert.Equal(t, 7, state.Contract.Tricks)

	// Contractor picked up the kitty
	assert.Len(t, state.PlayerAt(South).Hand, 15)
	assert.Empty(t, state.Kitty)
}

func TestAuctionAllPassRedeals(t *testing.T) {
	state := seatedGame(t, 3)
	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	firstDealer := state.Dealer
	for i := 0; i < 4; i++ {
		state, err = ApplyAction(state, Action{
			Type: ActionPlaceBid, Position: state.CurrentPlayer, Pass: true,
		})
		require.NoError(t, err)
	}

	// No contract: the deal rotates and the auction restarts
	assert.Equal(t, PhaseBidding, state.Phase)
	assert.Equal(t, 1, state.Redeals)
	assert.Equal(t, NextDealer(firstDealer), state.Dealer)
	assert.Empty(t, state.BidHistory)
	for _, pos := range AllPositions() {
		assert.Len(t, state.PlayerAt(pos).Hand, 10)
	}
}

// bidThrough runs the auction so that winner takes tricks at suit and
// everyone else passes.
func bidThrough(t *testing.T, state *GameState, winner Position, tricks int, suit BidSuit) *GameState {
	t.Helper()
	for i := 0; i < 4; i++ {
		action := Action{Type: ActionPlaceBid, Position: state.CurrentPlayer, Pass: true}
		if state.CurrentPlayer == winner {
			action = Action{Type: ActionPlaceBid, Position: winner, BidTricks: tricks, BidSuit: suit}
		}
		var err error
		state, err = ApplyAction(state, action)
		require.NoError(t, err)
	}
	return state
}

func TestExchangeKitty(t *testing.T) {
	state := seatedGame(t, 4)
	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	state = bidThrough(t, state, East, 7, BidHearts)
	require.Equal(t, PhaseKitty, state.Phase)

	hand := state.PlayerAt(East).Hand
	require.Len(t, hand, 15)

	// Only the contractor may exchange, and only exactly five cards
	_, err = ApplyAction(state, Action{Type: ActionExchangeKitty, Position: West, Discards: hand[:5]})
	assert.ErrorIs(t, err, ErrNotContractor)
	_, err = ApplyAction(state, Action{Type: ActionExchangeKitty, Position: East, Discards: hand[:4]})
	assert.ErrorIs(t, err, ErrDiscardCount)

	discards := append([]Card(nil), hand[:5]...)
	state, err = ApplyAction(state, Action{Type: ActionExchangeKitty, Position: East, Discards: discards})
	require.NoError(t, err)

	assert.Equal(t, PhasePlaying, state.Phase)
	assert.Len(t, state.PlayerAt(East).Hand, 10)
	assert.Len(t, state.Kitty, 5)
	assert.Equal(t, East, state.CurrentPlayer, "contractor leads the first trick")

	for _, c := range discards {
		assert.NotContains(t, state.PlayerAt(East).Hand, c, "buried card still in hand")
	}
}

// playHandOut plays every remaining trick by always choosing the first
// legal card, returning once the hand has been scored.
func playHandOut(t *testing.T, state *GameState) *GameState {
	t.Helper()
	for state.Phase == PhasePlaying {
		pos := state.CurrentPlayer
		legal := state.LegalPlays(pos)
		require.NotEmpty(t, legal, "no legal plays for %s", pos)

		var err error
		state, err = ApplyAction(state, Action{Type: ActionPlayCard, Position: pos, Card: legal[0]})
		require.NoError(t, err)
	}
	return state
}

func TestFullHand(t *testing.T) {
	state := seatedGame(t, 5)
	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	state = bidThrough(t, state, East, 7, BidSpades)
	hand := state.PlayerAt(East).Hand
	state, err = ApplyAction(state, Action{
		Type: ActionExchangeKitty, Position: East, Discards: append([]Card(nil), hand[:5]...),
	})
	require.NoError(t, err)

	state = playHandOut(t, state)

	require.Equal(t, PhaseScoring, state.Phase)
	assert.Equal(t, 10, state.TricksPlayed())
	assert.Equal(t, 10, state.Teams[NorthSouth].TricksWon+state.Teams[EastWest].TricksWon)

	require.NotNil(t, state.LastHandScore)
	score := state.LastHandScore
	assert.Equal(t, score.ContractorTricks, state.Teams[EastWest].TricksWon)
	assert.Equal(t, score.ContractorDelta, state.Teams[EastWest].Score)
	assert.Equal(t, score.OpponentDelta, state.Teams[NorthSouth].Score)

	// All cards are gone from every hand
	for _, pos := range AllPositions() {
		assert.Empty(t, state.PlayerAt(pos).Hand)
	}

	// The next hand rotates the deal
	dealer := state.Dealer
	state, err = ApplyAction(state, Action{Type: ActionNewHand, Position: North})
	require.NoError(t, err)
	assert.Equal(t, PhaseBidding, state.Phase)
	assert.Equal(t, NextDealer(dealer), state.Dealer)
	assert.Equal(t, 0, state.Teams[NorthSouth].TricksWon)
}

func TestPlayCardValidation(t *testing.T) {
	state := seatedGame(t, 6)
	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	state = bidThrough(t, state, East, 7, BidSpades)
	hand := state.PlayerAt(East).Hand
	state, err = ApplyAction(state, Action{
		Type: ActionExchangeKitty, Position: East, Discards: append([]Card(nil), hand[:5]...),
	})
	require.NoError(t, err)

	// Off-turn plays and phase violations are rejected
	other := state.CurrentPlayer.Next()
	_, err = ApplyAction(state, Action{
		Type: ActionPlayCard, Position: other, Card: state.PlayerAt(other).Hand[0],
	})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = ApplyAction(state, Action{Type: ActionPlaceBid, Position: state.CurrentPlayer, Pass: true})
	assert.ErrorIs(t, err, ErrInvalidAction)

	// Nominating a suit outside a no-trump joker lead is rejected
	_, err = ApplyAction(state, Action{
		Type:          ActionPlayCard,
		Position:      state.CurrentPlayer,
		Card:          state.PlayerAt(state.CurrentPlayer).Hand[0],
		NominatedSuit: suitPtr(Hearts),
	})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestGameOverAfterHand(t *testing.T) {
	state := seatedGame(t, 7)
	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	// Pre-load the scores so this hand decides the game either way
	state.Teams[NorthSouth].Score = 480
	state.Teams[EastWest].Score = 480

	state = bidThrough(t, state, East, 7, BidSpades)
	hand := state.PlayerAt(East).Hand
	state, err = ApplyAction(state, Action{
		Type: ActionExchangeKitty, Position: East, Discards: append([]Card(nil), hand[:5]...),
	})
	require.NoError(t, err)

	state = playHandOut(t, state)

	require.Equal(t, PhaseFinished, state.Phase)
	require.NotNil(t, state.Winner)
	assert.Equal(t, 1, state.Teams[*state.Winner].GamesWon)
}

func TestResetGame(t *testing.T) {
	state := seatedGame(t, 8)
	state, err := ApplyAction(state, Action{Type: ActionStartGame, Position: North})
	require.NoError(t, err)

	state.Teams[NorthSouth].GamesWon = 2

	_, err = ApplyAction(state, Action{Type: ActionResetGame, Position: East})
	assert.ErrorIs(t, err, ErrHouseOnly)

	state, err = ApplyAction(state, Action{Type: ActionResetGame, Position: North})
	require.NoError(t, err)

	assert.Equal(t, PhaseLobby, state.Phase)
	assert.Equal(t, 2, state.Teams[NorthSouth].GamesWon, "games won survive a reset")
	for _, pos := range AllPositions() {
		require.NotNil(t, state.PlayerAt(pos), "seats survive a reset")
		assert.Empty(t, state.PlayerAt(pos).Hand)
	}
}
