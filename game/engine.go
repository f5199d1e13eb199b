package game

import "errors"

// Action types
type ActionType string

const (
	ActionJoinSeat      ActionType = "joinSeat"
	ActionLeaveSeat     ActionType = "leaveSeat"
	ActionChangeName    ActionType = "changeName"
	ActionStartGame     ActionType = "startGame"
	ActionPlaceBid      ActionType = "placeBid"      // Pass, inkle or bid
	ActionExchangeKitty ActionType = "exchangeKitty" // Contractor buries 5 cards
	ActionPlayCard      ActionType = "playCard"
	ActionClaimTricks   ActionType = "claimTricks" // Claim the remaining tricks
	ActionNewHand       ActionType = "newHand"
	ActionResetGame     ActionType = "resetGame" // House only: back to lobby
)

// Action represents a game action
type Action struct {
	Type       ActionType
	Position   Position
	PlayerName string

	// Bidding
	Pass      bool
	Inkle     bool
	BidTricks int
	BidSuit   BidSuit

	// Kitty exchange
	Discards []Card

	// Play
	Card          Card
	NominatedSuit *Suit // Required when leading the joker in no-trump
}

// Common errors
var (
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidAction      = errors.New("invalid action for current phase")
	ErrSeatTaken          = errors.New("seat already taken")
	ErrSeatEmpty          = errors.New("seat is empty")
	ErrNotEnoughPlayers   = errors.New("need 4 players to start")
	ErrHouseOnly          = errors.New("only the house may do that")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrMustFollowSuit     = errors.New("must follow suit if able")
	ErrJokerLeadNeedsSuit = errors.New("leading the joker in no-trump requires nominating a suit")
	ErrNotContractor      = errors.New("only the contractor may exchange with the kitty")
	ErrDiscardCount       = errors.New("must bury exactly 5 cards")
	ErrNoClaim            = errors.New("remaining tricks are not certain")
)

// ApplyAction applies an action to the game state and returns the new state
func ApplyAction(state *GameState, action Action) (*GameState, error) {
	switch action.Type {
	case ActionJoinSeat:
		return applyJoinSeat(state, action)
	case ActionLeaveSeat:
		return applyLeaveSeat(state, action)
	case ActionChangeName:
		return applyChangeName(state, action)
	case ActionStartGame:
		return applyStartGame(state, action)
	case ActionPlaceBid:
		return applyPlaceBid(state, action)
	case ActionExchangeKitty:
		return applyExchangeKitty(state, action)
	case ActionPlayCard:
		return applyPlayCard(state, action)
	case ActionClaimTricks:
		return applyClaimTricks(state, action)
	case ActionNewHand:
		return applyNewHand(state, action)
	case ActionResetGame:
		return applyResetGame(state, action)
	default:
		return nil, ErrInvalidAction
	}
}

func applyJoinSeat(state *GameState, action Action) (*GameState, error) {
	if state.Phase != PhaseLobby {
		return nil, ErrInvalidAction
	}
	seat := int(action.Position)
	if state.Players[seat] != nil {
		return nil, ErrSeatTaken
	}

	isFirstPlayer := state.House == nil

	state.Players[seat] = &Player{
		Name:         action.PlayerName,
		Position:     action.Position,
		SessionToken: GenerateSessionToken(),
		Connected:    true,
	}

	// First player to join becomes the house and deals the first hand
	if isFirstPlayer {
		pos := action.Position
		state.House = &pos
		state.Dealer = pos
	}

	return state, nil
}

func applyLeaveSeat(state *GameState, action Action) (*GameState, error) {
	seat := int(action.Position)
	if state.Players[seat] == nil {
		return nil, ErrSeatEmpty
	}

	// In lobby the seat frees up entirely; mid-game it is only marked
	// disconnected so someone can take over.
	if state.Phase == PhaseLobby {
		state.Players[seat] = nil
	} else {
		state.Players[seat].Connected = false
		state.Players[seat].Name = ""
	}
	return state, nil
}

func applyChangeName(state *GameState, action Action) (*GameState, error) {
	if state.PlayerAt(action.Position) == nil {
		return nil, ErrSeatEmpty
	}
	state.PlayerAt(action.Position).Name = action.PlayerName
	return state, nil
}

func applyStartGame(state *GameState, action Action) (*GameState, error) {
	if state.Phase != PhaseLobby {
		return nil, ErrInvalidAction
	}
	if state.House == nil || action.Position != *state.House {
		return nil, ErrHouseOnly
	}
	if !state.AllPlayersSeated() {
		return nil, ErrNotEnoughPlayers
	}
	return state, state.startHand()
}

// startHand shuffles, deals and opens the auction
func (g *GameState) startHand() error {
	deck := NewDeck()
	if g.Rng != nil {
		deck.ShuffleWithRNG(g.Rng)
	} else {
		deck.Shuffle()
	}

	g.Deck = deck
	deal, err := DealHand(deck, g.Dealer)
	if err != nil {
		return err
	}
	for _, pos := range AllPositions() {
		g.Players[int(pos)].Hand = deal.Hands[pos]
	}
	g.Kitty = deal.Kitty

	g.Phase = PhaseBidding
	g.CurrentPlayer = g.Dealer.Next()
	g.BidHistory = nil
	g.Contract = nil
	g.CurrentTrick = nil
	g.LastTrick = nil
	g.CompletedTricks = nil
	g.LastHandScore = nil
	for _, t := range g.Teams {
		t.TricksWon = 0
	}
	return nil
}

func applyPlaceBid(state *GameState, action Action) (*GameState, error) {
	if state.Phase != PhaseBidding {
		return nil, ErrInvalidAction
	}

	var proposed *Bid
	if !action.Pass {
		proposed = &Bid{Tricks: action.BidTricks, Suit: action.BidSuit, Bidder: action.Position}
	}
	if err := ValidateBid(action.Position, state.Dealer, proposed, state.BidHistory, action.Inkle); err != nil {
		return nil, err
	}

	switch {
	case proposed == nil:
		state.BidHistory = append(state.BidHistory, PassEntry(action.Position))
	case action.Inkle:
		state.BidHistory = append(state.BidHistory, InkleEntry(*proposed))
	default:
		state.BidHistory = append(state.BidHistory, NormalEntry(*proposed))
	}

	next, ok := NextBidder(state.Dealer, state.BidHistory)
	if ok {
		state.CurrentPlayer = next
		return state, nil
	}

	result := DetermineWinner(state.BidHistory)
	if result.Redeal {
		// Nobody reached 7: rotate the deal and run the auction again
		state.Redeals++
		state.Dealer = NextDealer(state.Dealer)
		return state, state.startHand()
	}

	state.Contract = result.Winner
	state.Phase = PhaseKitty
	state.CurrentPlayer = result.Winner.Bidder

	// The contractor picks up the kitty and must bury five cards
	contractor := state.PlayerAt(result.Winner.Bidder)
	contractor.Hand = append(contractor.Hand, state.Kitty...)
	state.Kitty = nil

	return state, nil
}

func applyExchangeKitty(state *GameState, action Action) (*GameState, error) {
	if state.Phase != PhaseKitty {
		return nil, ErrInvalidAction
	}
	if action.Position != state.Contract.Bidder {
		return nil, ErrNotContractor
	}
	if len(action.Discards) != 5 {
		return nil, ErrDiscardCount
	}

	contractor := state.PlayerAt(action.Position)
	hand := append([]Card(nil), contractor.Hand...)
	for _, c := range action.Discards {
		idx := -1
		for i, h := range hand {
			if h == c {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, ErrCardNotInHand
		}
		hand = append(hand[:idx], hand[idx+1:]...)
	}

	contractor.Hand = hand
	state.Kitty = append([]Card(nil), action.Discards...)

	// Contractor leads the first trick
	state.Phase = PhasePlaying
	trick := NewTrick(action.Position)
	state.CurrentTrick = &trick
	state.CurrentPlayer = action.Position
	return state, nil
}

func applyPlayCard(state *GameState, action Action) (*GameState, error) {
	if state.Phase != PhasePlaying || state.CurrentTrick == nil {
		return nil, ErrInvalidAction
	}
	player := state.PlayerAt(action.Position)
	if player == nil {
		return nil, ErrSeatEmpty
	}

	rules := state.Rules()
	trick := *state.CurrentTrick

	// A nominated suit is only meaningful on a no-trump joker lead
	if action.NominatedSuit != nil {
		if len(trick.Plays) != 0 || rules.HasTrump() || !action.Card.IsJoker() {
			return nil, ErrInvalidAction
		}
		s := *action.NominatedSuit
		trick.NominatedSuit = &s
	}

	outcome, err := PlayCard(trick, action.Card, action.Position, player.Hand, rules)
	if err != nil {
		return nil, err
	}

	player.Hand = removeCard(player.Hand, action.Card)

	if !outcome.Complete {
		state.CurrentTrick = &outcome.Trick
		state.CurrentPlayer, _ = outcome.Trick.NextPlayer()
		return state, nil
	}

	completed := CompletedTrick{Trick: outcome.Trick, Winner: outcome.Winner}
	state.CompletedTricks = append(state.CompletedTricks, completed)
	state.LastTrick = &completed
	state.Teams[TeamOf(outcome.Winner)].TricksWon++

	if state.TricksPlayed() == 10 {
		state.finishHand()
		return state, nil
	}

	next := NewTrick(outcome.Winner)
	state.CurrentTrick = &next
	state.CurrentPlayer = outcome.Winner
	return state, nil
}

func applyClaimTricks(state *GameState, action Action) (*GameState, error) {
	if state.Phase != PhasePlaying || state.CurrentTrick == nil {
		return nil, ErrInvalidAction
	}
	// Only the player about to lead a fresh trick may claim
	if action.Position != state.CurrentPlayer || len(state.CurrentTrick.Plays) != 0 {
		return nil, ErrNotYourTurn
	}

	player := state.PlayerAt(action.Position)
	remaining := 10 - state.TricksPlayed()
	if !CanClaimRemaining(player.Hand, state.PlayedCards(), state.Rules(), remaining) {
		return nil, ErrNoClaim
	}

	state.Teams[TeamOf(action.Position)].TricksWon += remaining
	for _, p := range state.Players {
		p.Hand = nil
	}
	state.CurrentTrick = nil
	state.finishHand()
	return state, nil
}

// finishHand scores the completed hand and checks the game thresholds
func (g *GameState) finishHand() {
	contractorTeam := g.ContractorTeam()
	opponentTeam := contractorTeam.Other()

	score := ScoreHand(*g.Contract, g.Teams[contractorTeam].TricksWon, g.Teams[opponentTeam].TricksWon)
	g.Teams[contractorTeam].Score += score.ContractorDelta
	g.Teams[opponentTeam].Score += score.OpponentDelta
	g.LastHandScore = &score
	g.Phase = PhaseScoring
	g.CurrentTrick = nil

	if winner := CheckGameOver(g.Teams[NorthSouth].Score, g.Teams[EastWest].Score); winner != nil {
		g.Winner = winner
		g.Teams[*winner].GamesWon++
		g.Phase = PhaseFinished
	}
}

func applyNewHand(state *GameState, action Action) (*GameState, error) {
	if state.Phase != PhaseScoring {
		return nil, ErrInvalidAction
	}
	state.Dealer = NextDealer(state.Dealer)
	state.Redeals = 0
	return state, state.startHand()
}

// applyResetGame resets to lobby keeping seats, games won and the house
func applyResetGame(state *GameState, action Action) (*GameState, error) {
	if state.House == nil || action.Position != *state.House {
		return nil, ErrHouseOnly
	}

	gamesWon := [2]int{state.Teams[0].GamesWon, state.Teams[1].GamesWon}
	players := state.Players
	house := state.House
	rng := state.Rng

	*state = *NewGameState()
	state.Players = players
	state.House = house
	state.Dealer = *house
	state.Rng = rng
	state.Teams[0].GamesWon = gamesWon[0]
	state.Teams[1].GamesWon = gamesWon[1]

	for _, p := range state.Players {
		if p != nil {
			p.Hand = nil
		}
	}
	return state, nil
}

func removeCard(cards []Card, target Card) []Card {
	for i, c := range cards {
		if c == target {
			return append(cards[:i], cards[i+1:]...)
		}
	}
	return cards
}
