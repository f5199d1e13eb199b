package server

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"fivehundred/bot"
	"fivehundred/game"
)

// GameServer handles game logic and message routing for one table
type GameServer struct {
	Hub    *Hub
	State  *game.GameState
	logger *log.Logger

	agents map[game.Position]bot.Agent // Bot-operated seats

	clock       quartz.Clock
	turnTimeout time.Duration
	turnSeq     int // Incremented on every state change; stale timers check it
	turnTimer   *quartz.Timer

	incoming chan func()
}

// NewGameServer creates a new game server
func NewGameServer(hub *Hub, logger *log.Logger, clock quartz.Clock, turnTimeout time.Duration) *GameServer {
	return &GameServer{
		Hub:         hub,
		State:       game.NewGameState(),
		logger:      logger.WithPrefix("server"),
		agents:      make(map[game.Position]bot.Agent),
		clock:       clock,
		turnTimeout: turnTimeout,
		incoming:    make(chan func(), 64),
	}
}

// Run processes incoming client messages and internal events on a
// single goroutine, so the game state needs no locking.
func (gs *GameServer) Run() {
	for {
		select {
		case msg, ok := <-gs.Hub.Incoming:
			if !ok {
				return
			}
			gs.HandleMessage(msg.Client, msg.Message)
		case fn := <-gs.incoming:
			fn()
		}
	}
}

// HandleMessage routes a message to the appropriate handler
func (gs *GameServer) HandleMessage(client *Client, msg ClientMessage) {
	var err error

	switch msg.Type {
	case MsgJoinSeat:
		err = gs.handleJoinSeat(client, msg)
	case MsgLeaveSeat:
		err = gs.handleLeaveSeat(client)
	case MsgChangeName:
		err = gs.handleChangeName(client, msg)
	case MsgStartGame:
		err = gs.handleSeatAction(client, game.Action{Type: game.ActionStartGame})
	case MsgPlaceBid:
		err = gs.handlePlaceBid(client, msg)
	case MsgExchangeKitty:
		err = gs.handleExchangeKitty(client, msg)
	case MsgPlayCard:
		err = gs.handlePlayCard(client, msg)
	case MsgClaimTricks:
		err = gs.handleSeatAction(client, game.Action{Type: game.ActionClaimTricks})
	case MsgRejoin:
		err = gs.handleRejoin(client, msg)
	case MsgNewHand:
		err = gs.handleSeatAction(client, game.Action{Type: game.ActionNewHand})
	case MsgResetGame:
		err = gs.handleSeatAction(client, game.Action{Type: game.ActionResetGame})
	default:
		gs.Hub.SendToClient(client, NewErrorMessage("unknown_message", "Unknown message type"))
		return
	}

	if err != nil {
		gs.Hub.SendToClient(client, NewErrorMessage("action_failed", err.Error()))
		return
	}

	gs.afterStateChange()
}

// apply runs one action against the game state and reports hand and
// game endings to everyone.
func (gs *GameServer) apply(action game.Action) error {
	phaseBefore := gs.State.Phase

	state, err := game.ApplyAction(gs.State, action)
	if err != nil {
		return err
	}
	gs.State = state

	if gs.State.Phase != phaseBefore {
		switch gs.State.Phase {
		case game.PhaseScoring, game.PhaseFinished:
			gs.announceHandScore()
		}
	}
	return nil
}

func (gs *GameServer) announceHandScore() {
	score := gs.State.LastHandScore
	if score == nil {
		return
	}
	gs.logger.Info("hand scored",
		"contract", score.Contract.String(),
		"made", score.ContractMade,
		"contractorDelta", score.ContractorDelta,
		"opponentDelta", score.OpponentDelta)
	gs.Hub.BroadcastMessage(ServerMessage{Type: MsgHandScore, HandScore: score})

	if gs.State.Winner != nil {
		name := gs.State.Winner.String()
		gs.logger.Info("game over", "winner", name,
			"games", [2]int{gs.State.Teams[0].GamesWon, gs.State.Teams[1].GamesWon})
		gs.Hub.BroadcastMessage(ServerMessage{Type: MsgGameOver, WinningTeam: &name})
	}
}

func (gs *GameServer) handleSeatAction(client *Client, action game.Action) error {
	if client.Seat < 0 {
		return game.ErrInvalidAction
	}
	action.Position = game.Position(client.Seat)
	return gs.apply(action)
}

func (gs *GameServer) handleJoinSeat(client *Client, msg ClientMessage) error {
	if msg.Seat == nil {
		return game.ErrInvalidAction
	}
	seat := *msg.Seat
	if seat < 0 || seat > 3 {
		return game.ErrInvalidAction
	}
	if gs.agents[game.Position(seat)] != nil {
		return game.ErrSeatTaken
	}

	// Switching seats leaves the old one first
	if client.Seat >= 0 && client.Seat != seat {
		if err := gs.apply(game.Action{Type: game.ActionLeaveSeat, Position: game.Position(client.Seat)}); err != nil {
			return err
		}
		gs.Hub.UnseatClient(client)
	}

	// Mid-game, an abandoned seat can be taken over
	if gs.State.Phase != game.PhaseLobby {
		player := gs.State.Players[seat]
		if player == nil {
			return game.ErrInvalidAction
		}
		if player.Name != "" && player.Connected {
			return game.ErrSeatTaken
		}
		player.Name = msg.PlayerName
		player.Connected = true
		player.SessionToken = game.GenerateSessionToken()
		gs.Hub.SeatClient(client, seat)
		client.Token = player.SessionToken
		gs.logger.Info("seat taken over mid-game", "player", msg.PlayerName, "seat", seat)
		return nil
	}

	err := gs.apply(game.Action{
		Type:       game.ActionJoinSeat,
		Position:   game.Position(seat),
		PlayerName: msg.PlayerName,
	})
	if err != nil {
		return err
	}

	gs.Hub.SeatClient(client, seat)
	client.Token = gs.State.Players[seat].SessionToken
	gs.logger.Info("player joined", "player", msg.PlayerName, "seat", seat)
	return nil
}

func (gs *GameServer) handleLeaveSeat(client *Client) error {
	if client.Seat < 0 {
		return game.ErrSeatEmpty
	}
	if err := gs.apply(game.Action{Type: game.ActionLeaveSeat, Position: game.Position(client.Seat)}); err != nil {
		return err
	}
	gs.Hub.UnseatClient(client)
	return nil
}

func (gs *GameServer) handleChangeName(client *Client, msg ClientMessage) error {
	if client.Seat < 0 {
		return game.ErrSeatEmpty
	}
	return gs.apply(game.Action{
		Type:       game.ActionChangeName,
		Position:   game.Position(client.Seat),
		PlayerName: msg.PlayerName,
	})
}

func (gs *GameServer) handlePlaceBid(client *Client, msg ClientMessage) error {
	if client.Seat < 0 {
		return game.ErrInvalidAction
	}

	action := game.Action{
		Type:     game.ActionPlaceBid,
		Position: game.Position(client.Seat),
		Pass:     msg.Pass,
		Inkle:    msg.Inkle,
	}
	if !msg.Pass {
		suit, ok := game.ParseBidSuit(msg.BidSuit)
		if !ok {
			return game.ErrInvalidAction
		}
		action.BidTricks = msg.BidTricks
		action.BidSuit = suit
	}

	if err := gs.apply(action); err != nil {
		return err
	}
	gs.logger.Info("bid placed", "seat", client.Seat,
		"pass", msg.Pass, "inkle", msg.Inkle, "tricks", msg.BidTricks, "suit", msg.BidSuit)
	return nil
}

func (gs *GameServer) handleExchangeKitty(client *Client, msg ClientMessage) error {
	if client.Seat < 0 {
		return game.ErrInvalidAction
	}

	discards := make([]game.Card, 0, len(msg.Cards))
	for _, code := range msg.Cards {
		card, err := game.ParseCard(code)
		if err != nil {
			return err
		}
		discards = append(discards, card)
	}

	if err := gs.apply(game.Action{
		Type:     game.ActionExchangeKitty,
		Position: game.Position(client.Seat),
		Discards: discards,
	}); err != nil {
		return err
	}
	gs.logger.Info("kitty exchanged", "seat", client.Seat)
	return nil
}

func (gs *GameServer) handlePlayCard(client *Client, msg ClientMessage) error {
	if client.Seat < 0 {
		return game.ErrInvalidAction
	}

	card, err := game.ParseCard(msg.Card)
	if err != nil {
		return err
	}

	action := game.Action{
		Type:     game.ActionPlayCard,
		Position: game.Position(client.Seat),
		Card:     card,
	}
	if msg.NominatedSuit != "" {
		for _, s := range game.AllSuits() {
			if s.String() == msg.NominatedSuit {
				suit := s
				action.NominatedSuit = &suit
			}
		}
		if action.NominatedSuit == nil {
			return game.ErrInvalidAction
		}
	}

	if err := gs.apply(action); err != nil {
		return err
	}
	gs.logger.Info("card played", "seat", client.Seat, "card", msg.Card)
	return nil
}

func (gs *GameServer) handleRejoin(client *Client, msg ClientMessage) error {
	for i, p := range gs.State.Players {
		if p != nil && p.SessionToken == msg.Token {
			gs.Hub.SeatClient(client, i)
			client.Token = msg.Token
			p.Connected = true
			gs.logger.Info("player rejoined", "player", p.Name, "seat", i)
			return nil
		}
	}
	return ErrRejoinFailed
}

// afterStateChange runs bots, rearms the turn timer and pushes the new
// state to everyone. Called after every successful action.
func (gs *GameServer) afterStateChange() {
	gs.turnSeq++
	gs.runBots()
	gs.armTurnTimer()
	gs.broadcastState()
}

// broadcastState sends personalized state updates to each viewer
func (gs *GameServer) broadcastState() {
	botSeats := gs.botSeats()

	for i := 0; i < 4; i++ {
		if client := gs.Hub.ClientBySeat(i); client != nil {
			gs.Hub.SendToClient(client, NewStateUpdateMessage(gs.State, i, botSeats))
		}
	}
	gs.Hub.mu.RLock()
	spectators := make([]*Client, 0)
	for client := range gs.Hub.Clients {
		if client.Seat < 0 {
			spectators = append(spectators, client)
		}
	}
	gs.Hub.mu.RUnlock()
	for _, client := range spectators {
		gs.Hub.SendToClient(client, NewStateUpdateMessage(gs.State, -1, botSeats))
	}
}

// HandleDisconnect marks a disconnected player's seat as abandoned. It
// hands the work to the server loop, so it is safe from any goroutine.
func (gs *GameServer) HandleDisconnect(client *Client) {
	gs.incoming <- func() { gs.handleDisconnect(client) }
}

func (gs *GameServer) handleDisconnect(client *Client) {
	if client.Seat >= 0 && client.Seat < 4 {
		if p := gs.State.Players[client.Seat]; p != nil {
			p.Connected = false
			gs.logger.Info("player disconnected", "player", p.Name, "seat", client.Seat)
		}
	}
	gs.broadcastState()
}
