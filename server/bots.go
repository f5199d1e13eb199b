package server

import (
	"errors"
	"fmt"
	"math/rand"

	"fivehundred/bot"
	"fivehundred/game"
)

// ErrRejoinFailed is returned when a rejoin attempt carries a stale token
var ErrRejoinFailed = errors.New("rejoin failed: unknown session token")

// AddBots seats the configured computer players. Must run before the
// server starts handling messages.
func (gs *GameServer) AddBots(seats []BotSeat, rng *rand.Rand) error {
	for _, cfg := range seats {
		pos, ok := game.ParsePosition(cfg.Seat)
		if !ok {
			return fmt.Errorf("unknown bot seat %q", cfg.Seat)
		}

		var agent bot.Agent
		switch cfg.Strategy {
		case "random":
			agent = bot.NewRandomAgent(cfg.Name, rng)
		case "basic", "":
			agent = bot.NewBasicAgent(cfg.Name)
		default:
			return fmt.Errorf("unknown bot strategy %q", cfg.Strategy)
		}

		if err := gs.apply(game.Action{
			Type:       game.ActionJoinSeat,
			Position:   pos,
			PlayerName: agent.Name(),
		}); err != nil {
			return err
		}
		gs.agents[pos] = agent
		gs.logger.Info("bot seated", "name", agent.Name(), "seat", cfg.Seat, "strategy", cfg.Strategy)
	}

	// A bot must never own the table: clear the house claim so the
	// first human to join becomes the house. A table of four bots has
	// no human to start it, so it starts itself.
	if len(gs.agents) == 4 {
		if err := gs.apply(game.Action{Type: game.ActionStartGame, Position: *gs.State.House}); err != nil {
			return err
		}
		gs.runBots()
		return nil
	}
	if gs.State.House != nil && gs.agents[*gs.State.House] != nil {
		gs.State.House = nil
	}
	return nil
}

func (gs *GameServer) botSeats() map[game.Position]bool {
	seats := make(map[game.Position]bool, len(gs.agents))
	for pos := range gs.agents {
		seats[pos] = true
	}
	return seats
}

// runBots lets bot seats act until a human is up or the hand pauses.
// A table of four bots has nobody to deal the next hand, so the server
// does it and plays the game to its end. The iteration cap guards
// against a misbehaving agent looping the auction forever; it is sized
// to fit a full game.
func (gs *GameServer) runBots() {
	for i := 0; i < 8192; i++ {
		if gs.State.Phase == game.PhaseScoring && len(gs.agents) == 4 {
			if err := gs.apply(game.Action{Type: game.ActionNewHand, Position: gs.State.Dealer}); err != nil {
				gs.logger.Error("bot table could not deal the next hand", "error", err)
				return
			}
			continue
		}

		acted := false
		for pos, agent := range gs.agents {
			action, ok := bot.NextAction(agent, gs.State, pos)
			if !ok {
				continue
			}
			if err := gs.apply(action); err != nil {
				gs.logger.Error("bot made an illegal move", "bot", agent.Name(), "error", err)
				return
			}
			acted = true
			break
		}
		if !acted {
			return
		}
	}
	gs.logger.Warn("bot loop hit its iteration cap")
}

// armTurnTimer schedules an automatic move for a human seat that sits
// on its turn too long. A zero timeout disables the timer.
func (gs *GameServer) armTurnTimer() {
	if gs.turnTimer != nil {
		gs.turnTimer.Stop()
		gs.turnTimer = nil
	}
	if gs.turnTimeout <= 0 {
		return
	}
	if gs.State.Phase != game.PhaseBidding && gs.State.Phase != game.PhasePlaying &&
		gs.State.Phase != game.PhaseKitty {
		return
	}

	pos := gs.State.CurrentPlayer
	if gs.agents[pos] != nil {
		return
	}

	seq := gs.turnSeq
	gs.turnTimer = gs.clock.AfterFunc(gs.turnTimeout, func() {
		gs.incoming <- func() {
			gs.forceMove(pos, seq)
		}
	})
}

// forceMove plays for a timed-out seat using the fallback heuristic
// agent. A stale sequence number means the seat already acted.
func (gs *GameServer) forceMove(pos game.Position, seq int) {
	if seq != gs.turnSeq || gs.State.CurrentPlayer != pos {
		return
	}

	fallback := bot.NewBasicAgent("timeout")
	action, ok := bot.NextAction(fallback, gs.State, pos)
	if !ok {
		return
	}
	if err := gs.apply(action); err != nil {
		gs.logger.Error("forced move failed", "seat", pos.String(), "error", err)
		return
	}
	gs.logger.Warn("turn timed out, move played automatically",
		"seat", pos.String(), "timeout", gs.turnTimeout)
	gs.afterStateChange()
}
