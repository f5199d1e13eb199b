package server

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fivehundred/game"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// newBotTable builds a server with bots on east, south and west, and a
// fake client seated at north.
func newBotTable(t *testing.T, clock quartz.Clock, timeout time.Duration) (*GameServer, *Client) {
	t.Helper()

	hub := NewHub(testLogger())
	gs := NewGameServer(hub, testLogger(), clock, timeout)
	gs.State.Rng = rand.New(rand.NewSource(42))

	err := gs.AddBots([]BotSeat{
		{Seat: "east", Name: "ebot", Strategy: "basic"},
		{Seat: "south", Name: "sbot", Strategy: "basic"},
		{Seat: "west", Name: "wbot", Strategy: "random"},
	}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	client := &Client{Hub: hub, Send: make(chan []byte, 256), Seat: -1}
	hub.Clients[client] = true

	seat := int(game.North)
	gs.HandleMessage(client, ClientMessage{Type: MsgJoinSeat, Seat: &seat, PlayerName: "alice"})
	require.Equal(t, 0, client.Seat)
	return gs, client
}

// lastMessages drains and decodes everything queued for the client
func lastMessages(t *testing.T, client *Client) []ServerMessage {
	t.Helper()
	var out []ServerMessage
	for {
		select {
		case data := <-client.Send:
			var msg ServerMessage
			require.NoError(t, json.Unmarshal(data, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestHumanJoinsBotTable(t *testing.T) {
	gs, client := newBotTable(t, quartz.NewReal(), 0)

	// The human owns the table even though bots were seated first
	require.NotNil(t, gs.State.House)
	assert.Equal(t, game.North, *gs.State.House)
	assert.True(t, gs.State.AllPlayersSeated())

	msgs := lastMessages(t, client)
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, MsgStateUpdate, last.Type)
	require.NotNil(t, last.YourSeat)
	assert.Equal(t, 0, *last.YourSeat)
	assert.NotEmpty(t, last.YourToken)
}

func TestBotsActUntilHumanTurn(t *testing.T) {
	gs, client := newBotTable(t, quartz.NewReal(), 0)

	gs.HandleMessage(client, ClientMessage{Type: MsgStartGame})

	// The three bot seats act immediately; play waits on the human
	assert.Contains(t, []game.Phase{game.PhaseBidding, game.PhaseKitty, game.PhasePlaying},
		gs.State.Phase)
	if gs.State.Phase == game.PhaseBidding {
		assert.Equal(t, game.North, gs.State.CurrentPlayer)
		assert.Len(t, gs.State.BidHistory, 3)
	}

	msgs := lastMessages(t, client)
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	require.NotNil(t, last.State)
	assert.Len(t, last.YourHand, 10)
}

func TestStateUpdateHidesOtherHands(t *testing.T) {
	gs, client := newBotTable(t, quartz.NewReal(), 0)
	gs.HandleMessage(client, ClientMessage{Type: MsgStartGame})

	msgs := lastMessages(t, client)
	last := msgs[len(msgs)-1]
	require.NotNil(t, last.State)

	for _, p := range last.State.Players {
		if p.Seat == 0 {
			assert.False(t, p.IsBot)
		} else {
			assert.True(t, p.IsBot)
			assert.Equal(t, 10, p.CardCount, "other hands appear only as counts")
		}
	}
	assert.Equal(t, 5, last.State.KittyCount)
}

func TestRejectedActionSendsError(t *testing.T) {
	gs, client := newBotTable(t, quartz.NewReal(), 0)
	lastMessages(t, client) // drain

	// Starting is fine, but a second start is not
	gs.HandleMessage(client, ClientMessage{Type: MsgStartGame})
	lastMessages(t, client)
	gs.HandleMessage(client, ClientMessage{Type: MsgStartGame})

	msgs := lastMessages(t, client)
	require.NotEmpty(t, msgs)
	assert.Equal(t, MsgError, msgs[len(msgs)-1].Type)
}

func TestTurnTimerForcesMove(t *testing.T) {
	mClock := quartz.NewMock(t)
	gs, client := newBotTable(t, mClock, 30*time.Second)

	gs.HandleMessage(client, ClientMessage{Type: MsgStartGame})
	if gs.State.Phase != game.PhaseBidding || gs.State.CurrentPlayer != game.North {
		t.Skip("auction resolved before the human's turn with this seed")
	}

	seqBefore := gs.turnSeq

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mClock.Advance(30 * time.Second).MustWait(ctx)

	// The timer hands its work to the server loop; run it here
	fn := <-gs.incoming
	fn()

	assert.Greater(t, gs.turnSeq, seqBefore, "the stalled seat should have acted")
	assert.True(t, len(gs.State.BidHistory) == 0 || len(gs.State.BidHistory) >= 3,
		"auction resolved or redealt after the forced action")
}

func TestRejoinWithToken(t *testing.T) {
	gs, client := newBotTable(t, quartz.NewReal(), 0)
	token := client.Token
	require.NotEmpty(t, token)

	gs.handleDisconnect(client)
	assert.False(t, gs.State.PlayerAt(game.North).Connected)

	fresh := &Client{Hub: gs.Hub, Send: make(chan []byte, 256), Seat: -1}
	gs.HandleMessage(fresh, ClientMessage{Type: MsgRejoin, Token: token})

	assert.Equal(t, 0, fresh.Seat)
	assert.True(t, gs.State.PlayerAt(game.North).Connected)

	// A bogus token is refused
	bogus := &Client{Hub: gs.Hub, Send: make(chan []byte, 256), Seat: -1}
	gs.HandleMessage(bogus, ClientMessage{Type: MsgRejoin, Token: "nope"})
	msgs := lastMessages(t, bogus)
	require.NotEmpty(t, msgs)
	assert.Equal(t, MsgError, msgs[len(msgs)-1].Type)
}

func TestSeatTakeoverAfterDisconnect(t *testing.T) {
	gs, client := newBotTable(t, quartz.NewReal(), 0)
	gs.HandleMessage(client, ClientMessage{Type: MsgStartGame})
	require.NotEqual(t, game.PhaseLobby, gs.State.Phase)

	seat := int(game.North)

	// While the original player is connected the seat stays theirs
	rival := &Client{Hub: gs.Hub, Send: make(chan []byte, 256), Seat: -1}
	gs.Hub.Clients[rival] = true
	gs.HandleMessage(rival, ClientMessage{Type: MsgJoinSeat, Seat: &seat, PlayerName: "bob"})
	assert.Equal(t, -1, rival.Seat)

	// The socket drop is handed to the server loop, which marks the
	// seat abandoned
	gs.HandleDisconnect(client)
	fn := <-gs.incoming
	fn()
	assert.False(t, gs.State.PlayerAt(game.North).Connected)

	oldToken := client.Token
	gs.HandleMessage(rival, ClientMessage{Type: MsgJoinSeat, Seat: &seat, PlayerName: "bob"})
	assert.Equal(t, 0, rival.Seat)
	assert.Equal(t, "bob", gs.State.PlayerAt(game.North).Name)
	assert.True(t, gs.State.PlayerAt(game.North).Connected)
	assert.NotEmpty(t, rival.Token)
	assert.NotEqual(t, oldToken, rival.Token)
}

func TestAllBotTablePlaysWholeGame(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	gs := NewGameServer(hub, testLogger(), quartz.NewReal(), 0)
	gs.State.Rng = rand.New(rand.NewSource(11))

	err := gs.AddBots([]BotSeat{
		{Seat: "north", Name: "nbot", Strategy: "basic"},
		{Seat: "east", Name: "ebot", Strategy: "basic"},
		{Seat: "south", Name: "sbot", Strategy: "basic"},
		{Seat: "west", Name: "wbot", Strategy: "random"},
	}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	// The table starts itself and keeps dealing without a human; it
	// must never park in the scoring phase waiting for one.
	assert.NotEqual(t, game.PhaseLobby, gs.State.Phase)
	assert.NotEqual(t, game.PhaseScoring, gs.State.Phase)
	nsScore := gs.State.Teams[game.NorthSouth].Score
	ewScore := gs.State.Teams[game.EastWest].Score
	assert.True(t, nsScore != 0 || ewScore != 0, "at least one hand should have been scored")
	if gs.State.Phase == game.PhaseFinished {
		assert.NotNil(t, gs.State.Winner)
	}
}

func TestJoinBotSeatRejected(t *testing.T) {
	gs, client := newBotTable(t, quartz.NewReal(), 0)
	lastMessages(t, client)

	seat := int(game.East)
	gs.HandleMessage(client, ClientMessage{Type: MsgJoinSeat, Seat: &seat, PlayerName: "mallory"})

	msgs := lastMessages(t, client)
	require.NotEmpty(t, msgs)
	assert.Equal(t, MsgError, msgs[len(msgs)-1].Type)
	assert.Equal(t, 0, client.Seat, "client keeps its original seat")
}
