package server

import "fivehundred/game"

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client -> Server messages
	MsgJoinSeat      MessageType = "joinSeat"
	MsgLeaveSeat     MessageType = "leaveSeat"
	MsgChangeName    MessageType = "changeName"
	MsgStartGame     MessageType = "startGame" // House only
	MsgPlaceBid      MessageType = "placeBid"  // Pass, inkle or bid
	MsgExchangeKitty MessageType = "exchangeKitty"
	MsgPlayCard      MessageType = "playCard"
	MsgClaimTricks   MessageType = "claimTricks"
	MsgRejoin        MessageType = "rejoin"
	MsgNewHand       MessageType = "newHand"
	MsgResetGame     MessageType = "resetGame" // House only

	// Server -> Client messages
	MsgStateUpdate MessageType = "stateUpdate"
	MsgError       MessageType = "error"
	MsgHandScore   MessageType = "handScore"
	MsgGameOver    MessageType = "gameOver"
)

// ClientMessage represents a message from client to server. Cards ride
// as their string codes ("10H", "JOKER").
type ClientMessage struct {
	Type          MessageType `json:"type"`
	Seat          *int        `json:"seat,omitempty"`
	PlayerName    string      `json:"playerName,omitempty"`
	Pass          bool        `json:"pass,omitempty"`
	Inkle         bool        `json:"inkle,omitempty"`
	BidTricks     int         `json:"bidTricks,omitempty"`
	BidSuit       string      `json:"bidSuit,omitempty"` // "spades".."hearts", "no-trump"
	Card          string      `json:"card,omitempty"`
	Cards         []string    `json:"cards,omitempty"` // Kitty discards
	NominatedSuit string      `json:"nominatedSuit,omitempty"`
	Token         string      `json:"token,omitempty"` // Session token for rejoin
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type        MessageType     `json:"type"`
	State       *PublicState    `json:"state,omitempty"`
	YourHand    []game.Card     `json:"yourHand,omitempty"`
	YourLegal   []game.Card     `json:"yourLegal,omitempty"` // Legal plays on your turn
	YourSeat    *int            `json:"yourSeat,omitempty"`
	YourToken   string          `json:"yourToken,omitempty"`
	Error       *ErrorPayload   `json:"error,omitempty"`
	HandScore   *game.HandScore `json:"handScore,omitempty"`
	WinningTeam *string         `json:"winningTeam,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PublicState is the game state visible to all players. Hands appear
// only as counts; the kitty only as its size.
type PublicState struct {
	Phase         game.Phase      `json:"phase"`
	Players       []PublicPlayer  `json:"players"`
	Teams         [2]PublicTeam   `json:"teams"`
	Dealer        int             `json:"dealer"`
	CurrentPlayer int             `json:"currentPlayer"`
	BidHistory    []game.BidEntry `json:"bidHistory"`
	Contract      *game.Bid       `json:"contract"`
	Trump         *string         `json:"trump"` // nil before contract or in no-trump
	Redeals       int             `json:"redeals"`
	KittyCount    int             `json:"kittyCount"`
	CurrentTrick  *PublicTrick    `json:"currentTrick"`
	LastTrick     *PublicTrick    `json:"lastTrick"`
	TricksPlayed  int             `json:"tricksPlayed"`
	LastHandScore *game.HandScore `json:"lastHandScore"`
	Winner        *string         `json:"winner"`
	House         int             `json:"house"` // -1 until someone joins
}

// PublicPlayer is player info visible to all
type PublicPlayer struct {
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Connected bool   `json:"connected"`
	CardCount int    `json:"cardCount"`
	IsBot     bool   `json:"isBot"`
	HasActed  bool   `json:"hasActed"` // Acted in the current auction
}

// PublicTeam is partnership info visible to all
type PublicTeam struct {
	Score     int `json:"score"`
	TricksWon int `json:"tricksWon"`
	GamesWon  int `json:"gamesWon"`
}

// PublicTrick is a trick visible to all
type PublicTrick struct {
	Plays         []game.CardPlay `json:"plays"`
	Leader        int             `json:"leader"`
	LedSuit       *string         `json:"ledSuit"`
	NominatedSuit *string         `json:"nominatedSuit,omitempty"`
	Winner        *int            `json:"winner,omitempty"` // Set when trick is complete
}

// BuildPublicState projects the game state down to what everyone may see
func BuildPublicState(gs *game.GameState, botSeats map[game.Position]bool) *PublicState {
	ps := &PublicState{
		Phase:         gs.Phase,
		Players:       make([]PublicPlayer, 0, 4),
		Dealer:        int(gs.Dealer),
		CurrentPlayer: int(gs.CurrentPlayer),
		BidHistory:    gs.BidHistory,
		Contract:      gs.Contract,
		Redeals:       gs.Redeals,
		KittyCount:    len(gs.Kitty),
		TricksPlayed:  gs.TricksPlayed(),
		LastHandScore: gs.LastHandScore,
		House:         -1,
	}
	if gs.House != nil {
		ps.House = int(*gs.House)
	}
	if gs.Winner != nil {
		w := gs.Winner.String()
		ps.Winner = &w
	}
	if gs.Contract != nil {
		if trump := gs.Contract.Suit.TrumpSuit(); trump != nil {
			name := trump.String()
			ps.Trump = &name
		}
	}

	for i, p := range gs.Players {
		if p == nil {
			ps.Players = append(ps.Players, PublicPlayer{Seat: i})
			continue
		}
		hasActed := false
		for _, e := range gs.BidHistory {
			if int(e.Bidder) == i {
				hasActed = true
				break
			}
		}
		ps.Players = append(ps.Players, PublicPlayer{
			Name:      p.Name,
			Seat:      i,
			Connected: p.Connected,
			CardCount: len(p.Hand),
			IsBot:     botSeats[p.Position],
			HasActed:  hasActed,
		})
	}

	for i, t := range gs.Teams {
		ps.Teams[i] = PublicTeam{Score: t.Score, TricksWon: t.TricksWon, GamesWon: t.GamesWon}
	}

	rules := gs.Rules()
	ps.CurrentTrick = publicTrick(gs.CurrentTrick, nil, rules)
	if gs.LastTrick != nil {
		winner := int(gs.LastTrick.Winner)
		ps.LastTrick = publicTrick(&gs.LastTrick.Trick, &winner, rules)
	}

	return ps
}

func publicTrick(t *game.Trick, winner *int, rules game.TrumpRules) *PublicTrick {
	if t == nil {
		return nil
	}
	pt := &PublicTrick{
		Plays:  t.Plays,
		Leader: int(t.Leader),
		Winner: winner,
	}
	if led, ok := t.LedSuit(rules); ok {
		name := led.String()
		pt.LedSuit = &name
	}
	if t.NominatedSuit != nil {
		name := t.NominatedSuit.String()
		pt.NominatedSuit = &name
	}
	return pt
}

// NewErrorMessage creates an error message
func NewErrorMessage(code, message string) ServerMessage {
	return ServerMessage{
		Type:  MsgError,
		Error: &ErrorPayload{Code: code, Message: message},
	}
}

// NewStateUpdateMessage creates a state update for one viewer. Seated
// players additionally get their hand, their legal plays on turn, and
// their session token; spectators pass seat -1.
func NewStateUpdateMessage(gs *game.GameState, seat int, botSeats map[game.Position]bool) ServerMessage {
	msg := ServerMessage{
		Type:  MsgStateUpdate,
		State: BuildPublicState(gs, botSeats),
	}

	if seat >= 0 && seat < 4 && gs.Players[seat] != nil {
		pos := game.Position(seat)
		msg.YourHand = gs.Players[seat].Hand
		msg.YourLegal = gs.LegalPlays(pos)
		msg.YourSeat = &seat
		msg.YourToken = gs.Players[seat].SessionToken
	}

	return msg
}
