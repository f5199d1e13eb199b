package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"fivehundred/bot"
	"fivehundred/game"
)

// SimulateCmd plays bot-vs-bot games in parallel and prints a summary
type SimulateCmd struct {
	Games      int    `default:"100" help:"Number of games to simulate"`
	Seed       int64  `default:"0" help:"RNG seed (0 for random)"`
	Workers    int    `default:"0" help:"Parallel workers (0 for GOMAXPROCS)"`
	NorthSouth string `name:"north-south" default:"basic" help:"Strategy for north-south: basic or random"`
	EastWest   string `name:"east-west" default:"random" help:"Strategy for east-west: basic or random"`
	MaxHands   int    `name:"max-hands" default:"200" help:"Abandon a game after this many hands"`
}

// gameResult is the outcome of one simulated game
type gameResult struct {
	Winner    *game.Team
	Hands     int
	Undecided bool
}

type tally struct {
	mu        sync.Mutex
	nsWins    int
	ewWins    int
	undecided int
	hands     int
}

func (t *tally) record(r gameResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hands += r.Hands
	switch {
	case r.Undecided:
		t.undecided++
	case *r.Winner == game.NorthSouth:
		t.nsWins++
	default:
		t.ewWins++
	}
}

func (c *SimulateCmd) Run() error {
	if _, err := newAgent(c.NorthSouth, "check", rand.New(rand.NewSource(0))); err != nil {
		return err
	}
	if _, err := newAgent(c.EastWest, "check", rand.New(rand.NewSource(0))); err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var results tally
	var eg errgroup.Group
	eg.SetLimit(workers)

	start := time.Now()
	for i := 0; i < c.Games; i++ {
		gameSeed := seed + int64(i)
		eg.Go(func() error {
			result, err := c.runGame(gameSeed)
			if err != nil {
				return fmt.Errorf("game with seed %d: %w", gameSeed, err)
			}
			results.record(result)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	c.printSummary(&results, seed, time.Since(start))
	return nil
}

// runGame plays one full game with fresh agents and a seeded deck
func (c *SimulateCmd) runGame(seed int64) (gameResult, error) {
	rng := rand.New(rand.NewSource(seed))

	state := game.NewGameState()
	state.Rng = rng

	agents := make(map[game.Position]bot.Agent, 4)
	for _, pos := range game.AllPositions() {
		strategy := c.NorthSouth
		if game.TeamOf(pos) == game.EastWest {
			strategy = c.EastWest
		}
		agent, err := newAgent(strategy, fmt.Sprintf("%s-%s", strategy, pos), rng)
		if err != nil {
			return gameResult{}, err
		}
		agents[pos] = agent

		state, err = game.ApplyAction(state, game.Action{
			Type: game.ActionJoinSeat, Position: pos, PlayerName: agent.Name(),
		})
		if err != nil {
			return gameResult{}, err
		}
	}

	state, err := game.ApplyAction(state, game.Action{Type: game.ActionStartGame, Position: game.North})
	if err != nil {
		return gameResult{}, err
	}

	result := gameResult{}
	for hands := 0; hands < c.MaxHands; hands++ {
		if state, err = playHand(state, agents); err != nil {
			return gameResult{}, err
		}
		result.Hands++

		if state.Phase == game.PhaseFinished {
			result.Winner = state.Winner
			return result, nil
		}
		if state, err = game.ApplyAction(state, game.Action{Type: game.ActionNewHand, Position: game.North}); err != nil {
			return gameResult{}, err
		}
	}

	result.Undecided = true
	return result, nil
}

// playHand lets the agents act until the hand is scored
func playHand(state *game.GameState, agents map[game.Position]bot.Agent) (*game.GameState, error) {
	for i := 0; i < 512; i++ {
		if state.Phase == game.PhaseScoring || state.Phase == game.PhaseFinished {
			return state, nil
		}
		pos := state.CurrentPlayer
		action, ok := bot.NextAction(agents[pos], state, pos)
		if !ok {
			return nil, fmt.Errorf("agent at %s has no action in phase %s", pos, state.Phase)
		}
		var err error
		if state, err = game.ApplyAction(state, action); err != nil {
			return nil, fmt.Errorf("agent at %s: %w", pos, err)
		}
	}
	return nil, fmt.Errorf("hand did not finish within 512 actions")
}

func newAgent(strategy, name string, rng *rand.Rand) (bot.Agent, error) {
	switch strategy {
	case "basic":
		return bot.NewBasicAgent(name), nil
	case "random":
		return bot.NewRandomAgent(name, rng), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Width(22).Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	winStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

func (c *SimulateCmd) printSummary(results *tally, seed int64, elapsed time.Duration) {
	decided := results.nsWins + results.ewWins

	fmt.Println(titleStyle.Render("Simulation results"))
	row := func(label, value string) {
		fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
	}

	row("Games", fmt.Sprintf("%d (%d undecided)", c.Games, results.undecided))
	row("Seed", fmt.Sprintf("%d", seed))
	row("Elapsed", elapsed.Round(time.Millisecond).String())
	if decided > 0 {
		row("Hands per game", fmt.Sprintf("%.1f", float64(results.hands)/float64(c.Games)))
		fmt.Println(labelStyle.Render(fmt.Sprintf("North-south (%s)", c.NorthSouth)) +
			winStyle.Render(fmt.Sprintf("%d wins (%.1f%%)",
				results.nsWins, 100*float64(results.nsWins)/float64(decided))))
		fmt.Println(labelStyle.Render(fmt.Sprintf("East-west (%s)", c.EastWest)) +
			winStyle.Render(fmt.Sprintf("%d wins (%.1f%%)",
				results.ewWins, 100*float64(results.ewWins)/float64(decided))))
	}
}
