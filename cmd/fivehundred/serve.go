package main

import (
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"fivehundred/server"
)

// ServeCmd runs the WebSocket table server
type ServeCmd struct {
	Config string `default:"fivehundred.hcl" help:"Path to the HCL config file"`
	Addr   string `help:"Listen address, overrides the config file"`
	Debug  bool   `help:"Enable debug logging"`
	Seed   *int64 `help:"Deterministic RNG seed (optional)"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Reverse proxy terminates origin checks
	},
}

func (c *ServeCmd) Run() error {
	config, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(config.Server.LogLevel, c.Debug),
	})

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	}
	rng := rand.New(rand.NewSource(seed))

	hub := server.NewHub(logger)
	gameServer := server.NewGameServer(hub, logger, quartz.NewReal(),
		time.Duration(config.Server.TurnTimeoutSeconds)*time.Second)
	gameServer.State.Rng = rng

	if err := gameServer.AddBots(config.Bots, rng); err != nil {
		return err
	}

	go hub.Run()
	go gameServer.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}

		client := &server.Client{
			Hub:  hub,
			Conn: conn,
			Send: make(chan []byte, 256),
			Seat: -1,
		}
		hub.Register <- client

		go client.WritePump()
		go func() {
			client.ReadPump()
			gameServer.HandleDisconnect(client)
		}()

		hub.SendToClient(client, server.NewStateUpdateMessage(gameServer.State, -1, nil))
	})
	mux.Handle("/", http.FileServer(http.Dir(config.Server.StaticDir)))

	addr := config.ListenAddr()
	if c.Addr != "" {
		addr = c.Addr
	}
	logger.Info("starting server", "addr", addr,
		"bots", len(config.Bots), "turnTimeout", config.Server.TurnTimeoutSeconds)

	return http.ListenAndServe(addr, mux)
}

func parseLevel(level string, debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}
