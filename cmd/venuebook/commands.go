package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/naveenspark/venuebook/internal/config"
	"github.com/naveenspark/venuebook/internal/logger"
	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/pkg/client"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config  string
	Debug   bool
	Version string
}

// runtime is the wired client and session a command runs against.
type runtime struct {
	cfg    config.Config
	log    zerolog.Logger
	client *client.Client
	store  *session.Store
}

func (g *Globals) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return config.Config{}, err
	}
	if g.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// open loads the configuration and wires the client to a session stored
// under the state dir. Logs go to w.
func (g *Globals) open(w io.Writer, console bool) (*runtime, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	return wire(cfg, logger.Setup(w, cfg.Debug, console))
}

func wire(cfg config.Config, lg zerolog.Logger) (*runtime, error) {
	log.Logger = lg

	storage, err := session.NewFileStorage(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	// The client reads the token from the store and the store drives the
	// client, so the store is bound after both exist.
	var store *session.Store
	c := client.New(cfg.APIURL,
		client.WithTimeout(cfg.Timeout),
		client.WithTokenSource(func() string { return store.Token() }),
		client.WithUnauthorizedHandler(func(token string) { store.Expire(token) }),
	)
	store = session.NewStore(c, storage)
	store.OnLogout(func(r session.Reason) {
		c.InvalidateCache()
		lg.Debug().Str("reason", r.String()).Msg("session ended")
	})
	store.LoadFromDurableStorage()

	lg.Debug().Str("api_url", cfg.APIURL).Str("state_dir", cfg.StateDir).Msg("client ready")
	return &runtime{cfg: cfg, log: lg, client: c, store: store}, nil
}
