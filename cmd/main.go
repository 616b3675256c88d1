package main

import (
	"context"

	"github.com/heavymart/bidgate/internal/bidding/application"
	"github.com/heavymart/bidgate/internal/bidding/infra/collab"
	"github.com/heavymart/bidgate/internal/bidding/infra/handoff"
	"github.com/heavymart/bidgate/internal/bidding/infra/rest"
	"github.com/heavymart/bidgate/internal/bidding/infra/ws"
	"github.com/heavymart/bidgate/internal/shared/config"
	"github.com/heavymart/bidgate/internal/shared/httpserver"
	"github.com/heavymart/bidgate/internal/shared/logger"
	"github.com/heavymart/bidgate/internal/shared/websocket"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting bidgate server...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// collaborator clients, every remote authority stays remote
	sessions := collab.NewSessionClient(cfg.SessionServiceURL, cfg.CollaboratorTimeout)
	identity := collab.NewIdentityClient(cfg.IdentityServiceURL, cfg.CollaboratorTimeout)
	catalog := collab.NewCatalogClient(cfg.CatalogServiceURL, cfg.CollaboratorTimeout)

	gate := application.NewEligibilityGate(sessions, identity,
		cfg.LoginRoute, cfg.VerificationRoute, cfg.RejectRedirectDelay)

	hub := websocket.NewHub()
	broadcaster := ws.NewBroadcaster(hub)
	checkoutHandoff := handoff.NewSlot()

	views := application.NewViewManager(application.ViewDeps{
		Gate:              gate,
		Catalog:           catalog,
		Bids:              catalog,
		Handoff:           checkoutHandoff,
		Publisher:         broadcaster,
		Clock:             clockwork.NewRealClock(),
		LoginRoute:        cfg.LoginRoute,
		QuickIncrement:    cfg.QuickIncrement,
		CountdownInterval: cfg.CountdownInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, views.Release)

	server := httpserver.NewServer()
	rest.NewHandler(views, checkoutHandoff).RegisterRoutes(server.App())
	ws.NewSubscribeHandler(views, hub).RegisterRoutes(server.App())

	if err := server.Start(cfg.ServerAddress); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
