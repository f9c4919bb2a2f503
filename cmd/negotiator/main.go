package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	channel "deliverysync/internal/adapter/realtime"
	"deliverysync/internal/config"
	"deliverysync/internal/events"
	"deliverysync/internal/infrastructure/api"
	"deliverysync/internal/infrastructure/realtime"
	"deliverysync/internal/usecase"
)

// Negotiation client: keeps a local snapshot of one order's delivery-price
// negotiation in sync with the backend over polling plus websocket push.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := config.Load()
	if cfg.OrderID == "" {
		sugar.Fatalf("[main] ORDER_ID is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := events.NewRegistry(sugar)
	client := api.NewClient(cfg.APIURL, cfg.AuthToken, sugar)

	transport := realtime.NewWSTransport(cfg.WSURL, cfg.AuthToken, sugar)
	adapter := channel.NewChannelAdapter(transport, registry, channel.Identity{
		CustomerEmail: cfg.CustomerEmail,
		DeliveryID:    cfg.DeliveryID,
	}, sugar)
	if err := adapter.Connect(ctx); err != nil {
		// Push is an optimization; polling still keeps the snapshot fresh.
		sugar.Warnf("[main] push channel unavailable, continuing with polling only err=%v", err)
	}
	defer adapter.Disconnect()

	session := usecase.NewNegotiationSessionUseCase(cfg.OrderID, client, client, registry, usecase.SessionOptions{
		Interval:                 usecase.RandomInterval(cfg.PollMin, cfg.PollMax),
		TerminalRequiresDelivery: cfg.TerminalRequiresDelivery,
		Rooms:                    adapter,
		Logger:                   sugar,
	})
	defer session.Close()

	registry.Subscribe(events.EventNegotiationUpdate, func(json.RawMessage) {
		if snap, ok := session.Snapshot(); ok && snap.Negotiation != nil {
			badge := snap.Negotiation.Status.Badge()
			sugar.Infof("[main] negotiation status=%q price=%.2f offers=%d",
				badge.Label, snap.Negotiation.CurrentPrice, len(snap.Negotiation.PriceHistory))
		}
	})

	if err := session.Start(ctx); err != nil {
		sugar.Fatalf("[main] session start failed err=%v", err)
	}
	sugar.Infof("[main] session started order_id=%s polling=%t", cfg.OrderID, session.Polling())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	sugar.Infof("[main] shutting down")
}
