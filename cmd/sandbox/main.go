package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"deliverysync/internal/adapter/http/routes"
	"deliverysync/internal/config"
	"deliverysync/internal/sandbox"
)

// Sandbox backend: an in-memory order/negotiation server with a websocket
// push endpoint and a simulated delivery agent on the other side of every
// negotiation. Intended for local development and demos.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := config.Load()

	hub := sandbox.NewHub(sugar)
	emulator := sandbox.NewEmulator(hub, sugar)
	orderID, negotiationID := emulator.SeedDemo()
	sugar.Infof("[sandbox] demo seeded order_id=%s negotiation_id=%s", orderID, negotiationID)

	server := routes.NewServer(emulator, hub, sugar)
	if err := server.Run(cfg.SandboxAddr); err != nil {
		sugar.Fatalf("[sandbox] server stopped err=%v", err)
	}
}
