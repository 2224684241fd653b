package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"klondike/internal/api"
	"klondike/internal/app"
	"klondike/internal/config"
	"klondike/internal/store"
	"klondike/internal/ws"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	configPath := flag.String("config", "data/game_config.json", "game config path")
	flag.Parse()

	if err := config.LoadGameConfig(*configPath); err != nil {
		log.Printf("config: %v (using defaults)", err)
	}

	secret := os.Getenv("KLONDIKE_TOKEN_SECRET")
	if secret == "" {
		log.Fatal("KLONDIKE_TOKEN_SECRET is required")
	}

	ledger, err := store.NewSQLiteLedger(config.DatabasePath())
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer ledger.Close()

	if err := ledger.Migrate(); err != nil {
		log.Fatalf("store: %v", err)
	}

	hub := ws.NewHub()
	server := api.NewServer(app.NewService(nil), ledger, hub, secret)

	log.Printf("klondike portal listening on %s", *addr)
	if err := http.ListenAndServe(*addr, server.Routes()); err != nil {
		log.Fatal(err)
	}
}
