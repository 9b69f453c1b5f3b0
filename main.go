package main

import (
	"log"

	"recipe-server/confs"
	"recipe-server/db"
	"recipe-server/server"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// connect to database
	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	log.Printf("Serving media from %s at %s", cfg.Media.Root, cfg.Media.URL)

	// run server
	srv := server.NewServer(cfg, database)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
