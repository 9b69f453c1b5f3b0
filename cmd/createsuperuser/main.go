package main

import (
	"flag"
	"log"

	"recipe-server/confs"
	"recipe-server/db"
	"recipe-server/repositories"
	"recipe-server/usecases"
)

func main() {
	email := flag.String("email", "", "email of the new superuser")
	password := flag.String("password", "", "password of the new superuser")
	name := flag.String("name", "", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -email and -password are required")
	}

	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	users := usecases.NewUserUseCase(
		repositories.NewUserPgRepository(database),
		repositories.NewTokenPgRepository(database),
	)
	user, err := users.CreateSuperuser(*email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	log.Printf("Superuser %s created (id %d)", user.Email, user.ID)
}
