// Package main implements the entry point for the Termwise API server,
// which runs adaptive knowledge quizzes: semantic answer evaluation,
// session management, and mastery tracking.
package main

import (
	"context"
	"flag"
	"log"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *migrateCmd != "" {
		if err := app.runMigrations(*migrateCmd); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
