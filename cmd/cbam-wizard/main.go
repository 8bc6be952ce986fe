package main

import (
	"log"

	"github.com/futig/cbam-wizard/internal/builder"
)

func main() {
	app, err := builder.Build()
	if err != nil {
		log.Fatal("Failed to build wizard service: ", err)
	}

	// Run owns the storage from here and closes it on every exit path
	if err := app.Run(); err != nil {
		log.Fatal("Wizard service error: ", err)
	}
}
