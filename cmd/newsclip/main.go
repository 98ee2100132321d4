package main

import (
	"log"

	"github.com/newsclip-dev/newsclip/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ newsclip failed to start: %v", err)
	}
}
