package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Kayszu18/yandex-market-bot/internal/app"
)

func main() {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		log.Fatalf("app.New: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("app.Run: %v", err)
	}
}
