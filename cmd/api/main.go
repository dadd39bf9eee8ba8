package main

import (
	"context"
	"log"

	"enrolldash/api"
	"enrolldash/internal/config"
	"enrolldash/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	log.Fatal(api.NewApp(appContainer.Dashboard).Start(":" + appConfig.Server.APIPort))
}
