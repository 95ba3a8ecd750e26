package main

import (
	"log"

	"foodgram-backend/cmd/config"
	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	port := utils.GetConfig("SERVER_PORT")
	if port == "" {
		port = "8000"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
