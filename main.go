package main

import (
	"log"

	"github.com/noname01054/LaCoupole-back/cmd/config"
	migration "github.com/noname01054/LaCoupole-back/cmd/database/migrate"
	"github.com/noname01054/LaCoupole-back/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
