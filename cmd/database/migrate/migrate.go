package migration

import (
	"fmt"
	"log"

	"github.com/noname01054/LaCoupole-back/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	models := []interface{}{
		&entities.MenuItem{},
		&entities.Supplement{},
		&entities.MenuItemSupplement{},
		&entities.Breakfast{},
		&entities.BreakfastOptionGroup{},
		&entities.BreakfastGroupMapping{},
		&entities.BreakfastOption{},
		&entities.Ingredient{},
		&entities.MenuItemIngredient{},
		&entities.SupplementIngredient{},
		&entities.BreakfastIngredient{},
		&entities.BreakfastOptionIngredient{},
		&entities.StockTransaction{},
		&entities.RestaurantTable{},
		&entities.Promotion{},
		&entities.Order{},
		&entities.OrderItem{},
		&entities.BreakfastOrderOption{},
		&entities.DeviceOrderLimit{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Error migrating database: %v", err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
