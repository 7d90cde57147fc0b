package initializers

import (
	"log"

	"github.com/Jumaa-K/dukani-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.Wishlist{},
		&models.WishlistItem{},
	)
	log.Println("Database synced successfully.")
}
