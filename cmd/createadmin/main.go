// Command createadmin provisions an administrator account. Admins cannot be
// created through the public registration endpoint, which only issues the
// User role.
package main

import (
	"errors"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/config"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/database"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	db := database.GetDB()

	var existing models.User
	err = db.Where("username = ?", *username).First(&existing).Error
	switch {
	case err == nil:
		existing.PasswordHash = string(hashed)
		existing.Role = models.RoleAdmin
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("Failed to update admin: %v", err)
		}
		log.Printf("Updated admin account %q", *username)
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := models.User{
			Username:     *username,
			PasswordHash: string(hashed),
			Role:         models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("Created admin account %q", *username)
	default:
		log.Fatalf("Failed to look up admin: %v", err)
	}
}
