package main

import (
	"flag"
	"log"

	"github.com/MouliTechHub/educare-management-x-sub000/app/config"
	"github.com/MouliTechHub/educare-management-x-sub000/app/database"
	"github.com/MouliTechHub/educare-management-x-sub000/app/routes/auth"
)

// Creates the schema and optionally seeds an admin user so the API has a
// first login.
func main() {
	adminEmail := flag.String("admin-email", "", "seed an admin user with this email")
	adminPassword := flag.String("admin-password", "", "password for the seeded admin user")
	flag.Parse()

	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	if *adminEmail != "" {
		if *adminPassword == "" {
			log.Fatal("admin-password is required when seeding an admin user")
		}
		hash, err := auth.HashPassword(*adminPassword)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		_, err = db.Exec(`
			INSERT INTO users (email, password, first_name, last_name)
			VALUES ($1, $2, 'Admin', 'User')
			ON CONFLICT (email) DO NOTHING`, *adminEmail, hash)
		if err != nil {
			log.Fatal("Failed to seed admin user:", err)
		}
		log.Printf("Admin user %s ready", *adminEmail)
	}

	log.Println("Migration completed successfully")
}
