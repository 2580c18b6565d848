package main

import (
	"coursehub/config"
	"coursehub/database"
	"coursehub/models"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gorm.io/gorm"
)

var readPasswordFunc = term.ReadPassword

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Admin", "display name")
	flag.Parse()

	if strings.TrimSpace(*email) == "" {
		log.Fatal("-email is required")
	}

	config.LoadConfig()
	database.ConnectDb()

	password, err := readPassword()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}

	user, err := upsertAdmin(database.Database.Db, *email, *name, password, config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to save admin: %v", err)
	}
	log.Printf("Admin %s (id %d) is ready", user.Email, user.ID)
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	return string(first), nil
}

// upsertAdmin creates the account or promotes an existing one and resets its password.
func upsertAdmin(db *gorm.DB, email, name, password string, cost int) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		err = db.Model(&user).Updates(map[string]interface{}{
			"name":       name,
			"password":   string(hash),
			"role":       models.RoleAdmin,
			"is_deleted": false,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Email: email, Password: string(hash), Role: models.RoleAdmin}
		err = db.Create(&user).Error
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
