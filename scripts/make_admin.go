package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Promotes an existing user to admin by phone number.
// Usage: go run ./scripts 09123456789
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: make_admin <phone>")
		os.Exit(1)
	}
	phone := os.Args[1]

	_ = godotenv.Load()

	getEnv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "shahrdav"), getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "shahrdav"))

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		fmt.Printf("Database connection error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	var id string
	err = db.QueryRow(`
		UPDATE users SET is_admin = true, updated_at = NOW()
		WHERE phone = $1
		RETURNING id`, phone).Scan(&id)
	if err == sql.ErrNoRows {
		fmt.Printf("No user found with phone %s\n", phone)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Update error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ User %s (%s) is now an admin\n", phone, id)
}
