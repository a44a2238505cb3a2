package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"ride-booking/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	fmt.Printf("Using JWT_SECRET: %s\n", jwtSecret)

	tokenString, err := utils.GenerateAdminJWT()
	if err != nil {
		log.Fatalf("Error generating admin token: %v", err)
	}

	fmt.Printf("Generated admin token: %s\n", tokenString)
}
