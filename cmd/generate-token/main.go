// Package main provides a CLI tool to mint a JWT token pair for a user.
// Usage: go run cmd/generate-token/main.go -email "user@example.com"
// This is useful for development when no identity provider is wired up.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empreinte-tools/empreinte_backend/internal/auth"
	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

func main() {
	// Define command line flags
	email := flag.String("email", "", "User email to mint a token for (required)")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")
	expiry := flag.Duration("expiry", time.Hour, "Access token lifetime")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Mints a JWT token pair for an existing user (development use).\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  EMPREINTE_DATABASE_URI          MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  EMPREINTE_DATABASE_NAME         Database name (default: empreinte)\n")
		fmt.Fprintf(os.Stderr, "  EMPREINTE_JWT_PRIVATE_KEY_PATH  RSA private key in PEM format\n")
		fmt.Fprintf(os.Stderr, "  EMPREINTE_JWT_PUBLIC_KEY_PATH   RSA public key in PEM format\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -email \"admin@company.com\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -email \"user@example.com\" -expiry 24h\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Validate required flags
	if *email == "" {
		log.Fatal("Error: -email is required")
	}

	// Validate email format
	if !isValidEmail(*email) {
		log.Fatalf("Error: invalid email format: %s", *email)
	}

	// Load database configuration from environment
	dbURI := os.Getenv("EMPREINTE_DATABASE_URI")
	if dbURI == "" {
		log.Fatal("Error: EMPREINTE_DATABASE_URI environment variable is required")
	}
	dbName := os.Getenv("EMPREINTE_DATABASE_NAME")
	if dbName == "" {
		dbName = "empreinte"
	}

	// Load JWT key paths from environment
	privateKeyPath := os.Getenv("EMPREINTE_JWT_PRIVATE_KEY_PATH")
	if privateKeyPath == "" {
		log.Fatal("Error: EMPREINTE_JWT_PRIVATE_KEY_PATH environment variable is required")
	}
	publicKeyPath := os.Getenv("EMPREINTE_JWT_PUBLIC_KEY_PATH")
	if publicKeyPath == "" {
		log.Fatal("Error: EMPREINTE_JWT_PUBLIC_KEY_PATH environment variable is required")
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		PrivateKeyPath:     privateKeyPath,
		PublicKeyPath:      publicKeyPath,
		AccessTokenExpiry:  *expiry,
		RefreshTokenExpiry: 30 * 24 * time.Hour,
		Issuer:             "empreinte-backend",
	})
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(dbURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			log.Printf("Error disconnecting from MongoDB: %v", disconnectErr)
		}
	}()

	// Ping database
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db := client.Database(dbName)

	// Find user by email
	userCollection := db.Collection(models.User{}.CollectionName())
	var user models.User
	err = userCollection.FindOne(ctx, bson.M{
		"email":      *email,
		"deleted_at": nil,
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		log.Fatalf("Error: no user found with email '%s'", *email)
	} else if err != nil {
		log.Fatalf("Error finding user: %v", err)
	}

	if !user.IsActive {
		log.Fatalf("Error: user '%s' is inactive", *email)
	}

	// Mint the token pair
	pair, err := jwtService.GenerateTokenPair(user.ID.Hex(), user.Username, string(user.Role))
	if err != nil {
		log.Fatalf("Failed to generate token pair: %v", err)
	}

	// Output results
	fmt.Println()
	fmt.Println("=== Token Pair Generated ===")
	fmt.Printf("  User:     %s\n", user.Email)
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Role:     %s\n", user.Role)
	fmt.Printf("  Expires:  %s (%d seconds)\n", pair.ExpiresAt.Format(time.RFC3339), pair.ExpiresIn)
	fmt.Println()
	fmt.Println("Access Token:")
	fmt.Println(pair.AccessToken)
	fmt.Println()
	fmt.Println("Refresh Token:")
	fmt.Println(pair.RefreshToken)
	fmt.Println()
	fmt.Println("Note: Pass the access token as 'Authorization: Bearer <token>'.")
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) {
	if path == "" {
		// Try to find .env in current dir or backend dir
		cwd, _ := os.Getwd()
		if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
			path = ".env"
		} else if _, err := os.Stat(filepath.Join(cwd, "backend", ".env")); err == nil {
			path = filepath.Join(cwd, "backend", ".env")
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}
}
