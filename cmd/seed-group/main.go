// Package main provides a CLI tool to create a certified group with an admin member.
// Usage: go run cmd/seed-group/main.go -name "Group Name" -email "admin@group.com" -username "admin"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

func main() {
	// Define command line flags
	name := flag.String("name", "", "Group name (required)")
	email := flag.String("email", "", "Admin user email (required)")
	username := flag.String("username", "", "Admin user display name (defaults to the email local part)")
	certified := flag.Bool("certified", true, "Mark the group as certified so it appears in the company ranking")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")
	dryRun := flag.Bool("dry-run", false, "Print what would be created without writing to database")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Creates a certified group with an admin member in the Empreinte database.\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n")
		fmt.Fprintf(os.Stderr, "Environment variables take precedence over .env file values.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  EMPREINTE_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  EMPREINTE_DATABASE_NAME  Database name (default: empreinte)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -name \"Acme Corp\" -email \"admin@acme.com\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -name \"Test Group\" -email \"test@example.com\" -env /path/to/.env\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -name \"Test Group\" -email \"test@example.com\" -dry-run\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Validate required flags
	if *name == "" {
		log.Fatal("Error: -name is required")
	}
	if *email == "" {
		log.Fatal("Error: -email is required")
	}

	// Validate email format
	if !isValidEmail(*email) {
		log.Fatalf("Error: invalid email format: %s", *email)
	}

	// Default username to the email local part
	if *username == "" {
		*username = strings.SplitN(*email, "@", 2)[0]
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

	// Create group, user and membership objects
	now := time.Now().UTC()
	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	group := &models.Group{
		ID:          groupID,
		Name:        *name,
		IsCertified: *certified,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	user := &models.User{
		ID:        userID,
		Username:  *username,
		Email:     *email,
		Role:      models.UserRoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	member := &models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: now,
	}

	// Print what will be created
	fmt.Println("=== Group ===")
	fmt.Printf("  ID:        %s\n", group.ID.Hex())
	fmt.Printf("  Name:      %s\n", group.Name)
	fmt.Printf("  Certified: %t\n", group.IsCertified)
	fmt.Println()
	fmt.Println("=== Admin User ===")
	fmt.Printf("  ID:       %s\n", user.ID.Hex())
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Email:    %s\n", user.Email)
	fmt.Printf("  Role:     %s\n", user.Role)
	fmt.Println()

	if *dryRun {
		fmt.Println("[DRY RUN] No changes made to database")
		return
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

	// Check if group with same name already exists
	groupCollection := db.Collection(models.Group{}.CollectionName())
	var existingGroup models.Group
	err = groupCollection.FindOne(ctx, bson.M{"name": group.Name}).Decode(&existingGroup)
	if err == nil {
		log.Fatalf("Error: group named '%s' already exists (ID: %s)", group.Name, existingGroup.ID.Hex())
	} else if err != mongo.ErrNoDocuments {
		log.Fatalf("Error checking existing group: %v", err)
	}

	// Check if user with same email already exists
	userCollection := db.Collection(models.User{}.CollectionName())
	var existingUser models.User
	err = userCollection.FindOne(ctx, bson.M{"email": user.Email, "deleted_at": nil}).Decode(&existingUser)
	if err == nil {
		log.Fatalf("Error: user with email '%s' already exists (ID: %s)", user.Email, existingUser.ID.Hex())
	} else if err != mongo.ErrNoDocuments {
		log.Fatalf("Error checking existing user: %v", err)
	}

	// Insert group
	_, err = groupCollection.InsertOne(ctx, group)
	if err != nil {
		log.Fatalf("Failed to create group: %v", err)
	}
	fmt.Printf("✓ Created group: %s (%s)\n", group.Name, group.ID.Hex())

	// Insert user
	_, err = userCollection.InsertOne(ctx, user)
	if err != nil {
		// Rollback: delete the group
		_, _ = groupCollection.DeleteOne(ctx, bson.M{"_id": group.ID})
		log.Fatalf("Failed to create user (group rolled back): %v", err)
	}
	fmt.Printf("✓ Created admin user: %s (%s)\n", user.Email, user.ID.Hex())

	// Insert membership
	memberCollection := db.Collection(models.GroupMember{}.CollectionName())
	_, err = memberCollection.InsertOne(ctx, member)
	if err != nil {
		log.Fatalf("Failed to create group membership: %v", err)
	}
	fmt.Printf("✓ Linked user %s to group %s\n", user.Username, group.Name)

	fmt.Println()
	fmt.Println("Group setup complete!")
	fmt.Printf("The admin can now log in at your frontend using: %s\n", user.Email)
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
			log.Printf("Error loading .env file: %v", err)
		}
	}
}
