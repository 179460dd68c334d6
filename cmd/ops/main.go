// Command ops bundles the operational chores that used to be one-off
// scripts: index maintenance, secret generation, content seeding and admin
// promotion.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tanmaybh/CityMate/internal/config"
	"github.com/tanmaybh/CityMate/internal/db"
	"github.com/tanmaybh/CityMate/internal/models"
	"github.com/tanmaybh/CityMate/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "ops",
	Short: "Operational tooling for the CityMate backend",
}

func connect(ctx context.Context) (*mongo.Database, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
}

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create or refresh all MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		database, err := connect(ctx)
		if err != nil {
			return err
		}
		if err := db.EnsureIndexes(ctx, database); err != nil {
			return err
		}
		fmt.Println("indexes ensured")
		return nil
	},
}

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Generate a random JWT secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		fmt.Println(base64.RawURLEncoding.EncodeToString(buf))
		return nil
	},
}

var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin <email>",
	Short: "Grant the admin role to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		database, err := connect(ctx)
		if err != nil {
			return err
		}
		res, err := database.Collection(db.ColUsers).UpdateOne(ctx,
			bson.M{"email": args[0]},
			bson.M{"$set": bson.M{"role": models.RoleAdmin}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("no user with email %s", args[0])
		}
		fmt.Printf("%s is now an admin\n", args[0])
		return nil
	},
}

var seedContentCmd = &cobra.Command{
	Use:   "seed-content",
	Short: "Insert starter guides and directory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		database, err := connect(ctx)
		if err != nil {
			return err
		}
		return seedContent(ctx, database)
	},
}

func seedContent(ctx context.Context, database *mongo.Database) error {
	now := time.Now()

	guides := []models.Guide{
		{Title: "Opening a Bank Account", Path: "", Content: "Bring your passport and proof of address to any branch..."},
		{Title: "Student Visa Basics", Path: models.PathStudent, Content: "Your university issues the admission letter required for..."},
		{Title: "Registering a Business", Path: models.PathEntrepreneur, Content: "Company registration starts at the chamber of commerce..."},
		{Title: "Finding an Apartment", Path: models.PathExpat, Content: "Most rentals are listed through agencies; expect a deposit of..."},
	}
	for _, g := range guides {
		g.Slug = services.Slugify(g.Title)
		g.CreatedAt = now
		_, err := database.Collection(db.ColGuides).UpdateOne(ctx,
			bson.M{"slug": g.Slug},
			bson.M{"$setOnInsert": g},
			mongoUpsert())
		if err != nil {
			return err
		}
	}

	entries := []models.DirectoryEntry{
		{Name: "City Housing Office", Category: models.DirHousing, Recommended: true, Website: "https://housing.example.org"},
		{Name: "First National Bank", Category: models.DirBanking, Recommended: true},
		{Name: "Expats Legal Aid", Category: models.DirLegal, Email: "help@expatslegal.example.org"},
		{Name: "Central Coworking Hub", Category: models.DirCoworking, Address: "1 Market Square"},
	}
	for _, e := range entries {
		e.CreatedAt = now
		_, err := database.Collection(db.ColDirectory).UpdateOne(ctx,
			bson.M{"name": e.Name},
			bson.M{"$setOnInsert": e},
			mongoUpsert())
		if err != nil {
			return err
		}
	}

	fmt.Printf("seeded %d guides and %d directory entries\n", len(guides), len(entries))
	return nil
}

func mongoUpsert() *options.UpdateOptions {
	return options.Update().SetUpsert(true)
}

func main() {
	rootCmd.AddCommand(ensureIndexesCmd, genSecretCmd, promoteAdminCmd, seedContentCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
