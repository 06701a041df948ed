// Command seed fills the configured database with demo accounts and posts.
package main

import (
	"context"
	"flag"
	"log"

	"bloghub/internal/bootstrap"
	"bloghub/internal/config"
	"bloghub/internal/middleware"
	"bloghub/internal/seed"
)

func main() {
	numAccounts := flag.Int("accounts", 20, "Number of accounts to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("days", 90, "Spread post timestamps over this many days")
	randSeed := flag.Int64("seed", 0, "Random seed, 0 picks one")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d accounts, %d posts, clean=%v\n", *numAccounts, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ServiceName: "bloghub-seed"})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() { _ = rt.Close(ctx) }()

	factory, err := seed.NewFactory(*randSeed, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("❌ Factory setup failed: %v", err)
	}

	s := seed.NewSeeder(rt.DB, factory, middleware.Logger)
	if _, err := s.Run(ctx, seed.Options{
		Accounts: *numAccounts,
		Posts:    *numPosts,
		Clean:    *shouldClean,
		MaxDays:  *maxDays,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All seeded accounts have the password: %s\n", seed.DefaultPassword)
}
