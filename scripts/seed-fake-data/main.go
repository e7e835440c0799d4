package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/zenbild/zenbild-web/internal/magiclink"
	"github.com/zenbild/zenbild-web/storage"
	"github.com/zenbild/zenbild-web/storage/db"
)

// printMailer prints magic links instead of emailing them
type printMailer struct{}

func (printMailer) SendMagicLink(_ context.Context, to, link string) error {
	fmt.Printf("Magic link for %s:\n  %s\n", to, link)
	return nil
}

func main() {
	numUsers := flag.Int("users", 25, "number of fake users to create")
	loginAs := flag.String("login", "", "issue a magic link for this email (created if missing)")
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/zenbild.db"
	}
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	fmt.Printf("Seeding %d users into %s\n", *numUsers, dbPath)
	created := 0
	for i := 0; i < *numUsers; i++ {
		err := store.Queries.CreateUser(ctx, db.CreateUserParams{
			ID:        uuid.New().String(),
			Email:     strings.ToLower(gofakeit.Email()),
			IsGuest:   gofakeit.Bool(),
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()).UTC(),
		})
		if err != nil {
			// Duplicate fake emails are skipped
			continue
		}
		created++
	}

	total, err := store.Queries.CountUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	fmt.Printf("Created %d users (%d total)\n", created, total)

	if *loginAs != "" {
		svc := magiclink.NewService(store.Queries, printMailer{}, frontendURL, magiclink.DefaultTTL)
		if _, err := svc.Request(ctx, *loginAs, true, magiclink.RequestMeta{UserAgent: "seed-fake-data"}); err != nil {
			log.Fatalf("Failed to issue magic link: %v", err)
		}
	}
}
