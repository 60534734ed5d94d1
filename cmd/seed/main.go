package main

import (
	"context"
	"log"
	"time"

	"inflecto-api/internal/config"
	"inflecto-api/internal/model"
	"inflecto-api/internal/repository"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	blogs := repository.NewBlogRepo(client.Database(cfg.Mongo.Database))

	existing, err := blogs.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list blogs: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Blogs already seeded (%d posts), nothing to do", len(existing))
		return
	}

	for _, b := range seedBlogs() {
		if err := blogs.Create(ctx, b); err != nil {
			log.Fatalf("Failed to insert blog %q: %v", b.Title, err)
		}
		log.Printf("Inserted blog %s: %s", b.ID, b.Title)
	}
}

func seedBlogs() []*model.Blog {
	return []*model.Blog{
		{
			Title:       "Five signs your organisation is ready for AI",
			Keywords:    []string{"ai readiness", "strategy"},
			Description: "Readiness is less about models and more about data, ownership and a clear pipeline of use cases.",
			Points: []any{
				map[string]any{"heading": "Executive sponsorship", "text": "Someone owns the outcome, not just the budget."},
				map[string]any{"heading": "Accessible data", "text": "Teams can find and use the data they need without weeks of requests."},
				map[string]any{"heading": "Measured pilots", "text": "Every experiment has a success metric agreed up front."},
			},
		},
		{
			Title:       "From pilot to platform",
			Author:      "Inflecto Advisory",
			Category:    "Digital Reinvention",
			Keywords:    []string{"mlops", "scaling"},
			Description: "Most AI programmes stall after the first pilots. A shared delivery platform is what turns experiments into capability.",
		},
		{
			Title:       "Governance that does not slow you down",
			Keywords:    []string{"governance", "risk"},
			Description: "Lightweight review gates keep AI systems safe without turning every release into a committee meeting.",
		},
	}
}
