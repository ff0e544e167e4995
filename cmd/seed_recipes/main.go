package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recipe-chat/backend/config"
	"github.com/pageza/recipe-chat/backend/internal/model"
	"github.com/pageza/recipe-chat/backend/internal/service"
	"github.com/pageza/recipe-chat/backend/internal/store"
)

const batchSize = 5 // concurrent generations

var recipePrompts = []struct {
	prompt   string
	mealType string
	dietary  string
}{
	{"A traditional Italian pasta with a unique twist", "Dinner", ""},
	{"A healthy salad with seasonal ingredients", "Lunch", "vegan"},
	{"A quick breakfast smoothie with protein", "Breakfast", ""},
	{"A spicy Indian curry with a modern twist", "Dinner", "vegetarian"},
	{"A classic French dessert", "Dessert", ""},
	{"A gluten-free bread using alternative flours", "Snack", "gluten-free"},
	{"A keto-friendly dinner with high protein", "Dinner", "keto"},
	{"A Mediterranean seafood dish with fresh herbs", "Dinner", ""},
	{"A vegetarian stir-fry with Asian flavors", "Lunch", "vegetarian"},
	{"A Thai soup with bold flavors", "Lunch", ""},
	{"A Middle Eastern mezze appetizer", "Snack", "vegetarian"},
	{"American comfort food with a healthy twist", "Dinner", ""},
	{"A Korean BBQ recipe with a homemade marinade", "Dinner", ""},
	{"Spanish tapas with local ingredients", "Snack", ""},
	{"A Moroccan tagine with aromatic spices", "Dinner", ""},
	{"A pantry-staples weeknight dinner", "Dinner", ""},
	{"A kid-friendly and nutritious lunch", "Lunch", ""},
	{"A brunch dish for a crowd", "Breakfast", ""},
	{"A cozy winter soup", "Dinner", "vegan"},
	{"A make-ahead meal prep bowl", "Lunch", ""},
}

func main() {
	count := flag.Int("count", 10, "Number of recipes to generate")
	owner := flag.String("owner", "", "User id to own the seeded recipes")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := requirePersistentStore(cfg.Store); err != nil {
		log.Fatal(err)
	}

	st, err := store.Open(cfg.Store, service.RecipeEmbedding, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	provider, err := service.NewProvider(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("Failed to create AI provider: %v", err)
	}
	chat := service.NewChatService(provider, service.ChatServiceConfig{
		Params: service.GenerationParams{
			Temperature:     cfg.AI.Temperature,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
		},
		Parser:            service.Parser{Balanced: cfg.AI.BalancedJSONExtraction},
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
		Burst:             cfg.AI.Burst,
	}, nil, nil)
	recipes := service.NewRecipeService(st)

	var ownerID *string
	if *owner != "" {
		ownerID = owner
	}

	start := time.Now()
	var created atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchSize)
	for i := 0; i < *count; i++ {
		p := recipePrompts[i%len(recipePrompts)]
		g.Go(func() error {
			draft, err := chat.GenerateRecipe(gctx, model.GenerationOptions{
				Prompt:   p.prompt,
				MealType: p.mealType,
				Dietary:  p.dietary,
			})
			if err != nil {
				log.Printf("Failed to generate %q: %v", p.prompt, err)
				return nil
			}
			rec, err := recipes.CreateRecipe(gctx, *draft, ownerID, true)
			if err != nil {
				return err
			}
			created.Add(1)
			log.Printf("Created recipe %d: %s", rec.ID, rec.Title)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Seeding stopped: %v", err)
	}

	log.Printf("Seeded %d of %d recipes in %s", created.Load(), *count, time.Since(start).Round(time.Millisecond))
}

// requirePersistentStore refuses the memory driver, which would discard
// every generated recipe on exit.
func requirePersistentStore(cfg config.StoreConfig) error {
	if cfg.Driver == "memory" || cfg.Driver == "" {
		return errors.New("store.driver is memory; seeded recipes would be lost on exit, set STORE_DRIVER to sqlite or postgres")
	}
	return nil
}
