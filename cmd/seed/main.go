package main

import (
	"context"
	"log"

	"lexipic-backend/internal/config"
	"lexipic-backend/internal/database"
	"lexipic-backend/internal/models"
	"lexipic-backend/internal/repository"
)

// Starter deck so practice works on a fresh install.
var seedCards = []models.Flashcard{
	// Spanish
	{ObjectName: "table", Translation: "mesa", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1530018607912-eff2daa1bac4?w=400"},
	{ObjectName: "chair", Translation: "silla", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1503602642458-232111445657?w=400"},
	{ObjectName: "cat", Translation: "gato", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?w=400"},
	{ObjectName: "dog", Translation: "perro", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1543466835-00a7907e9de1?w=400"},
	{ObjectName: "book", Translation: "libro", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400"},
	{ObjectName: "apple", Translation: "manzana", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?w=400"},
	{ObjectName: "car", Translation: "coche", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?w=400"},
	{ObjectName: "house", Translation: "casa", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1570129477492-45c003edd2be?w=400"},
	{ObjectName: "water", Translation: "agua", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1548839140-29a749e1cf4d?w=400"},
	{ObjectName: "tree", Translation: "árbol", Language: "Spanish", ImageURL: "https://images.unsplash.com/photo-1502082553048-f009c37129b9?w=400"},

	// French
	{ObjectName: "table", Translation: "table", Language: "French", ImageURL: "https://images.unsplash.com/photo-1530018607912-eff2daa1bac4?w=400"},
	{ObjectName: "chair", Translation: "chaise", Language: "French", ImageURL: "https://images.unsplash.com/photo-1503602642458-232111445657?w=400"},
	{ObjectName: "cat", Translation: "chat", Language: "French", ImageURL: "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?w=400"},
	{ObjectName: "dog", Translation: "chien", Language: "French", ImageURL: "https://images.unsplash.com/photo-1543466835-00a7907e9de1?w=400"},
	{ObjectName: "book", Translation: "livre", Language: "French", ImageURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400"},
	{ObjectName: "apple", Translation: "pomme", Language: "French", ImageURL: "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?w=400"},
	{ObjectName: "house", Translation: "maison", Language: "French", ImageURL: "https://images.unsplash.com/photo-1570129477492-45c003edd2be?w=400"},

	// German
	{ObjectName: "table", Translation: "tisch", Language: "German", ImageURL: "https://images.unsplash.com/photo-1530018607912-eff2daa1bac4?w=400"},
	{ObjectName: "chair", Translation: "stuhl", Language: "German", ImageURL: "https://images.unsplash.com/photo-1503602642458-232111445657?w=400"},
	{ObjectName: "cat", Translation: "katze", Language: "German", ImageURL: "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?w=400"},
	{ObjectName: "dog", Translation: "hund", Language: "German", ImageURL: "https://images.unsplash.com/photo-1543466835-00a7907e9de1?w=400"},
	{ObjectName: "book", Translation: "buch", Language: "German", ImageURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400"},
	{ObjectName: "house", Translation: "haus", Language: "German", ImageURL: "https://images.unsplash.com/photo-1570129477492-45c003edd2be?w=400"},

	// Italian
	{ObjectName: "cat", Translation: "gatto", Language: "Italian", ImageURL: "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?w=400"},
	{ObjectName: "dog", Translation: "cane", Language: "Italian", ImageURL: "https://images.unsplash.com/photo-1543466835-00a7907e9de1?w=400"},
	{ObjectName: "book", Translation: "libro", Language: "Italian", ImageURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400"},
	{ObjectName: "house", Translation: "casa", Language: "Italian", ImageURL: "https://images.unsplash.com/photo-1570129477492-45c003edd2be?w=400"},

	// Portuguese
	{ObjectName: "cat", Translation: "gato", Language: "Portuguese", ImageURL: "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba?w=400"},
	{ObjectName: "dog", Translation: "cachorro", Language: "Portuguese", ImageURL: "https://images.unsplash.com/photo-1543466835-00a7907e9de1?w=400"},
	{ObjectName: "book", Translation: "livro", Language: "Portuguese", ImageURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400"},
	{ObjectName: "apple", Translation: "maçã", Language: "Portuguese", ImageURL: "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?w=400"},
}

func main() {
	cfg := config.Load()

	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}

	ctx := context.Background()
	flashRepo := repository.NewFlashcardRepo(pool)

	existing, err := flashRepo.Count(ctx, "")
	if err != nil {
		log.Fatalf("✗ Failed to count flashcards: %v", err)
	}
	if existing > 0 {
		log.Printf("Database already has %d flashcards, skipping seed", existing)
		return
	}

	for i := range seedCards {
		card := seedCards[i]
		if err := flashRepo.Create(ctx, &card); err != nil {
			log.Fatalf("✗ Failed to seed flashcard %q (%s): %v", card.ObjectName, card.Language, err)
		}
	}

	log.Printf("✓ Seeded %d flashcards", len(seedCards))
}
