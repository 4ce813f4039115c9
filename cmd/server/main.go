package main

import (
	"context"
	"log"

	"VakitApp/internal/config"
	"VakitApp/internal/domain/registry"
	"VakitApp/internal/handler"
	"VakitApp/internal/infrastructure/aladhan"
	"VakitApp/internal/usecase"
)

func main() {
	config.LoadEnv()
	ctx := context.Background()

	reg, err := registry.LoadFile(config.CatalogPath())
	if err != nil {
		log.Fatalf("failed to load district catalog: %v", err)
	}
	log.Printf("[Server] loaded %d districts", reg.Count())

	stores, err := config.NewStores(ctx)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	defer stores.Close()

	prayerTimesUseCase := usecase.NewPrayerTimesUseCase(reg, stores.Cache, stores.Archive, aladhan.NewClient())

	// drop yesterday's cache entries before accepting traffic
	if removed, err := prayerTimesUseCase.CleanExpiredCache(ctx); err != nil {
		log.Printf("[Server] startup cache cleanup failed: %v", err)
	} else if removed > 0 {
		log.Printf("[Server] removed %d expired cache entries", removed)
	}

	router := handler.NewRouter(handler.NewPrayerTimesHandler(prayerTimesUseCase, reg))

	port := config.Getenv("PORT", "3000")
	log.Printf("[Server] listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
