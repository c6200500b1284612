package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/entropy-backend/internal/auth"
	"github.com/ArowuTest/entropy-backend/internal/beacon"
	"github.com/ArowuTest/entropy-backend/internal/collectors"
	"github.com/ArowuTest/entropy-backend/internal/config"
	"github.com/ArowuTest/entropy-backend/internal/fortuna"
	"github.com/ArowuTest/entropy-backend/internal/handlers"
	"github.com/ArowuTest/entropy-backend/internal/models"
	"github.com/ArowuTest/entropy-backend/internal/store"
)

func main() {
	// Load config & init
	appCfg := config.Load()
	db := config.InitDB(appCfg)
	models.Migrate(db)
	auth.Init(appCfg.JWTSecret)

	gen := fortuna.Default
	if err := gen.SetDefaultParanoia(appCfg.DefaultParanoia); err != nil {
		log.Fatalf("invalid default paranoia %d: %v", appCfg.DefaultParanoia, err)
	}
	if _, err := gen.AddEventListener(fortuna.EventSeeded, func(strength float64) {
		log.Printf("generator seeded with %.0f bits of entropy", strength)
	}); err != nil {
		log.Fatalf("failed to register seeded listener: %v", err)
	}

	// Collectors must be running before the first draw.
	col := collectors.New(gen)
	if err := col.Start(); err != nil {
		log.Fatalf("failed to start entropy collectors: %v", err)
	}

	// Replay the persisted seed blob, if any, with zero claimed entropy.
	seedStore := store.NewGormStore(db)
	if blob, ok, err := seedStore.Load(); err != nil {
		log.Printf("seed blob load failed: %v", err)
	} else if ok {
		if err := col.LoadBlob(blob); err != nil {
			log.Printf("seed blob replay failed: %v", err)
		} else {
			log.Println("replayed persisted seed blob into the pools")
		}
	}

	// Opportunistic stirring from the external beacon, if configured.
	if err := beacon.NewClient(appCfg).Stir(gen); err != nil {
		log.Printf("beacon unavailable: %v", err)
	}

	if err := handlers.BootstrapAdmin(db, appCfg.AdminUsername, appCfg.AdminPassword); err != nil {
		log.Fatalf("failed to bootstrap admin account: %v", err)
	}
	handlers.Init(gen, col, seedStore)

	// Setup router
	r := gin.Default()
	r.Use(config.CORSMiddleware())

	api := r.Group("/api/v1")
	{
		// Auth
		api.POST("/admin/login", handlers.Login)

		// Entropy submissions from the frontend collectors
		entropy := api.Group("/entropy")
		{
			entropy.POST("", handlers.SubmitEntropy)
			entropy.POST("/pointer", handlers.PointerEntropy)
			entropy.POST("/keyboard", handlers.KeyboardEntropy)
			entropy.POST("/accelerometer", handlers.AccelerometerEntropy)
		}

		// Readiness & drawing
		api.GET("/status", handlers.Status)
		api.GET("/random", handlers.RequireAuth(), handlers.GetRandom)

		// Admin-only knobs
		admin := api.Group("/admin", handlers.RequireAuth(models.RoleAdmin))
		{
			admin.PUT("/paranoia", handlers.SetParanoia)
			admin.POST("/state/save", handlers.SaveState)
		}
	}

	// Start the HTTP server (port from env or default)
	r.Run(":" + appCfg.Port)
}
