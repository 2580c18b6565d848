package main

import (
	"context"
	"coursehub/config"
	"coursehub/database"
	applog "coursehub/logger"
	"coursehub/routers"
	"coursehub/services"
	"coursehub/utils"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	applog.Init(config.AppConfig)
	defer applog.Close()

	database.ConnectDb()
	if _, err := config.LoadSiteSettings(database.Database.Db); err != nil {
		log.Printf("Warning: could not load site settings: %v", err)
	}

	services.Init(database.Database.Db, config.AppConfig, nil)

	scheduler, err := utils.StartScheduler(
		utils.Job{
			Name: "promo expiry",
			Spec: config.AppConfig.PromoExpiryCron,
			Run: func(ctx context.Context) error {
				n, err := services.App.Promo.DeactivateExpired(ctx)
				if n > 0 {
					applog.Info("SCHEDULER", "Deactivated %d expired promo codes", n)
				}
				return err
			},
		},
		utils.Job{
			Name: "pending purchase digest",
			Spec: config.AppConfig.PendingDigestCron,
			Run:  services.App.Purchase.SendPendingDigest,
		},
	)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	routers.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal(err)
	}
}
