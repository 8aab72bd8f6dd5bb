package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/avatarvideo"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/cache"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/database"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/jobqueue"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/mediastore"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/router"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/speech"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	setupVideoPipeline()

	jobqueue.GetManager().Start()

	// Locate the project root so docs resolve when started from cmd/.
	basePaths := []string{
		"./",
		"../../",
	}
	basePath := "./"
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

// setupVideoPipeline wires the avatar video service into the queue so poll
// jobs can reach the vendor API. Media storage being unconfigured only
// disables the pipeline, the rest of the app still runs.
func setupVideoPipeline() {
	cfg, err := mediastore.LoadConfig()
	if err != nil || !cfg.IsEnabled() {
		log.Println("media storage disabled, video pipeline not started")
		return
	}
	media, err := mediastore.NewClient(cfg)
	if err != nil {
		log.Printf("media storage unavailable, video pipeline not started: %v", err)
		return
	}

	repos := repository.GetGlobalRepositories()
	speechSvc := speech.NewService(repos.Avatar, speech.NewElevenLabsClientFromEnv(), media)
	videoSvc := avatarvideo.NewService(
		repos.Avatar,
		repos.Video,
		speechSvc,
		avatarvideo.NewDIDClientFromEnv(),
		jobqueue.GetManager().GetQueue(),
	)
	jobqueue.SetVideoPoller(videoSvc)
}
