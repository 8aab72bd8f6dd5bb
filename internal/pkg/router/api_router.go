package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/Dinesh-Bingi/legacy-ai/app/controllers"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}), cors.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Legacy.ai API",
		})
	})

	v1 := api.Group("/v1")

	// auth
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleAuthRegister)
	auth.Get("/activate", controllers.HandleAuthActivate)
	auth.Post("/login", controllers.HandleAuthLogin)
	auth.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
	auth.Get("/me", middleware.RequireAuth, controllers.HandleAuthMe)
	auth.Put("/me", middleware.RequireAuth, controllers.HandleAuthUpdateProfile)

	// memorials (owner side)
	memorials := v1.Group("/memorials", middleware.RequireAuth)
	memorials.Post("/", controllers.HandleMemorialCreate)
	memorials.Get("/", controllers.HandleMemorialList)
	memorials.Get("/:id", controllers.HandleMemorialGet)
	memorials.Put("/:id", controllers.HandleMemorialUpdate)
	memorials.Delete("/:id", controllers.HandleMemorialDelete)

	// life-story memories
	memories := v1.Group("/memories", middleware.RequireAuth)
	memories.Post("/", controllers.HandleMemoryCreate)
	memories.Get("/", controllers.HandleMemoryList)
	memories.Put("/:id", controllers.HandleMemoryUpdate)
	memories.Delete("/:id", controllers.HandleMemoryDelete)

	// avatars
	avatars := v1.Group("/avatars", middleware.RequireAuth)
	avatars.Post("/", controllers.HandleAvatarUpload)
	avatars.Get("/", controllers.HandleAvatarList)
	avatars.Post("/:id/activate", controllers.HandleAvatarActivate)

	// voice cloning, premium gated
	voice := v1.Group("/voice", middleware.RequireAuth, middleware.RequireVoicePlan)
	voice.Post("/clone", controllers.HandleVoiceClone)
	voice.Get("/", controllers.HandleVoiceList)
	voice.Post("/generate", controllers.HandleVoiceGenerate)

	// talking-avatar videos, premium gated
	videos := v1.Group("/videos", middleware.RequireAuth, middleware.RequireVideoPlan)
	videos.Post("/", controllers.HandleVideoGenerate)
	videos.Get("/", controllers.HandleVideoList)
	videos.Get("/:id", controllers.HandleVideoGet)

	// public memorial surface: page, guestbook and persona chat
	public := v1.Group("/public/memorials")
	public.Get("/:slug", controllers.HandleMemorialPublicGet)
	public.Get("/:slug/guestbook", controllers.HandleGuestbookList)
	public.Post("/:slug/guestbook", controllers.HandleGuestbookCreate)
	public.Post("/:slug/chat", controllers.HandleChatMessage)

	// admin operations surface
	admin := v1.Group("/admin", middleware.RequireAuth, middleware.RequireAdmin)
	admin.Get("/users", controllers.HandleAdminUserList)
	admin.Get("/queue", controllers.HandleAdminQueueStats)

	// payments
	pay := v1.Group("/payments")
	pay.Get("/plans", controllers.HandlePaymentPlans)
	pay.Post("/orders", middleware.RequireAuth, controllers.HandlePaymentCreateOrder)
	pay.Post("/verify", middleware.RequireAuth, controllers.HandlePaymentVerify)
	pay.Post("/free", middleware.RequireAuth, controllers.HandlePaymentSelectFree)
	pay.Post("/cancel", middleware.RequireAuth, controllers.HandlePaymentCancel)
	pay.Post("/webhook", controllers.HandlePaymentWebhook)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
