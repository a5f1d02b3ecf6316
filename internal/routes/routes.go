package routes

import (
	"time"

	"github.com/conectados/social-service/internal/auth"
	"github.com/conectados/social-service/internal/config"
	"github.com/conectados/social-service/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	friendshipHandler *handlers.FriendshipHandler,
	communityHandler *handlers.CommunityHandler,
	profileHandler *handlers.ProfileHandler,
	discoveryHandler *handlers.DiscoveryHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	protected := auth.Protected(cfg)

	friendships := api.Group("/friendships", protected)
	friendships.Post("/", friendshipHandler.SendRequest)
	friendships.Get("/", friendshipHandler.List)
	friendships.Post("/block", friendshipHandler.Block)
	friendships.Get("/blocked", friendshipHandler.ListBlocked)
	friendships.Delete("/unblock/:id", friendshipHandler.Unblock)
	friendships.Get("/status/:userId", friendshipHandler.Status)
	friendships.Put("/:id/accept", friendshipHandler.Accept)
	friendships.Put("/:id/reject", friendshipHandler.Reject)
	friendships.Delete("/:id", friendshipHandler.Remove)

	communities := api.Group("/communities", protected)
	communities.Post("/", communityHandler.Create)
	communities.Get("/", communityHandler.List)
	communities.Get("/search", communityHandler.Search)
	communities.Get("/mine", communityHandler.Mine)
	communities.Get("/:id", communityHandler.Get)
	communities.Put("/:id", communityHandler.Update)
	communities.Delete("/:id", communityHandler.Delete)
	communities.Post("/:id/join", communityHandler.Join)
	communities.Post("/:id/leave", communityHandler.Leave)
	communities.Get("/:id/members", communityHandler.Members)

	profiles := api.Group("/profiles", protected)
	profiles.Get("/me", profileHandler.Me)
	profiles.Put("/me", profileHandler.UpsertMe)
	profiles.Get("/:userId", profileHandler.Get)

	users := api.Group("/users", protected)
	users.Get("/available", discoveryHandler.AvailableUsers)
}
