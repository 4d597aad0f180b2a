package server

import (
	"github.com/buildwithfavas/mind-merge/internal/admin"
	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/buildwithfavas/mind-merge/internal/config"
	"github.com/buildwithfavas/mind-merge/internal/connection"
	"github.com/buildwithfavas/mind-merge/internal/identity"
	"github.com/buildwithfavas/mind-merge/internal/post"
	"github.com/buildwithfavas/mind-merge/internal/ratelimit"
	"github.com/buildwithfavas/mind-merge/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	api := s.App.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	identitySvc := identity.NewService(s.Cfg.JWTSecret, s.Cfg.AdminEmailSet(), s.DB)
	api.Use(identity.Middleware(identitySvc))

	limiter := ratelimit.New(s.Redis)
	api.Use(ratelimit.Middleware(limiter, s.Cfg.RateLimitPerMin, "general"))
	api.Use(ratelimit.WriteMiddleware(limiter, s.Cfg.RateLimitWritePerMin))

	postSvc := post.NewService(s.DB)
	userSvc := user.NewService(s.DB)

	post.RegisterRoutes(api.Group("/posts"), postSvc)
	user.RegisterMeRoutes(api.Group("/me"), userSvc, postSvc)
	user.RegisterDirectoryRoutes(api.Group("/users"), userSvc)
	connection.RegisterRoutes(api.Group("/connections"), connection.NewService(s.DB))
	admin.RegisterRoutes(api.Group("/admin"), admin.NewService(s.DB))
}
