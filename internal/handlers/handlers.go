package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"userhub/api/internal/config"
	"userhub/api/internal/middleware"
	"userhub/api/internal/models"
	"userhub/api/internal/repository"
	"userhub/api/internal/security"
	"userhub/api/internal/service"
)

// UserService is the surface the user handlers need; the concrete
// implementation lives in the service package.
type UserService interface {
	CreateUser(ctx context.Context, input service.CreateUserInput) (models.User, error)
	BulkCreateUsers(ctx context.Context, inputs []service.CreateUserInput) service.BulkCreateResult
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	FindUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, input service.UpdateUserInput) error
	DeleteUser(ctx context.Context, id int64) error
}

type AuthService interface {
	Login(ctx context.Context, input service.LoginInput) (service.LoginResult, error)
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	userService UserService
	authService AuthService
	db          *pgxpool.Pool
	cache       *redis.Client
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		userService: service.NewUserService(userRepo, hasher, log),
		authService: service.NewAuthService(userRepo, sessionRepo, hasher, cfg, log),
		db:          db,
		cache:       cache,
		users:       userRepo,
		sessions:    sessionRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	limit := middleware.RateLimit(h.cache, h.cfg.Security.RateLimitRequests, h.cfg.Security.RateLimitWindow)
	authn := middleware.Auth(h.cfg, h.users)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/login", limit, h.Login)

		users := v1.Group("/users")
		users.POST("/create", limit, h.CreateUser)
		users.POST("/bulkCreate", limit, h.BulkCreateUsers)

		users.GET("/getAllUsers", authn, h.GetAllUsers)
		users.GET("/findUsers", authn, h.FindUsers)

		byID := users.Group("/:id", middleware.NumericParam("id"), authn, middleware.RequireSelf())
		byID.GET("", h.GetUser)
		byID.PUT("", h.UpdateUser)
		byID.DELETE("", h.DeleteUser)
	}
}
