package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/config"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/database"
	"storefront-backend/internal/infrastructure/messaging"
	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/pkg/jwt"

	cartHandler "storefront-backend/internal/domains/cart/handler"
	cartRepo "storefront-backend/internal/domains/cart/repository"
	cartService "storefront-backend/internal/domains/cart/service"
	catalogHandler "storefront-backend/internal/domains/catalog/handler"
	catalogRepo "storefront-backend/internal/domains/catalog/repository"
	catalogService "storefront-backend/internal/domains/catalog/service"
	couponHandler "storefront-backend/internal/domains/coupon/handler"
	couponRepo "storefront-backend/internal/domains/coupon/repository"
	couponService "storefront-backend/internal/domains/coupon/service"
	orderHandler "storefront-backend/internal/domains/order/handler"
	orderRepo "storefront-backend/internal/domains/order/repository"
	orderService "storefront-backend/internal/domains/order/service"
	"storefront-backend/internal/domains/session"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *cache.RedisClient
	Sessions    *session.Store
	JWTManager  *jwt.Manager
	Storage     *storage.MinIOStorage
	Channel     messaging.Channel
	AsynqClient *asynq.Client

	// Repositories
	CatalogRepo catalogRepo.RepositoryInterface
	CartRepo    cartRepo.Repository
	CouponRepo  couponRepo.Repository
	OrderRepo   orderRepo.Repository

	// Services
	CatalogService catalogService.ServiceInterface
	CartService    cartService.Service
	CouponService  couponService.Service
	OrderService   orderService.Service

	// HTTP handlers
	CatalogPublicHandler *catalogHandler.PublicHandler
	CatalogAdminHandler  *catalogHandler.AdminHandler
	CartHandler          *cartHandler.CartHandler
	CouponHandler        *couponHandler.CouponHandler
	CouponAdminHandler   *couponHandler.AdminHandler
	OrderHandler         *orderHandler.OrderHandler
	OrderAdminHandler    *orderHandler.AdminHandler
}

// NewContainer builds the full dependency graph. Initialization order
// matters: config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[Container] Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("[Container] PostgreSQL connected")

	c.Redis = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("[Container] Redis connected")

	c.Sessions = session.NewStore(c.Redis.Client)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	log.Println("[Container] MinIO storage ready")

	c.Channel = messaging.NewWhatsAppChannel(cfg.WhatsApp.BaseURL)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	c.CatalogRepo = catalogRepo.NewPostgresRepository(c.DB.Pool)
	c.CartRepo = cartRepo.NewPostgresRepository(c.DB.Pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(c.DB.Pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(c.DB.Pool)

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo, c.Storage)
	c.CartService = cartService.NewCartService(c.CartRepo, c.CatalogRepo)
	c.CouponService = couponService.NewCouponService(c.CouponRepo)
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo, c.CartService, c.CouponService,
		c.Sessions, c.AsynqClient, cfg.WhatsApp,
	)

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.CatalogPublicHandler = catalogHandler.NewPublicHandler(c.CatalogService)
	c.CatalogAdminHandler = catalogHandler.NewAdminHandler(c.CatalogService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService, c.Sessions)
	c.CouponHandler = couponHandler.NewCouponHandler(c.CouponService, c.CartService, c.Sessions)
	c.CouponAdminHandler = couponHandler.NewAdminHandler(c.CouponService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService, c.Sessions)
	c.OrderAdminHandler = orderHandler.NewAdminHandler(c.OrderService)

	log.Println("[Container] Dependency graph ready")
	return c, nil
}

// Cleanup releases all held connections, in reverse order of creation.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("[Container] Failed to close asynq client: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("[Container] Failed to close redis: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Println("[Container] Cleaned up")
}
