// AngelaMos | 2026
// app.go

package app

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/shopfront/storefront-api/internal/admin"
	"github.com/shopfront/storefront-api/internal/auth"
	"github.com/shopfront/storefront-api/internal/cart"
	"github.com/shopfront/storefront-api/internal/catalog"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/events"
	"github.com/shopfront/storefront-api/internal/health"
	"github.com/shopfront/storefront-api/internal/middleware"
	"github.com/shopfront/storefront-api/internal/order"
	"github.com/shopfront/storefront-api/internal/user"
)

// Deps are the storage and infrastructure handles the API is built on.
// Optional fields may be left nil.
type Deps struct {
	Server config.ServerConfig

	Users     user.Repository
	Products  catalog.Repository
	Carts     cart.Repository
	Orders    order.Repository
	TxManager order.TxManager

	JWT         *auth.JWTManager
	Hasher      *core.PasswordHasher
	Revocations auth.RevocationStore

	ProductCache catalog.ListCache
	Publisher    events.Publisher
	AuthLimiter  func(http.Handler) http.Handler

	HealthChecks []health.Check
	DBStats      func() sql.DBStats
	RedisStats   func() *redis.PoolStats
}

type App struct {
	Users   *user.Service
	Auth    *auth.Service
	Catalog *catalog.Service
	Cart    *cart.Service
	Orders  *order.Service
	Health  *health.Handler

	basePath string
	jwt      *auth.JWTManager
	limiter  func(http.Handler) http.Handler

	authHandler    *auth.Handler
	userHandler    *user.Handler
	catalogHandler *catalog.Handler
	cartHandler    *cart.Handler
	orderHandler   *order.Handler
	adminHandler   *admin.Handler
}

func New(d Deps) *App {
	hasher := d.Hasher
	if hasher == nil {
		hasher = core.NewPasswordHasher(core.DefaultArgon2Params)
	}

	userSvc := user.NewService(d.Users)
	authSvc := auth.NewService(d.JWT, userSvc, hasher, d.Revocations)
	catalogSvc := catalog.NewService(d.Products, d.ProductCache)
	cartSvc := cart.NewService(d.Carts, catalogSvc)
	orderSvc := order.NewService(d.Orders, d.TxManager, d.Publisher)

	basePath := d.Server.BasePath
	if basePath == "/" {
		basePath = ""
	}

	return &App{
		Users:   userSvc,
		Auth:    authSvc,
		Catalog: catalogSvc,
		Cart:    cartSvc,
		Orders:  orderSvc,
		Health:  health.NewHandler(d.HealthChecks...),

		basePath: basePath,
		jwt:      d.JWT,
		limiter:  d.AuthLimiter,

		authHandler:    auth.NewHandler(authSvc),
		userHandler:    user.NewHandler(userSvc),
		catalogHandler: catalog.NewHandler(catalogSvc),
		cartHandler:    cart.NewHandler(cartSvc),
		orderHandler:   order.NewHandler(orderSvc),
		adminHandler: admin.NewHandler(admin.HandlerConfig{
			Counters: []admin.Counter{
				{Name: "users", Count: userSvc.Count},
				{Name: "products", Count: catalogSvc.Count},
				{Name: "orders", Count: orderSvc.Count},
			},
			DBStats:    d.DBStats,
			RedisStats: d.RedisStats,
		}),
	}
}

// Mount registers probes and JWKS at the root and the API under the
// configured base path.
func (a *App) Mount(r chi.Router) {
	a.Health.RegisterRoutes(r)
	r.Get("/.well-known/jwks.json", a.jwt.GetJWKSHandler())

	authenticator := middleware.Authenticator(a.Auth)
	userOnly := chain(authenticator, middleware.RequireUser(a.Users))
	adminOnly := chain(authenticator, middleware.RequireAdmin(a.Users))

	routes := func(r chi.Router) {
		a.authHandler.RegisterRoutes(r, authenticator, a.limiter)
		a.userHandler.RegisterRoutes(r, userOnly)
		a.userHandler.RegisterAdminRoutes(r, adminOnly)
		a.catalogHandler.RegisterRoutes(r, adminOnly)
		a.cartHandler.RegisterRoutes(r, userOnly)
		a.orderHandler.RegisterRoutes(r, userOnly)
		a.adminHandler.RegisterRoutes(r, adminOnly)
	}

	if a.basePath == "" {
		routes(r)
		return
	}
	r.Route(a.basePath, routes)
}

func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
