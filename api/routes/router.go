package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/levelup-gaming/levelup-backend/api/controllers"
	"github.com/levelup-gaming/levelup-backend/api/middleware"
	"github.com/levelup-gaming/levelup-backend/internal/auth"
	"github.com/levelup-gaming/levelup-backend/internal/cart"
	"github.com/levelup-gaming/levelup-backend/internal/content"
	"github.com/levelup-gaming/levelup-backend/internal/dashboard"
	"github.com/levelup-gaming/levelup-backend/internal/loyalty"
	"github.com/levelup-gaming/levelup-backend/internal/orders"
	"github.com/levelup-gaming/levelup-backend/internal/products"
	"github.com/levelup-gaming/levelup-backend/internal/users"
	"github.com/levelup-gaming/levelup-backend/pkg/auth/session"
	"github.com/levelup-gaming/levelup-backend/pkg/config"
	"github.com/levelup-gaming/levelup-backend/pkg/db"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
	"github.com/levelup-gaming/levelup-backend/pkg/metrics"
	"github.com/levelup-gaming/levelup-backend/pkg/redis"
)

// Deps bundles everything the router mounts. The session checker and
// the redis client are split so tests can swap either independently.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   *redis.Client
	Session session.AccessSessionChecker

	Auth      auth.Service
	Products  products.Service
	Cart      cart.Service
	Orders    orders.Service
	Users     users.Service
	Loyalty   loyalty.Service
	Content   content.Service
	Dashboard dashboard.Service

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

// NewRouter wires the public, customer, and admin API surfaces.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogListProducts(deps.Products, logg))
			r.Get("/products/{productCode}", controllers.CatalogGetProduct(deps.Products, logg))
			r.Get("/products/{productId}/reviews", controllers.CatalogListReviews(deps.Products, logg))
			r.With(
				middleware.Auth(cfg.JWT, deps.Session, logg),
				middleware.Idempotency(deps.Redis, logg),
			).Post("/products/{productId}/reviews", controllers.CatalogAddReview(deps.Products, logg))
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/posts", controllers.ContentListPosts(deps.Content, logg))
			r.Get("/posts/{slug}", controllers.ContentGetPost(deps.Content, logg))
			r.Get("/events", controllers.ContentListEvents(deps.Content, logg, time.Now))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
			})

			r.Post("/checkout/quote", controllers.CheckoutQuote(deps.Orders, logg))
			r.Post("/checkout", controllers.Checkout(deps.Orders, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.Orders, logg))
				r.Get("/{orderRef}", controllers.OrdersGet(deps.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))
			})

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(deps.Users, logg))
				r.Patch("/", controllers.ProfileUpdate(deps.Users, logg))
				r.Get("/points", controllers.ProfilePointsHistory(deps.Loyalty, logg))

				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", controllers.AddressList(deps.Users, logg))
					r.Post("/", controllers.AddressCreate(deps.Users, logg))
					r.Put("/{addressId}", controllers.AddressUpdate(deps.Users, logg))
					r.Delete("/{addressId}", controllers.AddressDelete(deps.Users, logg))
				})

				r.Route("/payment-methods", func(r chi.Router) {
					r.Get("/", controllers.PaymentCardList(deps.Users, logg))
					r.Post("/", controllers.PaymentCardCreate(deps.Users, logg))
					r.Delete("/{cardId}", controllers.PaymentCardDelete(deps.Users, logg))
				})
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/dashboard", controllers.AdminDashboard(deps.Dashboard, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderTransition(deps.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductsList(deps.Products, logg))
			r.Post("/", controllers.AdminProductCreate(deps.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(deps.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDeactivate(deps.Products, logg))
			r.Post("/{productId}/stock", controllers.AdminProductAdjustStock(deps.Products, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(deps.Users, logg))
			r.Patch("/{userId}/active", controllers.AdminUserSetActive(deps.Users, logg))
			r.Post("/{userId}/points", controllers.AdminUserOverridePoints(deps.Users, logg))
		})

		r.Route("/content", func(r chi.Router) {
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", controllers.AdminPostsList(deps.Content, logg))
				r.Post("/", controllers.AdminPostCreate(deps.Content, logg))
				r.Patch("/{postId}", controllers.AdminPostUpdate(deps.Content, logg))
				r.Delete("/{postId}", controllers.AdminPostDelete(deps.Content, logg))
			})
			r.Route("/events", func(r chi.Router) {
				r.Get("/", controllers.AdminEventsList(deps.Content, logg))
				r.Post("/", controllers.AdminEventCreate(deps.Content, logg))
				r.Patch("/{eventId}", controllers.AdminEventUpdate(deps.Content, logg))
				r.Delete("/{eventId}", controllers.AdminEventDelete(deps.Content, logg))
			})
		})
	})

	return r
}
