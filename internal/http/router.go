package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	CORSOrigins    []string
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Tokens   *TokenHandler
	Users    *UserHandler
	Products *ProductHandler
	Wishlist *WishlistHandler
	Carts    *CartHandler
	Verifier TokenVerifier
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("server is  running...!"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/jwt", h.Tokens.Issue)

	// Public routes
	r.Post("/user/{key}", h.Users.Create)
	r.Get("/products", h.Products.List)
	r.Get("/product/{id}", h.Products.Get)
	r.Patch("/add-wishlist", h.Wishlist.Add)
	r.Patch("/remove-wishlist", h.Wishlist.Remove)
	r.Get("/wishlist/{email}", h.Wishlist.List)
	r.Post("/card", h.Carts.AddItem)
	r.Patch("/card", h.Carts.UpdateQuantity)
	r.Get("/card/{email}", h.Carts.GetCart)
	r.Delete("/card/{email}/{productId}", h.Carts.RemoveItem)

	// Bearer token required
	r.Group(func(r chi.Router) {
		r.Use(RequireToken(h.Verifier))

		r.Get("/users", h.Users.List)
		r.Get("/user/{key}", h.Users.Get)
		r.Patch("/user/{key}", h.Users.Update)
		r.Delete("/user/{key}", h.Users.Delete)

		r.Post("/product", h.Products.Create)
		r.Patch("/product/{id}", h.Products.Update)
		r.Delete("/product/{id}", h.Products.Delete)
		r.Get("/products/{email}", h.Products.ListBySeller)
	})

	return otelhttp.NewHandler(r, "storefront")
}

func origins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}
