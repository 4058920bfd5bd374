package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	_ "storefront/docs"
	"storefront/pkg/cart"
	"storefront/pkg/checkout"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/menu"
	menumem "storefront/pkg/menu/memory"
	menumongo "storefront/pkg/menu/mongo"
	"storefront/pkg/order"
	ordermem "storefront/pkg/order/memory"
	ordermongo "storefront/pkg/order/mongo"
	orderpg "storefront/pkg/order/postgres"
	"storefront/pkg/otel"
	"storefront/pkg/pricing"
)

var (
	redisClient *redis.Client
	menuSource  menu.Source
	carts       *cart.Registry
	checkouts   *checkout.Manager
	log         *logger.Logger
	tracer      trace.Tracer
	sessionTTL  time.Duration
)

// @title Storefront API
// @version 1.0
// @description Browse the menu, manage a session cart and place delivery orders
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.Load()
	log = logger.New(os.Stdout, logger.LevelInfo, "storefront", otel.GetTraceID)

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "storefront", Host: cfg.OtelHost, Probability: 1.0})
	if err != nil {
		log.Error(context.Background(), "init tracing", "error", err)
		return
	}
	defer shutdown(context.Background())
	tracer = tp.Tracer("storefront")

	ctx := context.Background()
	sink, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error(ctx, "storage setup", "error", err)
		os.Exit(1)
	}

	redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	sessionTTL = cfg.SessionTTL

	carts = cart.NewRegistry()
	checkouts = checkout.NewManager(carts, sink, pricing.DefaultPolicy())

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	r.HandleFunc("/session", startSessionHandler).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(sessionMiddleware)
	api.HandleFunc("/menu", menuHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", cartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", addCartItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", setQuantityHandler).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id}", removeCartItemHandler).Methods(http.MethodDelete)
	api.HandleFunc("/checkout", checkoutHandler).Methods(http.MethodPost)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	log.Info(ctx, "listening", "addr", cfg.Addr)
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		err = http.ListenAndServeTLS(cfg.Addr, cfg.CertFile, cfg.KeyFile, r)
	} else {
		err = http.ListenAndServe(cfg.Addr, r)
	}
	log.Error(ctx, "server closed", "error", err)
}

// buildStores selects the menu source and order sink. Mongo is the primary
// store; DATABASE_URL switches order writes to Postgres; with neither set
// the service runs fully in memory with a seeded menu.
func buildStores(ctx context.Context, cfg config.Config) (order.Repository, error) {
	var sink order.Repository

	if cfg.MongoURI != "" {
		client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB)
		menuSource = menumongo.New(db)
		sink = ordermongo.New(db)
	} else {
		menuSource = menumem.New(seedMenu()...)
		sink = ordermem.New()
	}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if _, err := db.Exec(orderpg.Schema); err != nil {
			return nil, err
		}
		sink = orderpg.New(db)
	}
	return sink, nil
}

// seedMenu backs the in-memory source so the service is usable without a
// database.
func seedMenu() []menu.Item {
	price := func(s string) decimal.Decimal { d, _ := decimal.NewFromString(s); return d }
	return []menu.Item{
		{ID: "margherita", Name: "Margherita Pizza", Description: "Tomato, mozzarella and basil", Price: price("11.99"), Category: "Pizza", Image: "/img/margherita.jpg"},
		{ID: "pepperoni", Name: "Pepperoni Pizza", Description: "Loaded with pepperoni", Price: price("13.49"), Category: "Pizza", Image: "/img/pepperoni.jpg"},
		{ID: "caesar", Name: "Caesar Salad", Description: "Romaine, parmesan, croutons", Price: price("8.99"), Category: "Salads", Image: "/img/caesar.jpg"},
		{ID: "garlic-bread", Name: "Garlic Bread", Description: "Toasted with herb butter", Price: price("4.99"), Image: "/img/garlic-bread.jpg"},
		{ID: "lemonade", Name: "Fresh Lemonade", Description: "Squeezed to order", Price: price("3.49"), Category: "Drinks", Image: "/img/lemonade.jpg"},
	}
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
