package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/config"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/repositories"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pinRepo, closeStore, err := openPinStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open pin store: %v", err)
	}
	defer closeStore()

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, pin cache disabled: %v", err)
		} else {
			pinRepo = repositories.NewCachedPinRepository(pinRepo, rdb, cfg.Redis.CacheTTL)
			log.Println("Pin list cache enabled on", cfg.Redis.Addr)
		}
	}

	srv, err := newServer(cfg, pinRepo)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	if err := srv.run(ctx); err != nil {
		log.Fatal(err)
	}
}

func openPinStore(ctx context.Context, cfg *config.Config) (repositories.PinRepository, func(), error) {
	switch cfg.Store.Kind {
	case config.StorePostgres:
		db, err := sql.Open("pgx", cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := waitForDB(db, 60*time.Second); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("cannot ping database after retries: %w", err)
		}
		if err := repositories.EnsurePinSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure pin schema: %w", err)
		}
		fmt.Println("Successfully connected to PostgreSQL!")
		return repositories.NewPinRepository(db), func() { db.Close() }, nil

	case config.StoreMongo:
		client, err := repositories.ConnectMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoTimeout)
		if err != nil {
			return nil, nil, err
		}
		col := client.Database(cfg.Store.MongoDatabase).Collection("pins")
		repo, err := repositories.NewMongoPinRepository(ctx, col)
		if err != nil {
			client.Disconnect(context.Background())
			return nil, nil, err
		}
		fmt.Println("Successfully connected to MongoDB!")
		return repo, func() { client.Disconnect(context.Background()) }, nil

	default:
		log.Println("Using in-memory pin store; pins are lost on restart")
		return repositories.NewMemoryPinRepository(), func() {}, nil
	}
}

// waitForDB attempts to Ping the DB with exponential backoff until the timeout elapses.
func waitForDB(db *sql.DB, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	backoff := 500 * time.Millisecond
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := db.PingContext(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for DB: %w", err)
		}
		log.Printf("Waiting for database... (%v)\n", err)
		time.Sleep(backoff)
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
}
