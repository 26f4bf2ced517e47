package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"

	"github.com/redis/go-redis/v9"
)

const (
	pinListKey    = "pins:all"
	pinVersionKey = "pins:version"
)

// cachedPinRepository is a read-through cache of the full pin list.
// Lists are stored under the current version; a create bumps the version,
// so a list read before the create can only land under a retired key.
type cachedPinRepository struct {
	next   PinRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedPinRepository(next PinRepository, client *redis.Client, ttl time.Duration) PinRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &cachedPinRepository{next: next, client: client, ttl: ttl}
}

func listKey(version string) string {
	return pinListKey + ":" + version
}

func (c *cachedPinRepository) CreatePin(ctx context.Context, pin *models.Pin) error {
	if err := c.next.CreatePin(ctx, pin); err != nil {
		return err
	}
	if err := c.client.Incr(ctx, pinVersionKey).Err(); err != nil {
		log.Println("invalidate pin cache:", err)
	}
	return nil
}

func (c *cachedPinRepository) ListPins(ctx context.Context) ([]models.Pin, error) {
	version, err := c.client.Get(ctx, pinVersionKey).Result()
	switch {
	case err == redis.Nil:
		version, err = "0", nil
	case err != nil:
		log.Println("read pin cache version:", err)
		return c.next.ListPins(ctx)
	}
	key := listKey(version)

	b, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var pins []models.Pin
		decodeErr := json.Unmarshal(b, &pins)
		if decodeErr == nil {
			return pins, nil
		}
		log.Println("decode cached pins:", decodeErr)
	} else if err != redis.Nil {
		log.Println("read pin cache:", err)
	}

	pins, err := c.next.ListPins(ctx)
	if err != nil {
		return nil, err
	}

	b, err = json.Marshal(pins)
	if err != nil {
		return pins, nil
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		log.Println("write pin cache:", err)
	}
	return pins, nil
}
