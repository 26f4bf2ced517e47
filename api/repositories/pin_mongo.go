package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPin struct {
	ID          string    `bson:"id"`
	Name        string    `bson:"name"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Rating      int       `bson:"rating"`
	Lat         float64   `bson:"lat"`
	Lon         float64   `bson:"lon"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// mongoPinRepository stores pins with a string "id" field next to Mongo's own _id.
type mongoPinRepository struct {
	col *mongo.Collection
}

func NewMongoPinRepository(ctx context.Context, col *mongo.Collection) (PinRepository, error) {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		return nil, fmt.Errorf("create pin indexes: %w", err)
	}
	return &mongoPinRepository{col: col}, nil
}

// ConnectMongo opens a client and pings it. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func (m *mongoPinRepository) CreatePin(ctx context.Context, pin *models.Pin) error {
	doc := mongoPin{
		ID:          uuid.New().String(),
		Name:        pin.Name,
		Title:       pin.Title,
		Description: pin.Description,
		Rating:      pin.Rating,
		Lat:         pin.Lat,
		Lon:         pin.Lon,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	pin.ID = doc.ID
	pin.CreatedAt = doc.CreatedAt
	return nil
}

func (m *mongoPinRepository) ListPins(ctx context.Context) ([]models.Pin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	pins := []models.Pin{}
	for cur.Next(ctx) {
		var d mongoPin
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		pins = append(pins, models.Pin{
			ID:          d.ID,
			Name:        d.Name,
			Title:       d.Title,
			Description: d.Description,
			Rating:      d.Rating,
			Lat:         d.Lat,
			Lon:         d.Lon,
			CreatedAt:   d.CreatedAt.UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return pins, nil
}
