package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

// currentPriceID keys the single current tariff document.
const currentPriceID = "current"

type PriceRepository struct {
	current *mongo.Collection
	history *mongo.Collection
}

func NewPriceRepository(db *mongo.Database) *PriceRepository {
	return &PriceRepository{
		current: db.Collection(collectionPrices),
		history: db.Collection(collectionPriceHistory),
	}
}

func (r *PriceRepository) Current(ctx context.Context) (*domain.PriceTable, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.PriceTable
	if err := r.current.FindOne(ctx, bson.M{"_id": currentPriceID}).Decode(&p); err != nil {
		return nil, notFound(err, domain.ErrPriceTableNotFound)
	}
	return &p, nil
}

// SaveCurrent upserts the single current tariff.
func (r *PriceRepository) SaveCurrent(ctx context.Context, p *domain.PriceTable) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p.ID = currentPriceID
	_, err := r.current.ReplaceOne(ctx, bson.M{"_id": currentPriceID}, p, options.Replace().SetUpsert(true))
	return err
}

func (r *PriceRepository) AppendHistory(ctx context.Context, e *domain.PriceHistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if e.ID == "" {
		e.ID = newID()
	}
	_, err := r.history.InsertOne(ctx, e)
	return err
}

func (r *PriceRepository) LatestHistory(ctx context.Context) (*domain.PriceHistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.PriceHistoryEntry
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := r.history.FindOne(ctx, bson.M{}, opts).Decode(&e); err != nil {
		return nil, notFound(err, domain.ErrPriceTableNotFound)
	}
	return &e, nil
}

// Timeline lists every tariff snapshot, newest first.
func (r *PriceRepository) Timeline(ctx context.Context) ([]*domain.PriceHistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.history.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := []*domain.PriceHistoryEntry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
