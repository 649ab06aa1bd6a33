package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
)

type TeamRepository struct {
	col *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{col: db.Collection(collectionTeams)}
}

func (r *TeamRepository) Create(ctx context.Context, t *domain.Team) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if t.ID == "" {
		t.ID = newID()
	}
	_, err := r.col.InsertOne(ctx, t)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrTeamExists
	}
	return err
}

func (r *TeamRepository) FindByID(ctx context.Context, id string) (*domain.Team, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TeamRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Team, error) {
	return r.findOne(ctx, bson.M{"owner": ownerID})
}

func (r *TeamRepository) findOne(ctx context.Context, filter bson.M) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Team
	if err := r.col.FindOne(ctx, filter).Decode(&t); err != nil {
		return nil, notFound(err, domain.ErrTeamNotFound)
	}
	return &t, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	teams := []*domain.Team{}
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) UpdateStatus(ctx context.Context, id string, status domain.TeamStatus) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Team
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		return nil, notFound(err, domain.ErrTeamNotFound)
	}
	return &t, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}
