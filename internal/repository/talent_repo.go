package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentprep/internal/model"
)

type TalentRepo interface {
	// GetByID returns (nil, nil) when no talent matches the id.
	GetByID(ctx context.Context, id string) (*model.Talent, error)
}

type talentRepo struct {
	collection *mongo.Collection
}

func NewTalentRepo(db *mongo.Database) TalentRepo {
	return &talentRepo{
		collection: db.Collection("talents"),
	}
}

func (r *talentRepo) GetByID(ctx context.Context, id string) (*model.Talent, error) {
	var talent model.Talent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&talent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Talent not found
		}
		return nil, err
	}

	return &talent, nil
}
