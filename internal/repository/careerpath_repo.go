package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentprep/internal/model"
)

type CareerPathRepo interface {
	// GetByID returns (nil, nil) when no career path matches the id.
	GetByID(ctx context.Context, id string) (*model.CareerPath, error)
}

type careerPathRepo struct {
	collection *mongo.Collection
}

func NewCareerPathRepo(db *mongo.Database) CareerPathRepo {
	return &careerPathRepo{
		collection: db.Collection("careerpaths"),
	}
}

func (r *careerPathRepo) GetByID(ctx context.Context, id string) (*model.CareerPath, error) {
	var path model.CareerPath
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&path)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Path missing is non-fatal for generation
		}
		return nil, err
	}

	return &path, nil
}
