package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentprep/internal/model"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "talentprep"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)
	talents := db.Collection("talents")
	paths := db.Collection("careerpaths")

	sePath := model.CareerPath{
		ID:          primitive.NewObjectID().Hex(),
		Title:       "Software Engineering",
		Description: "Designing, building, and maintaining software systems.",
	}
	dsPath := model.CareerPath{
		ID:          primitive.NewObjectID().Hex(),
		Title:       "Data Science",
		Description: "Extracting insight from data with statistics and machine learning.",
	}

	seedTalents := []model.Talent{
		{
			ID:             primitive.NewObjectID().Hex(),
			Name:           "Amara Mensah",
			CareerStage:    model.StagePathfinder,
			SelectedPathID: sePath.ID,
			Skills:         []string{"Go", "JavaScript", "SQL"},
			Degrees:        []string{"BSc Computer Science (in progress)"},
			Interests:      []string{"backend systems", "open source"},
		},
		{
			ID:             primitive.NewObjectID().Hex(),
			Name:           "Kofi Boateng",
			CareerStage:    model.StageTrailblazer,
			SelectedPathID: dsPath.ID,
			Skills:         []string{"Python", "Pandas", "TensorFlow"},
			Degrees:        []string{"MSc Statistics"},
			Certifications: []string{"AWS Machine Learning Specialty"},
		},
		{
			ID:          primitive.NewObjectID().Hex(),
			Name:        "Efua Owusu",
			CareerStage: model.StageHorizonChanger,
			// No selected path: generation proceeds with a generic field
			Skills:    []string{"project management", "communication"},
			Interests: []string{"product design"},
		},
	}

	for _, p := range []model.CareerPath{sePath, dsPath} {
		if _, err := paths.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true)); err != nil {
			log.Fatalf("Failed to seed career path %q: %v", p.Title, err)
		}
		fmt.Printf("Seeded career path %s (%s)\n", p.Title, p.ID)
	}

	for _, t := range seedTalents {
		if _, err := talents.ReplaceOne(ctx, bson.M{"_id": t.ID}, t, options.Replace().SetUpsert(true)); err != nil {
			log.Fatalf("Failed to seed talent %q: %v", t.Name, err)
		}
		fmt.Printf("Seeded talent %s (%s, %s)\n", t.Name, t.CareerStage, t.ID)
	}

	fmt.Println("Done.")
}
