// Package mongodao stores the same records as package dao in a MongoDB
// database. Every DAO here satisfies the interface its gorm counterpart does.
package mongodao

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	clubsCollection    = "clubs"
	eventsCollection   = "events"
	feedbackCollection = "feedback"
)

// EnsureIndexes creates the unique and lookup indexes the DAOs rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "created_by_id", Value: 1}}},
			{Keys: bson.D{{Key: "registrations.student_id", Value: 1}}},
		},
		feedbackCollection: {
			{
				Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "student_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("idx_feedback_event_student"),
			},
			{Keys: bson.D{{Key: "student_id", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s -> %w", coll, err)
		}
	}

	return nil
}

// DropAll is used by integration tests to start from an empty database.
func DropAll(ctx context.Context, db *mongo.Database) error {
	for _, coll := range []string{usersCollection, clubsCollection, eventsCollection, feedbackCollection} {
		if err := db.Collection(coll).Drop(ctx); err != nil {
			return err
		}
	}

	return nil
}

func withTransaction(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})

	return err
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
