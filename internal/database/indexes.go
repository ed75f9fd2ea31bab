package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates all required database indexes
// #IMPLEMENTATION_DECISION: Indexes created on application startup, idempotent
func (c *Client) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: CollectionUsers,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "username", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "is_active", Value: 1}},
				},
			},
		},
		{
			collection: CollectionGroups,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{{Key: "is_certified", Value: 1}},
				},
			},
		},
		{
			collection: CollectionGroupMembers,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "group_id", Value: 1},
						{Key: "user_id", Value: 1},
					},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			collection: CollectionQuestions,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{{Key: "category_id", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "order", Value: 1}},
				},
			},
		},
		{
			collection: CollectionCoefficients,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "question_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			// History reads are always (user, newest first)
			collection: CollectionQuestionnaires,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "user_id", Value: 1},
						{Key: "submitted_at", Value: -1},
					},
				},
				{
					Keys: bson.D{{Key: "is_draft", Value: 1}},
				},
			},
		},
		{
			// At most one selected choice per (questionnaire, question)
			collection: CollectionSelectedChoices,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "questionnaire_id", Value: 1},
						{Key: "question_id", Value: 1},
					},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			collection: CollectionSubmittedAnswers,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "questionnaire_id", Value: 1},
						{Key: "question_id", Value: 1},
					},
					Options: options.Index().SetUnique(true),
				},
			},
		},
	}

	for _, idx := range indexes {
		collection := c.Collection(idx.collection)
		_, err := collection.Indexes().CreateMany(ctx, idx.models)
		if err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", idx.collection, err)
		}
	}

	return nil
}
