package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

// MongoGroupRepository implements GroupRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoGroupRepository struct {
	groups  *mongo.Collection
	members *mongo.Collection
}

// NewMongoGroupRepository creates a new MongoDB group repository
func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	return &MongoGroupRepository{
		groups:  db.Collection(models.Group{}.CollectionName()),
		members: db.Collection(models.GroupMember{}.CollectionName()),
	}
}

// GetByID finds a group by ID
func (r *MongoGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	filter := bson.M{"_id": id}
	err := r.groups.FindOne(ctx, filter).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListCertified lists all certified groups ordered by name
func (r *MongoGroupRepository) ListCertified(ctx context.Context) ([]models.Group, error) {
	filter := bson.M{"is_certified": true}
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.groups.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListMemberIDs lists the user IDs belonging to a group
func (r *MongoGroupRepository) ListMemberIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.members.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []models.GroupMember
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
