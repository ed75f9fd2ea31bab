package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group represents an organization whose members' footprints are summed for
// the company ranking.
// #CARDINALITY_ASSUMPTION: Group N:M Users via GroupMember join records
// #DATA_ASSUMPTION: Only certified groups appear in the company ranking
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	IsCertified bool               `bson:"is_certified" json:"is_certified"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for groups
func (Group) CollectionName() string {
	return "groups"
}

// BeforeCreate sets default values before inserting a new group
func (g *Group) BeforeCreate() {
	now := time.Now().UTC()
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	g.CreatedAt = now
	g.UpdatedAt = now
}

// GroupMember links a user to a group
type GroupMember struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`

	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}

// CollectionName returns the MongoDB collection name for group members
func (GroupMember) CollectionName() string {
	return "group_members"
}

// BeforeCreate sets default values before inserting a new group member
func (gm *GroupMember) BeforeCreate() {
	if gm.ID.IsZero() {
		gm.ID = primitive.NewObjectID()
	}
	if gm.JoinedAt.IsZero() {
		gm.JoinedAt = time.Now().UTC()
	}
}
