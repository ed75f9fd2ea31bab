// Package repository provides data access layer factories
// #IMPLEMENTATION_DECISION: Factory functions wrap raw MongoDB constructors for our database.Client
package repository

import (
	"github.com/empreinte-tools/empreinte_backend/internal/database"
)

// NewCatalogRepository creates a new catalog repository using our database client
func NewCatalogRepository(client *database.Client) CatalogRepository {
	return NewMongoCatalogRepository(client.Database())
}

// NewQuestionnaireRepository creates a new questionnaire repository using our database client
func NewQuestionnaireRepository(client *database.Client) QuestionnaireRepository {
	return NewMongoQuestionnaireRepository(client.Database())
}

// NewUserRepository creates a new user repository using our database client
func NewUserRepository(client *database.Client) UserRepository {
	return NewMongoUserRepository(client.Database())
}

// NewGroupRepository creates a new group repository using our database client
func NewGroupRepository(client *database.Client) GroupRepository {
	return NewMongoGroupRepository(client.Database())
}
