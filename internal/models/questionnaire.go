package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Questionnaire represents one survey submission by a user.
// #DATA_ASSUMPTION: A questionnaire belongs to exactly one user and has exactly one submission timestamp
// #IMPLEMENTATION_DECISION: Drafts ("simulations") are provisional what-if submissions;
// the draft flag is cleared exactly once on finalization, after which the
// questionnaire is immutable and part of the user's official history.
type Questionnaire struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	SubmittedAt time.Time          `bson:"submitted_at" json:"submitted_at"`
	IsDraft     bool               `bson:"is_draft" json:"is_draft"`
}

// CollectionName returns the MongoDB collection name for questionnaires
func (Questionnaire) CollectionName() string {
	return "questionnaires"
}

// BeforeCreate sets default values before inserting a new questionnaire
func (q *Questionnaire) BeforeCreate() {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.SubmittedAt.IsZero() {
		q.SubmittedAt = time.Now().UTC()
	}
}

// IsOfficial returns true if the questionnaire counts toward the user's
// official history (comparison, evolution without drafts, ranking).
func (q *Questionnaire) IsOfficial() bool {
	return !q.IsDraft
}

// SelectedChoice records the answer option a questionnaire picked for a
// multiple-choice question. At most one per (questionnaire, question).
type SelectedChoice struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuestionnaireID primitive.ObjectID `bson:"questionnaire_id" json:"questionnaire_id"`
	QuestionID      primitive.ObjectID `bson:"question_id" json:"question_id"`
	OptionID        primitive.ObjectID `bson:"option_id" json:"option_id"`
}

// CollectionName returns the MongoDB collection name for selected choices
func (SelectedChoice) CollectionName() string {
	return "selected_choices"
}

// BeforeCreate sets default values before inserting a new selected choice
func (sc *SelectedChoice) BeforeCreate() {
	if sc.ID.IsZero() {
		sc.ID = primitive.NewObjectID()
	}
}

// SubmittedAnswer holds the raw value a questionnaire submitted for a
// free-text question. The raw value is kept as a string; scoring parses it
// as a number and treats non-numeric values as contributing 0.
type SubmittedAnswer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuestionnaireID primitive.ObjectID `bson:"questionnaire_id" json:"questionnaire_id"`
	QuestionID      primitive.ObjectID `bson:"question_id" json:"question_id"`
	Value           string             `bson:"value" json:"value"`
}

// CollectionName returns the MongoDB collection name for submitted answers
func (SubmittedAnswer) CollectionName() string {
	return "submitted_answers"
}

// BeforeCreate sets default values before inserting a new submitted answer
func (sa *SubmittedAnswer) BeforeCreate() {
	if sa.ID.IsZero() {
		sa.ID = primitive.NewObjectID()
	}
}
