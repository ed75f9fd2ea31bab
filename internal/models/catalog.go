package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionKind represents the kind of survey question
// #IMPLEMENTATION_DECISION: UPPERCASE in Go code, lowercase in JSON serialization
type QuestionKind string

const (
	QuestionKindMultipleChoice QuestionKind = "MULTIPLE_CHOICE"
	QuestionKindFreeText       QuestionKind = "FREE_TEXT"
)

// MarshalJSON converts QuestionKind to lowercase for JSON serialization
func (qk QuestionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(qk)))
}

// UnmarshalJSON converts lowercase JSON to QuestionKind
func (qk *QuestionKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*qk = QuestionKind(strings.ToUpper(s))
	return nil
}

// IsValid checks if the QuestionKind is a valid value
func (qk QuestionKind) IsValid() bool {
	switch qk {
	case QuestionKindMultipleChoice, QuestionKindFreeText:
		return true
	}
	return false
}

// RequiresOptions returns true if this question kind requires answer options
func (qk QuestionKind) RequiresOptions() bool {
	return qk == QuestionKindMultipleChoice
}

// Category groups survey questions for the per-category footprint breakdown
// (e.g. transport, diet, housing). Used only for grouping.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for categories
func (Category) CollectionName() string {
	return "categories"
}

// BeforeCreate sets default values before inserting a new category
func (c *Category) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = time.Now().UTC()
}

// AnswerOption is one selectable option of a multiple-choice question with a
// fixed point value.
// #NORMALIZATION_DECISION: Options embedded in the question as they are never queried independently
type AnswerOption struct {
	ID    primitive.ObjectID `bson:"id" json:"id"`
	Label string             `bson:"label" json:"label"`
	Value float64            `bson:"value" json:"value"`
	Order int                `bson:"order" json:"order"`
}

// Question represents a survey catalog entry, immutable after creation.
// #CARDINALITY_ASSUMPTION: Category 1:N Questions - one category groups many questions
// #DATA_ASSUMPTION: Free-text questions carry a Coefficient; without one they contribute 0 points
type Question struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID primitive.ObjectID `bson:"category_id" json:"category_id"`
	Text       string             `bson:"text" json:"text"`
	Kind       QuestionKind       `bson:"kind" json:"kind"`
	Order      int                `bson:"order" json:"order"`

	// Options (embedded for multiple choice questions)
	Options []AnswerOption `bson:"options,omitempty" json:"options,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for questions
func (Question) CollectionName() string {
	return "questions"
}

// BeforeCreate sets default values before inserting a new question
func (q *Question) BeforeCreate() {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	for i := range q.Options {
		if q.Options[i].ID.IsZero() {
			q.Options[i].ID = primitive.NewObjectID()
		}
	}
	q.CreatedAt = time.Now().UTC()
}

// OptionByID returns the embedded option with the given ID, or nil
func (q *Question) OptionByID(id primitive.ObjectID) *AnswerOption {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// Coefficient is the weight applied to a free-text numeric answer to convert
// it into footprint points. A question without a coefficient contributes 0.
type Coefficient struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuestionID primitive.ObjectID `bson:"question_id" json:"question_id"`
	Value      float64            `bson:"value" json:"value"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for coefficients
func (Coefficient) CollectionName() string {
	return "coefficients"
}

// BeforeCreate sets default values before inserting a new coefficient
func (c *Coefficient) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = time.Now().UTC()
}
