package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

// In-memory repository fakes shared by the service tests.

type fakeCatalogRepo struct {
	categories   []models.Category
	questions    []models.Question
	coefficients []models.Coefficient
	err          error
}

func (f *fakeCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeCatalogRepo) ListQuestions(ctx context.Context) ([]models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func (f *fakeCatalogRepo) ListCoefficients(ctx context.Context) ([]models.Coefficient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.coefficients, nil
}

type fakeQuestionnaireRepo struct {
	questionnaires []models.Questionnaire
	choices        map[primitive.ObjectID][]models.SelectedChoice
	answers        map[primitive.ObjectID][]models.SubmittedAnswer

	listErrByUser    map[primitive.ObjectID]error
	listByUserHook   func(ctx context.Context) error
	insertChoicesErr error
	insertAnswersErr error
	deleted          []primitive.ObjectID
}

func newFakeQuestionnaireRepo() *fakeQuestionnaireRepo {
	return &fakeQuestionnaireRepo{
		choices:       make(map[primitive.ObjectID][]models.SelectedChoice),
		answers:       make(map[primitive.ObjectID][]models.SubmittedAnswer),
		listErrByUser: make(map[primitive.ObjectID]error),
	}
}

func (f *fakeQuestionnaireRepo) Create(ctx context.Context, q *models.Questionnaire) error {
	q.BeforeCreate()
	f.questionnaires = append(f.questionnaires, *q)
	return nil
}

func (f *fakeQuestionnaireRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Questionnaire, error) {
	for i := range f.questionnaires {
		if f.questionnaires[i].ID == id {
			q := f.questionnaires[i]
			return &q, nil
		}
	}
	return nil, models.ErrQuestionnaireNotFound
}

func (f *fakeQuestionnaireRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, includeDrafts bool) ([]models.Questionnaire, error) {
	if f.listByUserHook != nil {
		if err := f.listByUserHook(ctx); err != nil {
			return nil, err
		}
	}
	if err := f.listErrByUser[userID]; err != nil {
		return nil, err
	}
	var result []models.Questionnaire
	for _, q := range f.questionnaires {
		if q.UserID != userID {
			continue
		}
		if q.IsDraft && !includeDrafts {
			continue
		}
		result = append(result, q)
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].SubmittedAt.After(result[b].SubmittedAt)
	})
	return result, nil
}

func (f *fakeQuestionnaireRepo) Finalize(ctx context.Context, id primitive.ObjectID) error {
	for i := range f.questionnaires {
		if f.questionnaires[i].ID != id {
			continue
		}
		if !f.questionnaires[i].IsDraft {
			return models.ErrQuestionnaireFinalized
		}
		f.questionnaires[i].IsDraft = false
		return nil
	}
	return models.ErrQuestionnaireNotFound
}

func (f *fakeQuestionnaireRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i := range f.questionnaires {
		if f.questionnaires[i].ID == id {
			f.questionnaires = append(f.questionnaires[:i], f.questionnaires[i+1:]...)
			delete(f.choices, id)
			delete(f.answers, id)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return models.ErrQuestionnaireNotFound
}

func (f *fakeQuestionnaireRepo) InsertChoices(ctx context.Context, choices []models.SelectedChoice) error {
	if f.insertChoicesErr != nil {
		return f.insertChoicesErr
	}
	for _, c := range choices {
		f.choices[c.QuestionnaireID] = append(f.choices[c.QuestionnaireID], c)
	}
	return nil
}

func (f *fakeQuestionnaireRepo) InsertAnswers(ctx context.Context, answers []models.SubmittedAnswer) error {
	if f.insertAnswersErr != nil {
		return f.insertAnswersErr
	}
	for _, a := range answers {
		f.answers[a.QuestionnaireID] = append(f.answers[a.QuestionnaireID], a)
	}
	return nil
}

func (f *fakeQuestionnaireRepo) ListChoices(ctx context.Context, questionnaireID primitive.ObjectID) ([]models.SelectedChoice, error) {
	return f.choices[questionnaireID], nil
}

func (f *fakeQuestionnaireRepo) ListAnswers(ctx context.Context, questionnaireID primitive.ObjectID) ([]models.SubmittedAnswer, error) {
	return f.answers[questionnaireID], nil
}

type fakeUserRepo struct {
	users []models.User
	err   error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserRepo) ListActive(ctx context.Context) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

type fakeGroupRepo struct {
	groups    []models.Group
	members   map[primitive.ObjectID][]primitive.ObjectID
	memberErr map[primitive.ObjectID]error
	err       error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		members:   make(map[primitive.ObjectID][]primitive.ObjectID),
		memberErr: make(map[primitive.ObjectID]error),
	}
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	for i := range f.groups {
		if f.groups[i].ID == id {
			g := f.groups[i]
			return &g, nil
		}
	}
	return nil, models.ErrGroupNotFound
}

func (f *fakeGroupRepo) ListCertified(ctx context.Context) ([]models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	var certified []models.Group
	for _, g := range f.groups {
		if g.IsCertified {
			certified = append(certified, g)
		}
	}
	return certified, nil
}

func (f *fakeGroupRepo) ListMemberIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if err := f.memberErr[groupID]; err != nil {
		return nil, err
	}
	return f.members[groupID], nil
}

// fixture wires a small two-category catalog used across the service tests:
// a multiple-choice transport question and two free-text questions, one of
// which deliberately has no coefficient.
type fixture struct {
	catalog       *fakeCatalogRepo
	questionnaire *fakeQuestionnaireRepo

	catTransport primitive.ObjectID
	catDiet      primitive.ObjectID

	mcQuestion primitive.ObjectID
	optBike    primitive.ObjectID // value 4
	optCar     primitive.ObjectID // value 16
	ftQuestion primitive.ObjectID // coefficient 2
	ftNoCoef   primitive.ObjectID // no coefficient
}

func newFixture() *fixture {
	f := &fixture{
		questionnaire: newFakeQuestionnaireRepo(),
		catTransport:  primitive.NewObjectID(),
		catDiet:       primitive.NewObjectID(),
		mcQuestion:    primitive.NewObjectID(),
		optBike:       primitive.NewObjectID(),
		optCar:        primitive.NewObjectID(),
		ftQuestion:    primitive.NewObjectID(),
		ftNoCoef:      primitive.NewObjectID(),
	}

	f.catalog = &fakeCatalogRepo{
		categories: []models.Category{
			{ID: f.catTransport, Name: "Transport"},
			{ID: f.catDiet, Name: "Alimentation"},
		},
		questions: []models.Question{
			{
				ID:         f.mcQuestion,
				CategoryID: f.catTransport,
				Text:       "Quel est votre moyen de transport principal ?",
				Kind:       models.QuestionKindMultipleChoice,
				Order:      1,
				Options: []models.AnswerOption{
					{ID: f.optBike, Label: "Vélo", Value: 4},
					{ID: f.optCar, Label: "Voiture", Value: 16},
				},
			},
			{
				ID:         f.ftQuestion,
				CategoryID: f.catDiet,
				Text:       "Combien de repas carnés par semaine ?",
				Kind:       models.QuestionKindFreeText,
				Order:      2,
			},
			{
				ID:         f.ftNoCoef,
				CategoryID: f.catTransport,
				Text:       "Combien de kilomètres en voiture par an ?",
				Kind:       models.QuestionKindFreeText,
				Order:      3,
			},
		},
		coefficients: []models.Coefficient{
			{ID: primitive.NewObjectID(), QuestionID: f.ftQuestion, Value: 2},
		},
	}
	return f
}

// addQuestionnaire stores a questionnaire submitted at the given instant
func (f *fixture) addQuestionnaire(userID primitive.ObjectID, submittedAt time.Time, isDraft bool) primitive.ObjectID {
	q := models.Questionnaire{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		SubmittedAt: submittedAt,
		IsDraft:     isDraft,
	}
	f.questionnaire.questionnaires = append(f.questionnaire.questionnaires, q)
	return q.ID
}

// selectOption records a multiple-choice answer on a questionnaire
func (f *fixture) selectOption(questionnaireID, questionID, optionID primitive.ObjectID) {
	f.questionnaire.choices[questionnaireID] = append(f.questionnaire.choices[questionnaireID], models.SelectedChoice{
		ID:              primitive.NewObjectID(),
		QuestionnaireID: questionnaireID,
		QuestionID:      questionID,
		OptionID:        optionID,
	})
}

// submitValue records a free-text answer on a questionnaire
func (f *fixture) submitValue(questionnaireID, questionID primitive.ObjectID, value string) {
	f.questionnaire.answers[questionnaireID] = append(f.questionnaire.answers[questionnaireID], models.SubmittedAnswer{
		ID:              primitive.NewObjectID(),
		QuestionnaireID: questionnaireID,
		QuestionID:      questionID,
		Value:           value,
	})
}

func (f *fixture) scoreService() ScoreService {
	return NewScoreService(f.catalog, f.questionnaire)
}

func (f *fixture) periodSelector() PeriodSelector {
	return NewPeriodSelector(f.questionnaire)
}

func (f *fixture) reportService() ReportService {
	return NewReportService(f.catalog, f.questionnaire, f.scoreService(), f.periodSelector())
}

func utcDate(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
