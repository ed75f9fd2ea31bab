package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
)

func TestParseRankCriterion(t *testing.T) {
	tests := []struct {
		input   string
		want    RankCriterion
		wantErr bool
	}{
		{input: "co2", want: RankByCO2},
		{input: "effort", want: RankByEffort},
		{input: "", wantErr: true},
		{input: "xp", wantErr: true},
		{input: "CO2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRankCriterion(tt.input)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidSortCriterion) {
					t.Errorf("ParseRankCriterion(%q) error = %v, want ErrInvalidSortCriterion", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRankCriterion(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRankCriterion(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// rankingFixture extends the catalog fixture with users and groups
type rankingFixture struct {
	*fixture
	users  *fakeUserRepo
	groups *fakeGroupRepo
}

func newRankingFixture() *rankingFixture {
	return &rankingFixture{
		fixture: newFixture(),
		users:   &fakeUserRepo{},
		groups:  newFakeGroupRepo(),
	}
}

// addUser registers an active user whose latest footprint is built from the
// car option count: footprint 16 per selected car option.
func (rf *rankingFixture) addUser(username string, xp int) primitive.ObjectID {
	id := primitive.NewObjectID()
	rf.users.users = append(rf.users.users, models.User{
		ID:       id,
		Username: username,
		XP:       xp,
		IsActive: true,
	})
	return id
}

// addFootprint records an official questionnaire scoring the given total
// via the meals coefficient (value = total / 2).
func (rf *rankingFixture) addFootprint(userID primitive.ObjectID, submittedAt time.Time, total float64) {
	qID := rf.addQuestionnaire(userID, submittedAt, false)
	rf.submitValue(qID, rf.ftQuestion, fmt.Sprintf("%g", total/2))
}

func (rf *rankingFixture) rankingService() RankingService {
	return NewRankingService(rf.users, rf.groups, rf.scoreService(), rf.periodSelector())
}

func TestRankUsersByCO2(t *testing.T) {
	rf := newRankingFixture()
	now := utcDate(2025, time.March, 10, 9)

	alice := rf.addUser("alice", 120)
	bob := rf.addUser("bob", 80)
	carol := rf.addUser("carol", 50)
	rf.addFootprint(alice, now, 30)
	rf.addFootprint(bob, now, 10)
	rf.addFootprint(carol, now, 20)

	page, err := rf.rankingService().RankUsers(context.Background(), RankByCO2, repository.DefaultPaginationOptions())
	if err != nil {
		t.Fatalf("RankUsers() error = %v", err)
	}

	wantOrder := []string{"bob", "carol", "alice"}
	if len(page.Users) != len(wantOrder) {
		t.Fatalf("got %d users, want %d", len(page.Users), len(wantOrder))
	}
	for i, want := range wantOrder {
		if page.Users[i].Username != want {
			t.Errorf("rank %d = %q, want %q", i, page.Users[i].Username, want)
		}
	}
	if page.HasMore {
		t.Error("HasMore = true, want false")
	}
}

func TestRankUsersByEffort(t *testing.T) {
	rf := newRankingFixture()
	jan := utcDate(2025, time.January, 10, 9)
	feb := utcDate(2025, time.February, 10, 9)

	// alice improved by 20, bob got worse by 5, carol has a single
	// submission and ranks on current minus zero.
	alice := rf.addUser("alice", 0)
	rf.addFootprint(alice, jan, 50)
	rf.addFootprint(alice, feb, 30)

	bob := rf.addUser("bob", 0)
	rf.addFootprint(bob, jan, 10)
	rf.addFootprint(bob, feb, 15)

	carol := rf.addUser("carol", 0)
	rf.addFootprint(carol, feb, 8)

	page, err := rf.rankingService().RankUsers(context.Background(), RankByEffort, repository.DefaultPaginationOptions())
	if err != nil {
		t.Fatalf("RankUsers() error = %v", err)
	}

	wantOrder := []string{"carol", "bob", "alice"}
	for i, want := range wantOrder {
		if page.Users[i].Username != want {
			t.Errorf("rank %d = %q, want %q", i, page.Users[i].Username, want)
		}
	}
	if page.Users[2].Effort != -20 {
		t.Errorf("alice effort = %v, want -20", page.Users[2].Effort)
	}
}

func TestRankUsersNoHistoryScoresZero(t *testing.T) {
	rf := newRankingFixture()
	now := utcDate(2025, time.March, 10, 9)

	withData := rf.addUser("with-data", 0)
	rf.addFootprint(withData, now, 12)
	rf.addUser("fresh", 0)

	page, err := rf.rankingService().RankUsers(context.Background(), RankByCO2, repository.DefaultPaginationOptions())
	if err != nil {
		t.Fatalf("RankUsers() error = %v", err)
	}
	if len(page.Users) != 2 {
		t.Fatalf("got %d users, want 2", len(page.Users))
	}
	if page.Users[0].Username != "fresh" || page.Users[0].Current != 0 {
		t.Errorf("rank 0 = %+v, want fresh user at 0", page.Users[0])
	}
}

func TestRankUsersSkipsFailingSubject(t *testing.T) {
	rf := newRankingFixture()
	now := utcDate(2025, time.March, 10, 9)

	ok := rf.addUser("ok", 0)
	rf.addFootprint(ok, now, 10)
	broken := rf.addUser("broken", 0)
	rf.questionnaire.listErrByUser[broken] = errors.New("replica set unreachable")

	page, err := rf.rankingService().RankUsers(context.Background(), RankByCO2, repository.DefaultPaginationOptions())
	if err != nil {
		t.Fatalf("RankUsers() error = %v", err)
	}
	if len(page.Users) != 1 {
		t.Fatalf("got %d users, want the failing subject dropped", len(page.Users))
	}
	if page.Users[0].Username != "ok" {
		t.Errorf("remaining user = %q, want %q", page.Users[0].Username, "ok")
	}
}

func TestRankUsersCancelledMidFanOut(t *testing.T) {
	rf := newRankingFixture()
	now := utcDate(2025, time.March, 10, 9)

	for i := 0; i < 4; i++ {
		id := rf.addUser(fmt.Sprintf("user-%d", i), 0)
		rf.addFootprint(id, now, float64(10+i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Every per-user fetch parks until the caller cancels, so the
	// fan-out is guaranteed to be in flight when cancellation lands.
	started := make(chan struct{})
	var once sync.Once
	rf.questionnaire.listByUserHook = func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	}
	go func() {
		<-started
		cancel()
	}()

	page, err := rf.rankingService().RankUsers(ctx, RankByCO2, repository.DefaultPaginationOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RankUsers() error = %v, want context.Canceled", err)
	}
	if page != nil {
		t.Errorf("RankUsers() page = %+v, want nil on cancellation", page)
	}
}

func TestRankUsersPaginationIsStable(t *testing.T) {
	rf := newRankingFixture()
	now := utcDate(2025, time.March, 10, 9)

	totals := []float64{14, 2, 8, 20, 6}
	for i, total := range totals {
		id := rf.addUser(fmt.Sprintf("user-%d", i), 0)
		rf.addFootprint(id, now, total)
	}

	svc := rf.rankingService()
	wantPages := [][]float64{{2, 6}, {8, 14}, {20}}
	wantHasMore := []bool{true, true, false}

	for p := range wantPages {
		page, err := svc.RankUsers(context.Background(), RankByCO2, repository.PaginationOptions{Page: p + 1, Limit: 2})
		if err != nil {
			t.Fatalf("RankUsers(page %d) error = %v", p+1, err)
		}
		if page.HasMore != wantHasMore[p] {
			t.Errorf("page %d HasMore = %v, want %v", p+1, page.HasMore, wantHasMore[p])
		}
		if len(page.Users) != len(wantPages[p]) {
			t.Fatalf("page %d has %d users, want %d", p+1, len(page.Users), len(wantPages[p]))
		}
		for i, want := range wantPages[p] {
			if page.Users[i].Current != want {
				t.Errorf("page %d entry %d = %v, want %v", p+1, i, page.Users[i].Current, want)
			}
		}
	}
}

func TestRankUsersInvalidInput(t *testing.T) {
	rf := newRankingFixture()
	svc := rf.rankingService()

	if _, err := svc.RankUsers(context.Background(), RankCriterion("popularity"), repository.DefaultPaginationOptions()); !errors.Is(err, models.ErrInvalidSortCriterion) {
		t.Errorf("invalid criterion error = %v, want ErrInvalidSortCriterion", err)
	}
	if _, err := svc.RankUsers(context.Background(), RankByCO2, repository.PaginationOptions{Page: 0, Limit: 20}); !errors.Is(err, models.ErrInvalidPagination) {
		t.Errorf("invalid page error = %v, want ErrInvalidPagination", err)
	}
	if _, err := svc.RankUsers(context.Background(), RankByCO2, repository.PaginationOptions{Page: 1, Limit: 500}); !errors.Is(err, models.ErrInvalidPagination) {
		t.Errorf("oversized limit error = %v, want ErrInvalidPagination", err)
	}
}

func TestRankCompanies(t *testing.T) {
	rf := newRankingFixture()
	now := utcDate(2025, time.March, 10, 9)

	// Certified group with members at 5, 0 (no history) and 7.
	m1 := rf.addUser("m1", 0)
	rf.addFootprint(m1, now, 5)
	m2 := rf.addUser("m2", 0)
	m3 := rf.addUser("m3", 0)
	rf.addFootprint(m3, now, 7)

	groupA := primitive.NewObjectID()
	rf.groups.groups = append(rf.groups.groups, models.Group{ID: groupA, Name: "Acme", IsCertified: true})
	rf.groups.members[groupA] = []primitive.ObjectID{m1, m2, m3}

	solo := rf.addUser("solo", 0)
	rf.addFootprint(solo, now, 3)
	groupB := primitive.NewObjectID()
	rf.groups.groups = append(rf.groups.groups, models.Group{ID: groupB, Name: "Borne", IsCertified: true})
	rf.groups.members[groupB] = []primitive.ObjectID{solo}

	// Uncertified groups never rank.
	rf.groups.groups = append(rf.groups.groups, models.Group{ID: primitive.NewObjectID(), Name: "Shadow", IsCertified: false})

	page, err := rf.rankingService().RankCompanies(context.Background(), repository.DefaultPaginationOptions())
	if err != nil {
		t.Fatalf("RankCompanies() error = %v", err)
	}
	if len(page.Companies) != 2 {
		t.Fatalf("got %d companies, want 2", len(page.Companies))
	}
	if page.Companies[0].Name != "Borne" || page.Companies[0].TotalCarbon != 3 {
		t.Errorf("rank 0 = %+v, want Borne at 3", page.Companies[0])
	}
	if page.Companies[1].Name != "Acme" || page.Companies[1].TotalCarbon != 12 {
		t.Errorf("rank 1 = %+v, want Acme at 12", page.Companies[1])
	}
}

func TestRankCompaniesMemberFailureCountsZero(t *testing.T) {
	rf := newRankingFixture()
	now := utcDate(2025, time.March, 10, 9)

	healthy := rf.addUser("healthy", 0)
	rf.addFootprint(healthy, now, 9)
	broken := rf.addUser("broken", 0)
	rf.questionnaire.listErrByUser[broken] = errors.New("replica set unreachable")

	groupID := primitive.NewObjectID()
	rf.groups.groups = append(rf.groups.groups, models.Group{ID: groupID, Name: "Acme", IsCertified: true})
	rf.groups.members[groupID] = []primitive.ObjectID{healthy, broken}

	page, err := rf.rankingService().RankCompanies(context.Background(), repository.DefaultPaginationOptions())
	if err != nil {
		t.Fatalf("RankCompanies() error = %v", err)
	}
	if len(page.Companies) != 1 {
		t.Fatalf("got %d companies, want 1", len(page.Companies))
	}
	if page.Companies[0].TotalCarbon != 9 {
		t.Errorf("TotalCarbon = %v, want the failing member counted as zero", page.Companies[0].TotalCarbon)
	}
}

func TestRankUsersListFailureAborts(t *testing.T) {
	rf := newRankingFixture()
	rf.users.err = errors.New("replica set unreachable")

	if _, err := rf.rankingService().RankUsers(context.Background(), RankByCO2, repository.DefaultPaginationOptions()); err == nil {
		t.Error("RankUsers() error = nil, want the listing failure surfaced")
	}
}
