package services

import (
	"context"
	"log"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
)

// RankCriterion selects the ranking order
type RankCriterion string

const (
	// RankByCO2 orders by current footprint, lowest first
	RankByCO2 RankCriterion = "co2"
	// RankByEffort orders by improvement since the previous submission,
	// greatest improvement first
	RankByEffort RankCriterion = "effort"
)

// ParseRankCriterion validates a caller-supplied sort criterion
func ParseRankCriterion(s string) (RankCriterion, error) {
	switch RankCriterion(s) {
	case RankByCO2, RankByEffort:
		return RankCriterion(s), nil
	}
	return "", models.ErrInvalidSortCriterion
}

// rankingConcurrency caps the per-subject fan-out of score computations
const rankingConcurrency = 8

// UserRankEntry is one user of a ranking page.
// Wire format preserved for the existing frontend.
type UserRankEntry struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	XP       int     `json:"xp"`
	Current  float64 `json:"monthly_avg"`
	Previous float64 `json:"previous_month_avg"`
	Effort   float64 `json:"effort"`
}

// UserRankingPage is one page of the user ranking
type UserRankingPage struct {
	Users   []UserRankEntry `json:"users"`
	HasMore bool            `json:"hasMore"`
}

// CompanyRankEntry is one certified group of a company ranking page
type CompanyRankEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TotalCarbon float64 `json:"totalCarbon"`
}

// CompanyRankingPage is one page of the company ranking
type CompanyRankingPage struct {
	Companies []CompanyRankEntry `json:"companies"`
	HasMore   bool               `json:"hasMore"`
}

// RankingService orders users and certified groups by footprint score
// #IMPLEMENTATION_DECISION: Failure policy is skip-and-continue: a subject
// whose repository access fails is dropped from the ranking with a logged
// warning and never corrupts the aggregate; a subject with no data ranks
// with zeros. Sorting always happens over the full subject set before
// pagination so page boundaries are stable.
type RankingService interface {
	// RankUsers ranks all active users by the given criterion
	RankUsers(ctx context.Context, criterion RankCriterion, opts repository.PaginationOptions) (*UserRankingPage, error)

	// RankCompanies ranks all certified groups by the summed footprint of
	// their members, lowest first
	RankCompanies(ctx context.Context, opts repository.PaginationOptions) (*CompanyRankingPage, error)
}

// rankingService implements RankingService
type rankingService struct {
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
	scores    ScoreService
	periods   PeriodSelector
}

// NewRankingService creates a new ranking service
func NewRankingService(
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	scores ScoreService,
	periods PeriodSelector,
) RankingService {
	return &rankingService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
		scores:    scores,
		periods:   periods,
	}
}

// RankUsers ranks all active users by the given criterion
func (s *rankingService) RankUsers(ctx context.Context, criterion RankCriterion, opts repository.PaginationOptions) (*UserRankingPage, error) {
	if _, err := ParseRankCriterion(string(criterion)); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// The primary subject listing aborts on failure; only the secondary
	// per-subject computations are skip-and-continue.
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		entry   UserRankEntry
		skipped bool
	}
	results := make([]outcome, len(users))

	// Subjects are read-only and independent: fan out with a bounded
	// worker pool and merge by index so sort input order stays stable.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rankingConcurrency)
	for i := range users {
		i := i
		g.Go(func() error {
			user := &users[i]
			current, previous, err := s.userFootprint(gctx, user.ID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("Warning: skipping user %s in ranking: %v", user.ID.Hex(), err)
				results[i] = outcome{skipped: true}
				return nil
			}
			results[i] = outcome{entry: UserRankEntry{
				ID:       user.ID.Hex(),
				Username: user.Username,
				XP:       user.XP,
				Current:  current,
				Previous: previous,
				Effort:   current - previous,
			}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]UserRankEntry, 0, len(results))
	for _, r := range results {
		if !r.skipped {
			entries = append(entries, r.entry)
		}
	}

	switch criterion {
	case RankByCO2:
		// Lower footprint ranks first; ties keep input order
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Current < entries[b].Current
		})
	case RankByEffort:
		// Effort sorts descending: the largest delta ranks first,
		// ties keep input order
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Effort > entries[b].Effort
		})
	}

	page, hasMore := paginate(entries, opts)
	return &UserRankingPage{Users: page, HasMore: hasMore}, nil
}

// RankCompanies ranks all certified groups by their members' summed footprint
func (s *rankingService) RankCompanies(ctx context.Context, opts repository.PaginationOptions) (*CompanyRankingPage, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.ListCertified(ctx)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		entry   CompanyRankEntry
		skipped bool
	}
	results := make([]outcome, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rankingConcurrency)
	for i := range groups {
		i := i
		g.Go(func() error {
			group := &groups[i]
			total, err := s.companyFootprint(gctx, group.ID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("Warning: skipping group %s in ranking: %v", group.ID.Hex(), err)
				results[i] = outcome{skipped: true}
				return nil
			}
			results[i] = outcome{entry: CompanyRankEntry{
				ID:          group.ID.Hex(),
				Name:        group.Name,
				TotalCarbon: total,
			}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]CompanyRankEntry, 0, len(results))
	for _, r := range results {
		if !r.skipped {
			entries = append(entries, r.entry)
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].TotalCarbon < entries[b].TotalCarbon
	})

	page, hasMore := paginate(entries, opts)
	return &CompanyRankingPage{Companies: page, HasMore: hasMore}, nil
}

// userFootprint computes a user's current and previous official totals.
// A user with no questionnaires scores zero; that is data, not a failure.
func (s *rankingService) userFootprint(ctx context.Context, userID primitive.ObjectID) (current, previous float64, err error) {
	cur, prev, err := s.periods.LatestPair(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if cur == nil {
		return 0, 0, nil
	}

	currentScore, err := s.scores.ComputeScore(ctx, cur.ID)
	if err != nil {
		return 0, 0, err
	}
	current = currentScore.Total

	if prev != nil {
		previousScore, err := s.scores.ComputeScore(ctx, prev.ID)
		if err != nil {
			return 0, 0, err
		}
		previous = previousScore.Total
	}
	return current, previous, nil
}

// companyFootprint sums the members' current totals. A member whose score
// cannot be computed is counted as zero without aborting the group.
func (s *rankingService) companyFootprint(ctx context.Context, groupID primitive.ObjectID) (float64, error) {
	memberIDs, err := s.groupRepo.ListMemberIDs(ctx, groupID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, memberID := range memberIDs {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		current, _, err := s.userFootprint(ctx, memberID)
		if err != nil {
			log.Printf("Warning: skipping member %s of group %s: %v", memberID.Hex(), groupID.Hex(), err)
			continue
		}
		total += current
	}
	return total, nil
}

// paginate slices one page out of the fully sorted entry set
func paginate[T any](entries []T, opts repository.PaginationOptions) ([]T, bool) {
	offset := opts.Offset()
	if offset >= len(entries) {
		return []T{}, false
	}
	end := offset + opts.Limit
	hasMore := end < len(entries)
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], hasMore
}
