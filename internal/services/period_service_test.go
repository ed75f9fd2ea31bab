package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLatest(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name         string
		setup        func(f *fixture) primitive.ObjectID // returns the expected ID
		includeDraft bool
		wantNil      bool
	}{
		{
			name:    "no questionnaires returns nil",
			setup:   func(f *fixture) primitive.ObjectID { return primitive.NilObjectID },
			wantNil: true,
		},
		{
			name: "official history only returns the newest",
			setup: func(f *fixture) primitive.ObjectID {
				f.addQuestionnaire(userID, utcDate(2025, time.January, 5, 10), false)
				return f.addQuestionnaire(userID, utcDate(2025, time.February, 5, 10), false)
			},
		},
		{
			name: "draft is ignored without includeDraft",
			setup: func(f *fixture) primitive.ObjectID {
				want := f.addQuestionnaire(userID, utcDate(2025, time.January, 5, 10), false)
				f.addQuestionnaire(userID, utcDate(2025, time.February, 5, 10), true)
				return want
			},
		},
		{
			name: "draft is preferred with includeDraft",
			setup: func(f *fixture) primitive.ObjectID {
				f.addQuestionnaire(userID, utcDate(2025, time.February, 5, 10), false)
				return f.addQuestionnaire(userID, utcDate(2025, time.January, 5, 10), true)
			},
			includeDraft: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			want := tt.setup(f)

			got, err := f.periodSelector().Latest(context.Background(), userID, tt.includeDraft)
			if err != nil {
				t.Fatalf("Latest() error = %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Latest() = %v, want nil", got.ID.Hex())
				}
				return
			}
			if got == nil {
				t.Fatal("Latest() = nil, want a questionnaire")
			}
			if got.ID != want {
				t.Errorf("Latest() = %s, want %s", got.ID.Hex(), want.Hex())
			}
		})
	}
}

func TestLatestPair(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("single official gives nil previous", func(t *testing.T) {
		f := newFixture()
		want := f.addQuestionnaire(userID, utcDate(2025, time.March, 1, 9), false)

		current, previous, err := f.periodSelector().LatestPair(context.Background(), userID)
		if err != nil {
			t.Fatalf("LatestPair() error = %v", err)
		}
		if current == nil || current.ID != want {
			t.Errorf("current = %v, want %s", current, want.Hex())
		}
		if previous != nil {
			t.Errorf("previous = %s, want nil", previous.ID.Hex())
		}
	})

	t.Run("drafts never enter the pair", func(t *testing.T) {
		f := newFixture()
		older := f.addQuestionnaire(userID, utcDate(2025, time.January, 1, 9), false)
		newer := f.addQuestionnaire(userID, utcDate(2025, time.February, 1, 9), false)
		f.addQuestionnaire(userID, utcDate(2025, time.March, 1, 9), true)

		current, previous, err := f.periodSelector().LatestPair(context.Background(), userID)
		if err != nil {
			t.Fatalf("LatestPair() error = %v", err)
		}
		if current == nil || current.ID != newer {
			t.Errorf("current = %v, want %s", current, newer.Hex())
		}
		if previous == nil || previous.ID != older {
			t.Errorf("previous = %v, want %s", previous, older.Hex())
		}
	})

	t.Run("no history gives two nils", func(t *testing.T) {
		f := newFixture()

		current, previous, err := f.periodSelector().LatestPair(context.Background(), userID)
		if err != nil {
			t.Fatalf("LatestPair() error = %v", err)
		}
		if current != nil || previous != nil {
			t.Errorf("got (%v, %v), want (nil, nil)", current, previous)
		}
	})
}

func TestOneLatestPerMonth(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("keeps the newest submission per month", func(t *testing.T) {
		f := newFixture()
		f.addQuestionnaire(userID, utcDate(2025, time.January, 5, 10), false)
		lateJan := f.addQuestionnaire(userID, utcDate(2025, time.January, 20, 10), false)
		feb := f.addQuestionnaire(userID, utcDate(2025, time.February, 2, 10), false)

		got, err := f.periodSelector().OneLatestPerMonth(context.Background(), userID, false)
		if err != nil {
			t.Fatalf("OneLatestPerMonth() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d entries, want 2", len(got))
		}
		if got[0].ID != feb {
			t.Errorf("got[0] = %s, want February entry %s", got[0].ID.Hex(), feb.Hex())
		}
		if got[1].ID != lateJan {
			t.Errorf("got[1] = %s, want late January entry %s", got[1].ID.Hex(), lateJan.Hex())
		}
	})

	t.Run("months are keyed in UTC across the boundary", func(t *testing.T) {
		f := newFixture()
		f.addQuestionnaire(userID, time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC), false)
		f.addQuestionnaire(userID, time.Date(2025, time.April, 1, 0, 10, 0, 0, time.UTC), false)

		got, err := f.periodSelector().OneLatestPerMonth(context.Background(), userID, false)
		if err != nil {
			t.Fatalf("OneLatestPerMonth() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d entries, want 2", len(got))
		}
	})

	t.Run("draft replaces its own month", func(t *testing.T) {
		f := newFixture()
		f.addQuestionnaire(userID, utcDate(2025, time.March, 5, 10), false)
		draft := f.addQuestionnaire(userID, utcDate(2025, time.March, 20, 10), true)

		got, err := f.periodSelector().OneLatestPerMonth(context.Background(), userID, true)
		if err != nil {
			t.Fatalf("OneLatestPerMonth() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d entries, want 1", len(got))
		}
		if got[0].ID != draft {
			t.Errorf("got[0] = %s, want draft %s", got[0].ID.Hex(), draft.Hex())
		}
	})

	t.Run("draft in a fresh month is prepended", func(t *testing.T) {
		f := newFixture()
		official := f.addQuestionnaire(userID, utcDate(2025, time.March, 5, 10), false)
		draft := f.addQuestionnaire(userID, utcDate(2025, time.April, 2, 10), true)

		got, err := f.periodSelector().OneLatestPerMonth(context.Background(), userID, true)
		if err != nil {
			t.Fatalf("OneLatestPerMonth() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d entries, want 2", len(got))
		}
		if got[0].ID != draft || got[1].ID != official {
			t.Errorf("got [%s, %s], want [draft, official]", got[0].ID.Hex(), got[1].ID.Hex())
		}
	})
}
