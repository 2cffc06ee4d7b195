package simulation_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/opst/chronodemica/internal/testutils/backend"
	apierr "github.com/opst/chronodemica/pkg/api/errors"
	"github.com/opst/chronodemica/pkg/cmp"
	"github.com/opst/chronodemica/pkg/simulation"
)

func TestVotingBehavior(t *testing.T) {
	t.Run("lines are sorted by percentage, and ids are dropped", func(t *testing.T) {
		be := backend.New(t)
		be.Canned("/simulation/period/3/pop/1/voting-behavior", []map[string]any{
			{"pop_id": 1, "period_id": 3, "party_id": 4, "votes": 10, "pop_name": "Workers", "party_name": "B", "percentage": 20.5},
			{"pop_id": 1, "period_id": 3, "party_id": 5, "votes": 30, "pop_name": "Workers", "party_name": "A", "percentage": 61.5},
			{"pop_id": 1, "period_id": 3, "party_id": 6, "votes": 0, "pop_name": "Workers", "party_name": "C"},
			{"pop_id": 1, "period_id": 3, "party_id": 7, "votes": 5, "pop_name": "Workers", "party_name": "D", "percentage": 18},
		})

		lines := simulation.VotingBehavior(context.Background(), be.Client(t), 3, 1).OrFatal(t)

		names := []string{}
		for _, l := range lines {
			names = append(names, l.PartyName)
		}
		if !cmp.SliceEq(names, []string{"A", "B", "D", "C"}) {
			t.Errorf("order: %v", names)
		}
		if lines[0].PopName != "Workers" {
			t.Errorf("pop name: %s", lines[0].PopName)
		}
	})

	t.Run("failures are passed through", func(t *testing.T) {
		be := backend.New(t)
		be.FailOn(http.MethodGet, "/simulation/period/3/pop/1/voting-behavior", http.StatusNotFound, "Pop or Period not found")

		r := simulation.VotingBehavior(context.Background(), be.Client(t), 3, 1)
		if cat, ok := r.Category(); !ok || cat != apierr.NotFound {
			t.Errorf("category: %s (failed = %v)", cat, ok)
		}
	})
}
