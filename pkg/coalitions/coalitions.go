// Package coalitions enumerates combinations of parties holding a majority of a parliament.
package coalitions

import (
	"context"
	"math"
	"sort"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/plotting/election"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/combination"
	"github.com/opst/chronodemica/pkg/utils/pointer"
	"golang.org/x/sync/errgroup"
)

// Member is a party in a parliament.
type Member struct {
	PartyId      int     `json:"party_id"`
	Name         string  `json:"name"`
	FullName     string  `json:"full_name"`
	Color        *string `json:"color,omitempty"`
	Seats        int     `json:"seats"`
	InGovernment bool    `json:"in_government"`

	// position of the party in the period. nil when unknown.
	Social   *int `json:"social_orientation,omitempty"`
	Economic *int `json:"economic_orientation,omitempty"`
}

// Coalition is a combination of 2 or more members.
type Coalition struct {
	Parties    []Member `json:"parties"`
	TotalSeats int      `json:"total_seats"`

	// sum and mean of distances of all pairs in the coalition.
	// Pairs with a member of unknown position are not counted.
	TotalDistance   float64 `json:"total_distance"`
	AverageDistance float64 `json:"average_distance"`

	// all members are in the government
	IsGovernment bool `json:"is_government"`
}

// Distance is the euclidean distance of positions of a and b.
//
// ok is false when either position is unknown.
func Distance(a, b Member) (d float64, ok bool) {
	if a.Social == nil || a.Economic == nil || b.Social == nil || b.Economic == nil {
		return 0, false
	}
	ds := float64(*a.Social - *b.Social)
	de := float64(*a.Economic - *b.Economic)
	return math.Sqrt(ds*ds + de*de), true
}

// Majorities lists coalitions which have more than half of seats.
//
// Members are ordered by seats, descending. Coalitions are ordered by
// total distance, ascending. Equal distances keep the order of enumeration:
// smaller coalitions first, then by members' seats.
func Majorities(members []Member) []Coalition {
	sorted := make([]Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seats > sorted[j].Seats })

	parliament := 0
	for _, m := range sorted {
		parliament += m.Seats
	}

	ret := []Coalition{}
	for _, parties := range combination.Subsets(sorted, 2) {
		if co := coalition(parties); float64(parliament)/2 < float64(co.TotalSeats) {
			ret = append(ret, co)
		}
	}

	sort.SliceStable(ret, func(i, j int) bool { return ret[i].TotalDistance < ret[j].TotalDistance })
	return ret
}

func coalition(parties []Member) Coalition {
	co := Coalition{Parties: parties, IsGovernment: true}
	for _, m := range parties {
		co.TotalSeats += m.Seats
		co.IsGovernment = co.IsGovernment && m.InGovernment
	}

	pairs := 0
	for i := range co.Parties {
		for j := i + 1; j < len(co.Parties); j++ {
			if d, ok := Distance(co.Parties[i], co.Parties[j]); ok {
				co.TotalDistance += d
				pairs += 1
			}
		}
	}
	if 0 < pairs {
		co.AverageDistance = co.TotalDistance / float64(pairs)
	}
	return co
}

// Parliament fetches members of the parliament elected in the period.
//
// Results out of parliament, and those of reserved party ids, are not members.
func Parliament(ctx context.Context, c *rest.Client, periodId int) ([]Member, error) {
	var enriched []types.EnrichedElectionResult
	var partyPeriods []types.PartyPeriod

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		e, err := election.Enrich(gctx, c, periodId)
		enriched = e
		return err
	})
	eg.Go(func() error {
		pp, err := rest.ListAll[types.PartyPeriod](gctx, c, rest.PartyPeriod, rest.ListOptions{
			Filters: map[string]any{"period_id": periodId},
		}).Get()
		partyPeriods = pp
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	positions := map[int]types.PartyPeriod{}
	for _, pp := range partyPeriods {
		positions[pp.PartyId] = pp
	}

	members := []Member{}
	for _, e := range enriched {
		if types.IsSentinel(e.PartyId) || !pointer.Or(e.InParliament, false) {
			continue
		}
		m := Member{
			PartyId:      e.PartyId,
			Name:         e.Name,
			FullName:     e.FullName,
			Color:        e.Color,
			Seats:        pointer.Or(e.Seats, 0),
			InGovernment: pointer.Or(e.InGovernment, false),
		}
		if pp, ok := positions[e.PartyId]; ok {
			m.Economic, m.Social = pp.Coordinates()
		}
		members = append(members, m)
	}
	return members, nil
}

// ForPeriod lists majority coalitions of the parliament elected in the period.
func ForPeriod(ctx context.Context, c *rest.Client, periodId int) ([]Coalition, error) {
	members, err := Parliament(ctx, c, periodId)
	if err != nil {
		return nil, err
	}
	return Majorities(members), nil
}
