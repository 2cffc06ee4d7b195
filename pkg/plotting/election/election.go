// Package election builds bar charts of an election.
package election

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"sort"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/pointer"
	"golang.org/x/sync/errgroup"
)

// DefaultColor is for bars of parties without color.
const DefaultColor = "#525252"

// BarData is a set of parallel arrays for a bar chart, and the turnout.
type BarData struct {
	Labels      []string  `json:"labels"`
	Percentages []float64 `json:"percentages"`
	Texts       []string  `json:"texts"`
	Colors      []string  `json:"colors"`
	FullNames   []string  `json:"full_names"`

	// 100 - percentage of non-voters. 0 when non-voters are unknown.
	Turnout float64 `json:"turnout"`
}

func Empty() BarData {
	return BarData{
		Labels:      []string{},
		Percentages: []float64{},
		Texts:       []string{},
		Colors:      []string{},
		FullNames:   []string{},
	}
}

// Build lays out bars of results of one period.
//
// Non-voters are not a bar, but the turnout. Parties are ordered by
// percentage, descending, and small parties come last.
func Build(results []types.EnrichedElectionResult) BarData {
	bd := Empty()

	parties := []types.EnrichedElectionResult{}
	var small *types.EnrichedElectionResult
	for i := range results {
		r := results[i]
		switch {
		case r.PartyId == types.NonVotersId:
			bd.Turnout = 100 - r.PercentageOr(0)
		case r.PartyId == types.SmallPartiesId:
			small = &r
		case 0 < r.PartyId:
			parties = append(parties, r)
		}
	}

	sort.SliceStable(parties, func(i, j int) bool {
		return parties[i].PercentageOr(0) > parties[j].PercentageOr(0)
	})
	if small != nil {
		parties = append(parties, *small)
	}

	for _, r := range parties {
		pct := r.PercentageOr(0)
		bd.Labels = append(bd.Labels, r.Name)
		bd.Percentages = append(bd.Percentages, pct)
		bd.Texts = append(bd.Texts, fmt.Sprintf("%.1f%%", pct))
		bd.Colors = append(bd.Colors, pointer.Or(r.Color, DefaultColor))
		bd.FullNames = append(bd.FullNames, r.FullName)
	}
	return bd
}

// Enrich fetches results of the period and joins them with parties.
//
// Results and parties are fetched concurrently.
func Enrich(ctx context.Context, c *rest.Client, periodId int) ([]types.EnrichedElectionResult, error) {
	var results []types.ElectionResult
	var parties []types.Party

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		r, err := rest.ListAll[types.ElectionResult](gctx, c, rest.ElectionResult, rest.ListOptions{
			Filters: map[string]any{"period_id": periodId},
		}).Get()
		results = r
		return err
	})
	eg.Go(func() error {
		p, err := rest.ListAll[types.Party](gctx, c, rest.Party, rest.ListOptions{}).Get()
		parties = p
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	byId := map[int]*types.Party{}
	for i := range parties {
		byId[parties[i].Id] = &parties[i]
	}

	enriched := make([]types.EnrichedElectionResult, len(results))
	for i, r := range results {
		enriched[i] = types.Enrich(r, byId[r.PartyId])
	}
	return enriched, nil
}

type Option func(*config) *config

type config struct {
	logger *log.Logger
}

// WithLogger sets logger to report failures.
func WithLogger(l *log.Logger) Option {
	return func(c *config) *config {
		c.logger = l
		return c
	}
}

func newConfig(options []Option) *config {
	c := &config{logger: log.New(io.Discard, "", log.LstdFlags)}
	for _, o := range options {
		c = o(c)
	}
	return c
}

// ForPeriod builds bars of the election in the period.
//
// When results cannot be fetched, it returns Empty().
func ForPeriod(ctx context.Context, c *rest.Client, periodId int, options ...Option) BarData {
	conf := newConfig(options)
	enriched, err := Enrich(ctx, c, periodId)
	if err != nil {
		conf.logger.Printf("cannot fetch election results of period %d: %s", periodId, err)
		return Empty()
	}
	return Build(enriched)
}

// Change is a result with the result of the same party in the previous period.
type Change struct {
	types.EnrichedElectionResult

	// nil when there is no previous period, or the party had no result in it.
	PreviousPercentage *float64 `json:"previous_percentage"`

	// percentage points from the previous period, rounded to 2 decimals.
	ChangePercentage *float64 `json:"change_percentage"`
}

// WithChanges fetches results of the period, with changes from the previous period.
//
// The previous period is the latest one before the period, by year.
func WithChanges(ctx context.Context, c *rest.Client, periodId int) ([]Change, error) {
	var enriched []types.EnrichedElectionResult
	var periods []types.Period

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		e, err := Enrich(gctx, c, periodId)
		enriched = e
		return err
	})
	eg.Go(func() error {
		p, err := rest.ListAll[types.Period](gctx, c, rest.Period, rest.ListOptions{}).Get()
		periods = p
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	previous := map[int]*float64{}
	if prev, ok := previousPeriod(periods, periodId); ok {
		results, err := rest.ListAll[types.ElectionResult](ctx, c, rest.ElectionResult, rest.ListOptions{
			Filters: map[string]any{"period_id": prev.Id},
		}).Get()
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			previous[r.PartyId] = r.Percentage
		}
	}

	changes := make([]Change, len(enriched))
	for i, e := range enriched {
		ch := Change{EnrichedElectionResult: e, PreviousPercentage: previous[e.PartyId]}
		if ch.PreviousPercentage != nil && e.Percentage != nil {
			d := math.Round((*e.Percentage-*ch.PreviousPercentage)*100) / 100
			ch.ChangePercentage = &d
		}
		changes[i] = ch
	}
	return changes, nil
}

func previousPeriod(periods []types.Period, periodId int) (types.Period, bool) {
	sorted := types.SortPeriods(periods)
	for i, p := range sorted {
		if p.Id == periodId {
			if i == 0 {
				return types.Period{}, false
			}
			return sorted[i-1], true
		}
	}
	return types.Period{}, false
}
