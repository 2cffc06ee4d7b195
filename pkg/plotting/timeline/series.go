package timeline

import (
	"context"
	"strconv"

	apierr "github.com/opst/chronodemica/pkg/api/errors"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/simulation"
	"golang.org/x/sync/errgroup"
)

// fetchPeriodsAnd fetches periods and entities of model concurrently.
func fetchPeriodsAnd[E any](ctx context.Context, c *rest.Client, model rest.Model) ([]types.Period, []E, error) {
	var periods []types.Period
	var entities []E

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p, err := fetchPeriods(gctx, c)
		periods = p
		return err
	})
	eg.Go(func() error {
		e, err := rest.ListAll[E](gctx, c, model, rest.ListOptions{}).Get()
		entities = e
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return periods, entities, nil
}

// PartyResults traces election results (percentage) of each party.
//
// Parties get no points for periods out of their lifetime.
// Parties without color are colored from the palette, by their position in the party list.
func PartyResults(ctx context.Context, c *rest.Client, options ...Option) Dataset {
	conf := newConfig(options)

	periods, parties, err := fetchPeriodsAnd[types.Party](ctx, c, rest.Party)
	if err != nil {
		conf.logger.Printf("cannot fetch periods or parties: %s", err)
		return Empty()
	}

	perPeriod, err := fetchRows(ctx, conf, periods, func(ctx context.Context, p types.Period) ([]types.ElectionResult, error) {
		return rest.ListAll[types.ElectionResult](ctx, c, rest.ElectionResult, rest.ListOptions{
			Filters: map[string]any{"period_id": p.Id},
		}).Get()
	})
	if err != nil {
		conf.logger.Printf("cannot fetch election results: %s", err)
		return Empty()
	}

	return assemble(periods, perPeriod, parties, series[types.Party, types.ElectionResult]{
		key:  func(p types.Party) string { return strconv.Itoa(p.Id) },
		name: func(p types.Party) string { return p.Name },
		color: func(p types.Party, index int) string {
			if p.Color != nil && *p.Color != "" {
				return *p.Color
			}
			return PaletteColor(conf.palette, index)
		},
		valid: types.Party.IsValidInPeriod,
		value: func(p types.Party, rows []types.ElectionResult) *float64 {
			for _, r := range rows {
				if r.PartyId == p.Id {
					return r.Percentage
				}
			}
			return nil
		},
	})
}

// PopVotingBehavior traces how the pop would vote for each party.
//
// Parties are identified by their names, in order of first appearance.
// Periods where the pop or the period is not known to the simulation are gaps.
func PopVotingBehavior(ctx context.Context, c *rest.Client, popId int, options ...Option) Dataset {
	conf := newConfig(options)

	periods, err := fetchPeriods(ctx, c)
	if err != nil {
		conf.logger.Printf("cannot fetch periods: %s", err)
		return Empty()
	}

	perPeriod, err := fetchRows(ctx, conf, periods, func(ctx context.Context, p types.Period) ([]types.VotingBehavior, error) {
		r := simulation.VotingBehavior(ctx, c, p.Id, popId)
		if cat, failed := r.Category(); failed && cat == apierr.NotFound {
			return []types.VotingBehavior{}, nil
		}
		return r.Get()
	})
	if err != nil {
		conf.logger.Printf("cannot fetch voting behavior of pop %d: %s", popId, err)
		return Empty()
	}

	names := []string{}
	seen := map[string]struct{}{}
	for _, rows := range perPeriod {
		for _, r := range rows {
			if _, ok := seen[r.PartyName]; ok {
				continue
			}
			seen[r.PartyName] = struct{}{}
			names = append(names, r.PartyName)
		}
	}

	return assemble(periods, perPeriod, names, series[string, types.VotingBehavior]{
		key:   func(name string) string { return name },
		name:  func(name string) string { return name },
		color: func(_ string, index int) string { return PaletteColor(conf.palette, index) },
		valid: always[string],
		value: func(name string, rows []types.VotingBehavior) *float64 {
			for _, r := range rows {
				if r.PartyName == name {
					return r.Percentage
				}
			}
			return nil
		},
	})
}

// PopulationComposition traces the size of each pop.
//
// Pops are colored from the palette, by their position in the pop list.
func PopulationComposition(ctx context.Context, c *rest.Client, options ...Option) Dataset {
	conf := newConfig(options)

	periods, pops, err := fetchPeriodsAnd[types.Pop](ctx, c, rest.Pop)
	if err != nil {
		conf.logger.Printf("cannot fetch periods or pops: %s", err)
		return Empty()
	}

	perPeriod, err := fetchRows(ctx, conf, periods, func(ctx context.Context, p types.Period) ([]types.PopPeriod, error) {
		return rest.ListAll[types.PopPeriod](ctx, c, rest.PopPeriod, rest.ListOptions{
			Filters: map[string]any{"period_id": p.Id},
		}).Get()
	})
	if err != nil {
		conf.logger.Printf("cannot fetch pop periods: %s", err)
		return Empty()
	}

	return assemble(periods, perPeriod, pops, series[types.Pop, types.PopPeriod]{
		key:   func(p types.Pop) string { return strconv.Itoa(p.Id) },
		name:  func(p types.Pop) string { return p.Name },
		color: func(_ types.Pop, index int) string { return PaletteColor(conf.palette, index) },
		valid: always[types.Pop],
		value: func(p types.Pop, rows []types.PopPeriod) *float64 {
			for _, r := range rows {
				if r.PopId == p.Id {
					return float(r.PopSize)
				}
			}
			return nil
		},
	})
}
