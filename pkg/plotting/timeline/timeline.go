// Package timeline builds per-entity series over periods.
//
// A point is omitted when the entity does not exist in the period.
// A point with nil Y is a gap: the entity exists, but nothing is measured.
package timeline

import (
	"context"
	"io"
	"log"
	"strconv"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/rest"
)

// Plotly's default qualitative colors.
var DefaultPalette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

type Point struct {
	// year of the period, as text
	X string `json:"x"`

	// nil means gap.
	Y *float64 `json:"y"`
}

type Trace struct {
	// identifies the entity: party id, party name or pop id.
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

type Dataset struct {
	Traces []Trace `json:"traces"`

	// periods in chronological order
	Periods []types.Period `json:"periods"`
}

func Empty() Dataset {
	return Dataset{Traces: []Trace{}, Periods: []types.Period{}}
}

// Progress is notified after rows of each period are fetched.
type Progress interface {
	Fetched(period types.Period, done int, total int)
}

type config struct {
	palette  []string
	progress Progress
	logger   *log.Logger
}

type Option func(*config) *config

// WithPalette replaces DefaultPalette. Empty palette is ignored.
func WithPalette(palette []string) Option {
	return func(c *config) *config {
		if len(palette) != 0 {
			c.palette = palette
		}
		return c
	}
}

func WithProgress(p Progress) Option {
	return func(c *config) *config {
		c.progress = p
		return c
	}
}

// WithLogger sets logger to report failures.
func WithLogger(l *log.Logger) Option {
	return func(c *config) *config {
		c.logger = l
		return c
	}
}

func newConfig(options []Option) *config {
	c := &config{
		palette: DefaultPalette,
		logger:  log.New(io.Discard, "", log.LstdFlags),
	}
	for _, o := range options {
		c = o(c)
	}
	return c
}

// PaletteColor picks a color for the index-th entity, cycling palette.
func PaletteColor(palette []string, index int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[index%len(palette)]
}

// series describes how to trace entities E over rows R fetched per period.
type series[E any, R any] struct {
	key   func(E) string
	name  func(E) string
	color func(e E, index int) string

	// whether the entity exists in the period.
	valid func(E, types.Period) bool

	// value of the entity in rows of a period. nil if no row matches.
	value func(E, []R) *float64
}

// fetchRows fetches rows for each period, one by one in the order of periods.
func fetchRows[R any](
	ctx context.Context, conf *config, periods []types.Period,
	fetch func(context.Context, types.Period) ([]R, error),
) ([][]R, error) {
	perPeriod := make([][]R, len(periods))
	for i, p := range periods {
		rows, err := fetch(ctx, p)
		if err != nil {
			return nil, err
		}
		perPeriod[i] = rows
		if conf.progress != nil {
			conf.progress.Fetched(p, i+1, len(periods))
		}
	}
	return perPeriod, nil
}

// assemble traces. perPeriod[i] are rows of periods[i].
func assemble[E any, R any](periods []types.Period, perPeriod [][]R, entities []E, s series[E, R]) Dataset {
	traces := []Trace{}
	for index, e := range entities {
		points := []Point{}
		for i, p := range periods {
			if !s.valid(e, p) {
				continue
			}
			points = append(points, Point{X: strconv.Itoa(p.Year), Y: s.value(e, perPeriod[i])})
		}
		if len(points) == 0 {
			continue
		}
		traces = append(traces, Trace{
			Key:    s.key(e),
			Name:   s.name(e),
			Color:  s.color(e, index),
			Points: points,
		})
	}

	ps := make([]types.Period, len(periods))
	copy(ps, periods)
	return Dataset{Traces: traces, Periods: ps}
}

func fetchPeriods(ctx context.Context, c *rest.Client) ([]types.Period, error) {
	periods, err := rest.ListAll[types.Period](ctx, c, rest.Period, rest.ListOptions{}).Get()
	if err != nil {
		return nil, err
	}
	return types.SortPeriods(periods), nil
}

func always[E any](E, types.Period) bool {
	return true
}

func float(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
