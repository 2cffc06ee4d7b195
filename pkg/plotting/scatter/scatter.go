// Package scatter projects entities of a period onto the political compass.
package scatter

import (
	"context"
	"io"
	"log"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/resolve"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/pointer"
)

// Scale is a rule to convert a value into marker size.
type Scale struct {
	Base   float64
	Factor float64
	Max    float64
}

var DefaultScale = Scale{Base: 8, Factor: 1, Max: 50}

// ScaleFrom converts profile setting into Scale. Zero setting means DefaultScale.
func ScaleFrom(s profiles.SizeScale) Scale {
	if s.IsZero() {
		return DefaultScale
	}
	return Scale{Base: s.Base, Factor: s.Factor, Max: s.Max}
}

// Size returns clamp(value*Factor + Base, Base, Max).
func (s Scale) Size(value float64) float64 {
	return min(max(value*s.Factor+s.Base, s.Base), s.Max)
}

// OrientationData is a set of parallel arrays for a scatter plot.
//
// x is the economic orientation and y is the social one.
type OrientationData struct {
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Text   []string  `json:"text"`
	Size   []float64 `json:"size"`
	Colors []string  `json:"colors"`
}

func Empty() OrientationData {
	return OrientationData{
		X:      []float64{},
		Y:      []float64{},
		Text:   []string{},
		Size:   []float64{},
		Colors: []string{},
	}
}

func (od OrientationData) Len() int {
	return len(od.X)
}

// Row is a per-period row of an entity placed on the compass.
type Row interface {
	types.Referrer
	Coordinates() (economic *int, social *int)
}

type config struct {
	scale  *Scale
	logger *log.Logger
}

type Option func(*config) *config

// WithScale overrides the default scale of the entity kind.
func WithScale(s Scale) Option {
	return func(c *config) *config {
		c.scale = &s
		return c
	}
}

// WithScaling overrides scales with profile settings.
func WithScaling(s profiles.Scaling, kind types.Kind) Option {
	switch kind {
	case types.PartyKind:
		return WithScale(ScaleFrom(s.Party))
	default:
		return WithScale(ScaleFrom(s.Pop))
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
	c := &config{logger: log.New(io.Discard, "", log.LstdFlags)}
	for _, o := range options {
		c = o(c)
	}
	return c
}

// Parties projects parties in the period. Marker size is the political strength.
func Parties(ctx context.Context, c *rest.Client, periodId int, options ...Option) OrientationData {
	return Project(
		ctx, c, rest.PartyPeriod, types.PartyKind, periodId,
		func(pp types.PartyPeriod) *int { return pp.PoliticalStrength },
		options...,
	)
}

// Pops projects populations in the period. Marker size is the population size.
func Pops(ctx context.Context, c *rest.Client, periodId int, options ...Option) OrientationData {
	return Project(
		ctx, c, rest.PopPeriod, types.PopKind, periodId,
		func(pp types.PopPeriod) *int { return pp.PopSize },
		options...,
	)
}

// Project fetches rows of model in the period, resolves entities of kind
// and projects them.
//
// Failures do not propagate. When rows cannot be fetched, it returns Empty().
func Project[R Row](
	ctx context.Context, c *rest.Client,
	model rest.Model, kind types.Kind, periodId int,
	sizeOf func(R) *int,
	options ...Option,
) OrientationData {
	conf := newConfig(options)
	scale := DefaultScale
	if conf.scale != nil {
		scale = *conf.scale
	}

	rows, err := rest.List[R](ctx, c, model, rest.ListOptions{
		Filters: map[string]any{"period_id": periodId},
	}).Get()
	if err != nil {
		conf.logger.Printf("cannot fetch %s of period %d: %s", model, periodId, err)
		return Empty()
	}

	return Build(resolve.Resolve(ctx, c, kind, rows), sizeOf, scale)
}

// Build projects joined rows. Missing numbers are read as 0.
func Build[R Row](rows []resolve.Joined[R], sizeOf func(R) *int, scale Scale) OrientationData {
	od := Empty()
	for _, j := range rows {
		economic, social := j.Row.Coordinates()
		od.X = append(od.X, float64(pointer.Or(economic, 0)))
		od.Y = append(od.Y, float64(pointer.Or(social, 0)))
		od.Text = append(od.Text, j.Name)
		od.Size = append(od.Size, scale.Size(float64(pointer.Or(sizeOf(j.Row), 0))))
		od.Colors = append(od.Colors, pointer.Or(j.Color, ""))
	}
	return od
}
