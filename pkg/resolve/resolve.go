// Package resolve joins measurement rows with display attributes of entities
// which the rows refer to.
package resolve

import (
	"context"
	"sync"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/rest"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the max number of entity fetches in flight.
const DefaultConcurrency = 8

// UnknownName is the name for entities which could not be fetched.
const UnknownName = "Unknown"

// Attrs is a set of display attributes of an entity.
type Attrs struct {
	Name string

	// nil when the entity has no color.
	Color *string
}

// Joined is a row with attributes of the entity it refers.
type Joined[R any] struct {
	Row R
	Attrs
}

// common shape of Pop and Party
type entity struct {
	Id    int     `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// Lookup fetches entities of kind by ids, concurrently.
//
// Ids are deduplicated. Entities which could not be fetched are not in the returned map.
// Fetched entities without name are named UnknownName.
func Lookup(ctx context.Context, c *rest.Client, kind types.Kind, ids []int) map[int]Attrs {
	distinct := map[int]struct{}{}
	for _, id := range ids {
		distinct[id] = struct{}{}
	}

	model := rest.ModelOf(kind)
	found := map[int]Attrs{}
	mu := new(sync.Mutex)

	eg := new(errgroup.Group)
	eg.SetLimit(DefaultConcurrency)
	for id := range distinct {
		eg.Go(func() error {
			e, err := rest.GetById[entity](ctx, c, model, id).Get()
			if err != nil {
				return nil // such entity stays unknown.
			}
			attrs := Attrs{Name: e.Name}
			if attrs.Name == "" {
				attrs.Name = UnknownName
			}
			if e.Color != nil && *e.Color != "" {
				attrs.Color = e.Color
			}

			mu.Lock()
			defer mu.Unlock()
			found[id] = attrs
			return nil
		})
	}
	eg.Wait()
	return found
}

// Resolve attaches attributes of entities of kind to rows.
//
// Each distinct entity is fetched once. Rows keep their order.
// When a row has no reference of kind, or the entity could not be fetched,
// the row gets UnknownName and no color.
func Resolve[R types.Referrer](ctx context.Context, c *rest.Client, kind types.Kind, rows []R) []Joined[R] {
	ids := []int{}
	for _, r := range rows {
		if id := r.ForeignKey(kind); id != nil {
			ids = append(ids, *id)
		}
	}
	found := Lookup(ctx, c, kind, ids)

	joined := make([]Joined[R], len(rows))
	for i, r := range rows {
		joined[i] = Joined[R]{Row: r, Attrs: Attrs{Name: UnknownName}}
		id := r.ForeignKey(kind)
		if id == nil {
			continue
		}
		if attrs, ok := found[*id]; ok {
			joined[i].Attrs = attrs
		}
	}
	return joined
}
