package resolve_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/opst/chronodemica/internal/testutils/backend"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/cmp"
	"github.com/opst/chronodemica/pkg/resolve"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/pointer"
)

func TestResolve(t *testing.T) {
	t.Run("each entity is fetched once, and failed ones are unknown", func(t *testing.T) {
		be := backend.New(t)
		be.Seed(rest.Pop, types.Pop{Id: 1, Name: "A"}, types.Pop{Id: 2, Name: "B"})
		be.FailOn(http.MethodGet, "/pop/2", http.StatusInternalServerError, "boom")

		rows := []types.PopPeriod{{Id: 10, PopId: 1}, {Id: 11, PopId: 2}, {Id: 12, PopId: 1}}
		actual := resolve.Resolve(context.Background(), be.Client(t), types.PopKind, rows)

		names := []string{}
		ids := []int{}
		for _, j := range actual {
			names = append(names, j.Name)
			ids = append(ids, j.Row.Id)
		}
		if !cmp.SliceEq(names, []string{"A", resolve.UnknownName, "A"}) {
			t.Errorf("names: %v", names)
		}
		if !cmp.SliceEq(ids, []int{10, 11, 12}) {
			t.Errorf("order is not kept: %v", ids)
		}
		if n := be.CallsTo("GET /pop/"); n != 2 {
			t.Errorf("fetches: %d (%v)", n, be.Calls())
		}
	})

	t.Run("rows without reference are unknown, and are not fetched", func(t *testing.T) {
		be := backend.New(t)
		be.Seed(rest.Party, types.Party{Id: 4, Name: "GRN", Color: pointer.Ref("#00ff00")})

		rows := []types.PartyPeriod{{Id: 1, PartyId: 4}, {Id: 2}}
		actual := resolve.Resolve(context.Background(), be.Client(t), types.PartyKind, rows)

		if len(actual) != 2 {
			t.Fatalf("rows: %v", actual)
		}
		if actual[0].Name != "GRN" || !cmp.PEqEq(actual[0].Color, pointer.Ref("#00ff00")) {
			t.Errorf("first: %+v", actual[0].Attrs)
		}
		if actual[1].Name != resolve.UnknownName || actual[1].Color != nil {
			t.Errorf("second: %+v", actual[1].Attrs)
		}
		if !cmp.SliceEq(be.Calls(), []string{"GET /party/4"}) {
			t.Errorf("calls: %v", be.Calls())
		}
	})

	t.Run("entities without color have nil color", func(t *testing.T) {
		be := backend.New(t)
		be.Seed(rest.Party, types.Party{Id: 4, Name: "X", Color: pointer.Ref("")})

		actual := resolve.Resolve(
			context.Background(), be.Client(t), types.PartyKind,
			[]types.PartyPeriod{{PartyId: 4}},
		)
		if actual[0].Name != "X" || actual[0].Color != nil {
			t.Errorf("attrs: %+v", actual[0].Attrs)
		}
	})

	t.Run("entities without name are unknown, with their colors", func(t *testing.T) {
		be := backend.New(t)
		be.Seed(rest.Party, types.Party{Id: 4, Name: "", Color: pointer.Ref("#0000ff")})

		actual := resolve.Resolve(
			context.Background(), be.Client(t), types.PartyKind,
			[]types.PartyPeriod{{PartyId: 4}},
		)
		if actual[0].Name != resolve.UnknownName || !cmp.PEqEq(actual[0].Color, pointer.Ref("#0000ff")) {
			t.Errorf("attrs: %+v", actual[0].Attrs)
		}
	})

	t.Run("empty rows make no request", func(t *testing.T) {
		be := backend.New(t)
		actual := resolve.Resolve(context.Background(), be.Client(t), types.PopKind, []types.PopPeriod{})
		if len(actual) != 0 || len(be.Calls()) != 0 {
			t.Errorf("rows: %v, calls: %v", actual, be.Calls())
		}
	})
}
