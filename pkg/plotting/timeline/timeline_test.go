package timeline_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/opst/chronodemica/internal/testutils/backend"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/cmp"
	"github.com/opst/chronodemica/pkg/plotting/timeline"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/pointer"
)

// point as (x, y) text for comparison. nil y is "-".
func pointsOf(tr timeline.Trace) []string {
	ret := []string{}
	for _, p := range tr.Points {
		y := "-"
		if p.Y != nil {
			y = jsonOf(*p.Y)
		}
		ret = append(ret, p.X+":"+y)
	}
	return ret
}

func jsonOf(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(buf)
}

func seedElection(be *backend.Backend) {
	// out of order, to check sorting by year
	be.Seed(
		rest.Period,
		types.Period{Id: 3, Year: 2010},
		types.Period{Id: 1, Year: 1998},
		types.Period{Id: 2, Year: 2001},
	)
	be.Seed(
		rest.Party,
		types.Party{Id: 1, Name: "OLD", Color: pointer.Ref("#111111"), ValidFrom: pointer.Ref(1990), ValidUntil: pointer.Ref(2005)},
		types.Party{Id: 2, Name: "NEW", ValidFrom: pointer.Ref(2009)},
		types.Party{Id: 3, Name: "NEVER", ValidUntil: pointer.Ref(1900)},
	)
	be.Seed(
		rest.ElectionResult,
		types.ElectionResult{PeriodId: 1, PartyId: 1, Percentage: pointer.Ref(40.5)},
		// no result of party 1 in period 2: a gap.
		types.ElectionResult{PeriodId: 3, PartyId: 2, Percentage: pointer.Ref(0.0)},
		types.ElectionResult{PeriodId: 3, PartyId: types.NonVotersId, Percentage: pointer.Ref(30.0)},
	)
}

func TestPartyResults(t *testing.T) {
	t.Run("parties are traced in their lifetime, with gaps", func(t *testing.T) {
		be := backend.New(t)
		seedElection(be)

		actual := timeline.PartyResults(context.Background(), be.Client(t))

		years := []int{}
		for _, p := range actual.Periods {
			years = append(years, p.Year)
		}
		if !cmp.SliceEq(years, []int{1998, 2001, 2010}) {
			t.Errorf("periods: %v", years)
		}

		if len(actual.Traces) != 2 {
			t.Fatalf("traces: %+v", actual.Traces)
		}

		old := actual.Traces[0]
		if old.Key != "1" || old.Name != "OLD" || old.Color != "#111111" {
			t.Errorf("trace of OLD: %+v", old)
		}
		// 2010 is omitted: OLD was dissolved in 2005.
		if actual := pointsOf(old); !cmp.SliceEq(actual, []string{"1998:40.5", "2001:-"}) {
			t.Errorf("points of OLD: %v", actual)
		}

		recent := actual.Traces[1]
		if recent.Key != "2" || recent.Color != timeline.DefaultPalette[1] {
			t.Errorf("trace of NEW: %+v", recent)
		}
		// zero is a value, not a gap.
		if actual := pointsOf(recent); !cmp.SliceEq(actual, []string{"2010:0"}) {
			t.Errorf("points of NEW: %v", actual)
		}
	})

	t.Run("building twice gives identical output", func(t *testing.T) {
		be := backend.New(t)
		seedElection(be)
		client := be.Client(t)

		first := jsonOf(timeline.PartyResults(context.Background(), client))
		second := jsonOf(timeline.PartyResults(context.Background(), client))
		if first != second {
			t.Errorf("outputs differ:\n%s\n%s", first, second)
		}
	})

	t.Run("rows are fetched per period, in chronological order", func(t *testing.T) {
		be := backend.New(t)
		seedElection(be)
		progress := &recorder{}

		timeline.PartyResults(context.Background(), be.Client(t), timeline.WithProgress(progress))

		if !cmp.SliceEq(progress.years, []int{1998, 2001, 2010}) {
			t.Errorf("progress: %v", progress.years)
		}
		if !cmp.SliceEq(progress.done, []int{1, 2, 3}) || progress.total != 3 {
			t.Errorf("progress: done = %v, total = %d", progress.done, progress.total)
		}
		if n := be.CallsTo("GET /election-result"); n != 3 {
			t.Errorf("fetches of election results: %d", n)
		}
	})

	t.Run("when any fetch fails, whole dataset is empty", func(t *testing.T) {
		be := backend.New(t)
		seedElection(be)
		be.FailOn(http.MethodGet, "/election-result", http.StatusInternalServerError, "database error")

		actual := timeline.PartyResults(context.Background(), be.Client(t))
		if len(actual.Traces) != 0 || len(actual.Periods) != 0 {
			t.Errorf("not empty: %+v", actual)
		}
		if actual.Traces == nil || actual.Periods == nil {
			t.Errorf("empty dataset should have empty arrays: %+v", actual)
		}
	})
}

type recorder struct {
	years []int
	done  []int
	total int
}

func (r *recorder) Fetched(p types.Period, done int, total int) {
	r.years = append(r.years, p.Year)
	r.done = append(r.done, done)
	r.total = total
}

func TestPopVotingBehavior(t *testing.T) {
	be := backend.New(t)
	be.Seed(rest.Period, types.Period{Id: 1, Year: 2000}, types.Period{Id: 2, Year: 2004}, types.Period{Id: 3, Year: 2008})
	be.Canned("/simulation/period/1/pop/7/voting-behavior", []types.VotingBehavior{
		{PopName: "W", PartyName: "A", Percentage: pointer.Ref(30.0)},
		{PopName: "W", PartyName: "B", Percentage: pointer.Ref(70.0)},
	})
	// period 2 is not known to the simulation (404): a gap.
	be.Canned("/simulation/period/3/pop/7/voting-behavior", []types.VotingBehavior{
		{PopName: "W", PartyName: "C", Percentage: pointer.Ref(100.0)},
	})

	actual := timeline.PopVotingBehavior(
		context.Background(), be.Client(t), 7,
		timeline.WithPalette([]string{"red", "blue"}),
	)

	keys := []string{}
	colors := []string{}
	for _, tr := range actual.Traces {
		keys = append(keys, tr.Key)
		colors = append(colors, tr.Color)
	}
	// ordered by first appearance. In period 1, B comes first as it has more percentage.
	if !cmp.SliceEq(keys, []string{"B", "A", "C"}) {
		t.Errorf("traces: %v", keys)
	}
	if !cmp.SliceEq(colors, []string{"red", "blue", "red"}) {
		t.Errorf("colors: %v", colors)
	}
	if points := pointsOf(actual.Traces[2]); !cmp.SliceEq(points, []string{"2000:-", "2004:-", "2008:100"}) {
		t.Errorf("points of C: %v", points)
	}
}

func TestPopulationComposition(t *testing.T) {
	be := backend.New(t)
	be.Seed(rest.Period, types.Period{Id: 1, Year: 2000}, types.Period{Id: 2, Year: 2004})
	be.Seed(rest.Pop, types.Pop{Id: 5, Name: "Workers"}, types.Pop{Id: 6, Name: "Farmers"})
	be.Seed(
		rest.PopPeriod,
		types.PopPeriod{PopId: 5, PeriodId: 1, PopSize: pointer.Ref(120)},
		types.PopPeriod{PopId: 5, PeriodId: 2, PopSize: pointer.Ref(150)},
		types.PopPeriod{PopId: 6, PeriodId: 2},
	)

	actual := timeline.PopulationComposition(context.Background(), be.Client(t))

	if len(actual.Traces) != 2 {
		t.Fatalf("traces: %+v", actual.Traces)
	}
	if tr := actual.Traces[0]; tr.Name != "Workers" || tr.Color != timeline.DefaultPalette[0] {
		t.Errorf("workers: %+v", tr)
	}
	if points := pointsOf(actual.Traces[0]); !cmp.SliceEq(points, []string{"2000:120", "2004:150"}) {
		t.Errorf("points of workers: %v", points)
	}
	if tr := actual.Traces[1]; tr.Key != "6" || tr.Color != timeline.DefaultPalette[1] {
		t.Errorf("farmers: %+v", tr)
	}
	if points := pointsOf(actual.Traces[1]); !cmp.SliceEq(points, []string{"2000:-", "2004:-"}) {
		t.Errorf("points of farmers: %v", points)
	}
}

func TestPaletteColor(t *testing.T) {
	palette := []string{"a", "b", "c"}
	for index, expected := range map[int]string{0: "a", 2: "c", 3: "a", 7: "b"} {
		if actual := timeline.PaletteColor(palette, index); actual != expected {
			t.Errorf("PaletteColor(%d) = %s, expected %s", index, actual, expected)
		}
	}
	if actual := timeline.PaletteColor(nil, 3); actual != "" {
		t.Errorf("empty palette: %s", actual)
	}
}
