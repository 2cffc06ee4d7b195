package scatter_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/internal/commandline"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/logger"
	subscatter "github.com/opst/chronodemica/cmd/chrono/subcommands/scatter"
	"github.com/opst/chronodemica/internal/testutils/backend"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/cmp"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/plotting/scatter"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/pointer"
	"github.com/youta-t/flarc"
)

func TestScatterCommand(t *testing.T) {
	type when struct {
		kind     string
		periodId string
	}
	type then struct {
		err  error
		text []string
		size []float64
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			be := backend.New(t)
			be.Seed(rest.Party, types.Party{Id: 1, Name: "GRN"})
			be.Seed(rest.Pop, types.Pop{Id: 2, Name: "Workers"})
			be.Seed(
				rest.PartyPeriod,
				types.PartyPeriod{PartyId: 1, PeriodId: 3, SocialOrientation: pointer.Ref(10), EconomicOrientation: pointer.Ref(-20), PoliticalStrength: pointer.Ref(30)},
			)
			be.Seed(
				rest.PopPeriod,
				types.PopPeriod{PopId: 2, PeriodId: 3, SocialOrientation: pointer.Ref(5), EconomicOrientation: pointer.Ref(5), PopSize: pointer.Ref(100)},
			)

			prof := be.Profile()
			prof.Scaling = profiles.Scaling{Pop: profiles.SizeScale{Base: 1, Factor: 0.1, Max: 5}}

			stdout := new(strings.Builder)
			err := subscatter.Task(
				context.Background(), logger.Null(), prof, be.Client(t),
				commandline.MockCommandline[subscatter.Flags]{
					Fullname_: "chrono scatter",
					Stdout_:   stdout,
					Stderr_:   new(strings.Builder),
					Flags_:    subscatter.Flags{Kind: when.kind},
					Args_:     map[string][]string{subscatter.ARG_PERIOD_ID: {when.periodId}},
				},
				[]any{},
			)

			if then.err != nil {
				if !errors.Is(err, then.err) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			actual := scatter.OrientationData{}
			if err := json.Unmarshal([]byte(stdout.String()), &actual); err != nil {
				t.Fatal(err)
			}
			if !cmp.SliceEq(actual.Text, then.text) {
				t.Errorf("text: %v", actual.Text)
			}
			if !cmp.SliceEq(actual.Size, then.size) {
				t.Errorf("size: %v", actual.Size)
			}
		}
	}

	t.Run("parties with default scale", theory(
		when{kind: "party", periodId: "3"},
		then{text: []string{"GRN"}, size: []float64{38}},
	))
	t.Run("pops with the scale of the profile", theory(
		when{kind: "pop", periodId: "3"},
		then{text: []string{"Workers"}, size: []float64{5}},
	))
	t.Run("unknown kind is usage error", theory(
		when{kind: "nation", periodId: "3"},
		then{err: flarc.ErrUsage},
	))
	t.Run("broken period id is usage error", theory(
		when{kind: "party", periodId: "third"},
		then{err: flarc.ErrUsage},
	))
}
