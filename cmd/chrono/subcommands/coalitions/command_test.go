package coalitions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	subcoalitions "github.com/opst/chronodemica/cmd/chrono/subcommands/coalitions"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/internal/commandline"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/logger"
	"github.com/opst/chronodemica/internal/testutils/backend"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/coalitions"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/pointer"
)

func TestCoalitionsCommand(t *testing.T) {
	run := func(t *testing.T, be *backend.Backend) (string, error) {
		t.Helper()
		stdout := new(strings.Builder)
		err := subcoalitions.Task(
			context.Background(), logger.Null(), be.Profile(), be.Client(t),
			commandline.MockCommandline[struct{}]{
				Fullname_: "chrono coalitions",
				Stdout_:   stdout,
				Stderr_:   new(strings.Builder),
				Args_:     map[string][]string{subcoalitions.ARG_PERIOD_ID: {"1"}},
			},
			[]any{},
		)
		return stdout.String(), err
	}

	t.Run("it prints coalitions with majority", func(t *testing.T) {
		be := backend.New(t)
		be.Seed(rest.Party, types.Party{Id: 1, Name: "A"}, types.Party{Id: 2, Name: "B"}, types.Party{Id: 3, Name: "C"})
		be.Seed(
			rest.ElectionResult,
			types.ElectionResult{PeriodId: 1, PartyId: 1, Seats: pointer.Ref(40), InParliament: pointer.Ref(true)},
			types.ElectionResult{PeriodId: 1, PartyId: 2, Seats: pointer.Ref(35), InParliament: pointer.Ref(true)},
			types.ElectionResult{PeriodId: 1, PartyId: 3, Seats: pointer.Ref(25), InParliament: pointer.Ref(true)},
		)

		out, err := run(t, be)
		if err != nil {
			t.Fatal(err)
		}
		actual := []coalitions.Coalition{}
		if err := json.Unmarshal([]byte(out), &actual); err != nil {
			t.Fatal(err)
		}
		// A+B, A+C, B+C and A+B+C have majority of 100 seats.
		if len(actual) != 4 {
			t.Errorf("coalitions: %+v", actual)
		}
	})

	t.Run("when results cannot be fetched, it is an error", func(t *testing.T) {
		be := backend.New(t)
		be.FailOn(http.MethodGet, "/election-result", http.StatusInternalServerError, "database error")
		if _, err := run(t, be); err == nil {
			t.Error("no error")
		}
	})
}
