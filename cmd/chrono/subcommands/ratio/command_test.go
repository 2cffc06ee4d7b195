package ratio_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/internal/commandline"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/logger"
	subratio "github.com/opst/chronodemica/cmd/chrono/subcommands/ratio"
	"github.com/opst/chronodemica/internal/testutils/backend"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/youta-t/flarc"
)

func TestRatioCommand(t *testing.T) {
	type when struct {
		popSize   string
		failWrite bool
	}
	type then struct {
		stdout string
		err    error
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			be := backend.New(t)
			be.Seed(rest.PopPeriod, types.PopPeriod{Id: 9, PopId: 1, PeriodId: 5})
			be.Canned("/statistics/period/5/pop-size", map[string]any{"period_id": 5, "total_pop_size": 800})
			if when.failWrite {
				be.FailOn(http.MethodPut, "/pop-period/9", http.StatusInternalServerError, "database error")
			}

			stdout := new(strings.Builder)
			err := subratio.Task(
				context.Background(), logger.Null(), be.Profile(), be.Client(t),
				commandline.MockCommandline[struct{}]{
					Fullname_: "chrono ratio",
					Stdout_:   stdout,
					Stderr_:   new(strings.Builder),
					Args_: map[string][]string{
						subratio.ARG_PERIOD_ID:     {"5"},
						subratio.ARG_POP_PERIOD_ID: {"9"},
						subratio.ARG_POP_SIZE:      {when.popSize},
					},
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
			if stdout.String() != then.stdout {
				t.Errorf("stdout: %q", stdout.String())
			}
		}
	}

	t.Run("it prints the ratio", theory(
		when{popSize: "200"},
		then{stdout: "Ratio: 25%\n"},
	))
	t.Run("zero size", theory(
		when{popSize: "0"},
		then{stdout: "Ratio: 0%\n"},
	))
	t.Run("when saving fails, it prints nothing", theory(
		when{popSize: "200", failWrite: true},
		then{stdout: ""},
	))
	t.Run("negative size is usage error", theory(
		when{popSize: "-3"},
		then{err: flarc.ErrUsage},
	))
}
