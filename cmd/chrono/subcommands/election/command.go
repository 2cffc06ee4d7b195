package election

import (
	"context"
	"log"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/common"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/plotting/election"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Changes bool `flag:"changes" alias:"c" help:"show results with changes from the previous period, instead of bars."`
}

const ARG_PERIOD_ID = "PERIOD_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show the election result of a period.",
		Flags{},
		flarc.Args{
			{
				Name: ARG_PERIOD_ID, Required: true,
				Help: "Id of the Period.",
			},
		},
		common.NewTask[Flags](Task),
		flarc.WithDescription(`
Show the election result of a period as bar chart data (JSON), with the turnout.

When --changes is passed, it shows each result with the percentage of
the same party in the previous period, and the change from it.
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	_ *profiles.Profile,
	client *rest.Client,
	cl flarc.Commandline[Flags],
	params []any,
) error {
	periodId, err := common.IdArg(cl.Args(), ARG_PERIOD_ID)
	if err != nil {
		return err
	}

	if cl.Flags().Changes {
		changes, err := election.WithChanges(ctx, client, periodId)
		if err != nil {
			return err
		}
		return common.WriteJSON(cl.Stdout(), changes)
	}

	return common.WriteJSON(
		cl.Stdout(),
		election.ForPeriod(ctx, client, periodId, election.WithLogger(logger)),
	)
}
