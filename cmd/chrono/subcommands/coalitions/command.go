package coalitions

import (
	"context"
	"log"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/common"
	"github.com/opst/chronodemica/pkg/coalitions"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/youta-t/flarc"
)

const ARG_PERIOD_ID = "PERIOD_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"List combinations of parties which can form a majority.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PERIOD_ID, Required: true,
				Help: "Id of the Period.",
			},
		},
		common.NewTask[struct{}](Task),
		flarc.WithDescription(`
List combinations of 2 or more parties in the parliament of the period
which have more than half of seats, as JSON.

Coalitions are ordered by political distance between members, closest first.
Coalitions whose members are all in the government are marked.
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	_ *profiles.Profile,
	client *rest.Client,
	cl flarc.Commandline[struct{}],
	params []any,
) error {
	periodId, err := common.IdArg(cl.Args(), ARG_PERIOD_ID)
	if err != nil {
		return err
	}

	found, err := coalitions.ForPeriod(ctx, client, periodId)
	if err != nil {
		return err
	}
	logger.Printf("%d coalitions have majority", len(found))
	return common.WriteJSON(cl.Stdout(), found)
}
