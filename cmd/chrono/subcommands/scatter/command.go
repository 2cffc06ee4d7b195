package scatter

import (
	"context"
	"fmt"
	"log"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/common"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/plotting/scatter"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Kind string `flag:"kind" alias:"k" metavar:"party|pop" help:"entities to be projected."`
}

const ARG_PERIOD_ID = "PERIOD_ID"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Project parties or pops of a period onto the political compass.",
		Flags{Kind: "party"},
		flarc.Args{
			{
				Name: ARG_PERIOD_ID, Required: true,
				Help: "Id of the Period to be projected.",
			},
		},
		common.NewTask[Flags](Task),
		flarc.WithDescription(`
Project parties or pops of a period onto the political compass, and print it as JSON.

x is the economic orientation and y is the social orientation.
Marker size is the political strength (parties) or the population size (pops),
scaled with "scaling" of your profile.
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	prof *profiles.Profile,
	client *rest.Client,
	cl flarc.Commandline[Flags],
	params []any,
) error {
	periodId, err := common.IdArg(cl.Args(), ARG_PERIOD_ID)
	if err != nil {
		return err
	}

	var data scatter.OrientationData
	switch kind := cl.Flags().Kind; kind {
	case "party", "parties":
		data = scatter.Parties(
			ctx, client, periodId,
			scatter.WithScaling(prof.Scaling, types.PartyKind), scatter.WithLogger(logger),
		)
	case "pop", "pops":
		data = scatter.Pops(
			ctx, client, periodId,
			scatter.WithScaling(prof.Scaling, types.PopKind), scatter.WithLogger(logger),
		)
	default:
		return fmt.Errorf("%w: --kind should be party or pop: %s", flarc.ErrUsage, kind)
	}

	return common.WriteJSON(cl.Stdout(), data)
}
