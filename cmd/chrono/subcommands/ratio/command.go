package ratio

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/common"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/statistics"
	"github.com/youta-t/flarc"
)

const (
	ARG_PERIOD_ID     = "PERIOD_ID"
	ARG_POP_PERIOD_ID = "POP_PERIOD_ID"
	ARG_POP_SIZE      = "POP_SIZE"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Set the size of a pop, and show its share in the period.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PERIOD_ID, Required: true,
				Help: "Id of the Period.",
			},
			{
				Name: ARG_POP_PERIOD_ID, Required: true,
				Help: "Id of the PopPeriod to be updated.",
			},
			{
				Name: ARG_POP_SIZE, Required: true,
				Help: "new size of the pop.",
			},
		},
		common.NewTask[struct{}](Task),
		flarc.WithDescription(`
Save POP_SIZE as the size of the pop (PopPeriod POP_PERIOD_ID),
then print its share in the total population of the period, like "Ratio: 12.5%".

When POP_SIZE is 0, nothing is saved.
When saving or reading fails, it prints nothing and warns on stderr.
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
	popPeriodId, err := common.IdArg(cl.Args(), ARG_POP_PERIOD_ID)
	if err != nil {
		return err
	}
	popSize, err := strconv.Atoi(cl.Args()[ARG_POP_SIZE][0])
	if err != nil || popSize < 0 {
		return fmt.Errorf("%w: %s should be a non-negative integer", flarc.ErrUsage, ARG_POP_SIZE)
	}

	ratio := statistics.PopulationRatio(ctx, client, logger, popSize, periodId, popPeriodId)
	if ratio == "" {
		return nil
	}
	_, err = fmt.Fprintln(cl.Stdout(), ratio)
	return err
}
