package timeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/common"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/plotting/timeline"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Progress bool `flag:"progress" alias:"p" help:"show progress of fetching periods."`
}

const (
	ARG_SERIES = "SERIES"
	ARG_POP_ID = "POP_ID"
)

const (
	SeriesParties    = "parties"
	SeriesVoting     = "voting"
	SeriesPopulation = "population"
)

type Option struct {
	progressOutput io.Writer
}

func WithProgressOutput(w io.Writer) func(*Option) *Option {
	return func(o *Option) *Option {
		o.progressOutput = w
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{progressOutput: os.Stderr}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Trace values over periods.",
		Flags{},
		flarc.Args{
			{
				Name: ARG_SERIES, Required: true,
				Help: "parties | voting | population",
			},
			{
				Name: ARG_POP_ID, Required: false,
				Help: "Id of the Pop. Required for voting.",
			},
		},
		common.NewTask(Task(option.progressOutput)),
		flarc.WithDescription(`
Trace values over periods, in chronological order, and print them as JSON.

- parties: election results (percentage) of each party.
- voting: simulated voting behavior of the pop POP_ID.
- population: size of each pop.

Rows are fetched period by period. Pass --progress to see how far it goes.
`),
	)
}

func Task(progressOutput io.Writer) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		prof *profiles.Profile,
		client *rest.Client,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		options := []timeline.Option{
			timeline.WithPalette(prof.Palette),
			timeline.WithLogger(logger),
		}
		if cl.Flags().Progress {
			bar := newProgressBar(progressOutput)
			defer bar.Finish()
			options = append(options, timeline.WithProgress(bar))
		}

		var dataset timeline.Dataset
		switch series := cl.Args()[ARG_SERIES][0]; series {
		case SeriesParties:
			dataset = timeline.PartyResults(ctx, client, options...)
		case SeriesVoting:
			popId, err := common.IdArg(cl.Args(), ARG_POP_ID)
			if err != nil {
				return err
			}
			dataset = timeline.PopVotingBehavior(ctx, client, popId, options...)
		case SeriesPopulation:
			dataset = timeline.PopulationComposition(ctx, client, options...)
		default:
			return fmt.Errorf(
				"%w: %s should be one of %s, %s or %s: %s",
				flarc.ErrUsage, ARG_SERIES, SeriesParties, SeriesVoting, SeriesPopulation, series,
			)
		}

		return common.WriteJSON(cl.Stdout(), dataset)
	}
}
