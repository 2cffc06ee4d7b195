package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/opst/chronodemica/cmd/chrono/subcommands/coalitions"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/common"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/election"
	subinit "github.com/opst/chronodemica/cmd/chrono/subcommands/init"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/logger"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/ratio"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/scatter"
	"github.com/opst/chronodemica/cmd/chrono/subcommands/timeline"
	subver "github.com/opst/chronodemica/cmd/chrono/subcommands/version"
	"github.com/opst/chronodemica/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	scatter := try.To(scatter.New()).OrFatal(logger)
	timeline := try.To(timeline.New()).OrFatal(logger)
	election := try.To(election.New()).OrFatal(logger)
	ratio := try.To(ratio.New()).OrFatal(logger)
	coalitions := try.To(coalitions.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	chrono := try.To(
		flarc.NewCommandGroup(
			"Chronodemica Commandline interface",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("scatter", scatter),
			flarc.WithSubcommand("timeline", timeline),
			flarc.WithSubcommand("election", election),
			flarc.WithSubcommand("ratio", ratio),
			flarc.WithSubcommand("coalitions", coalitions),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, chrono, flarc.WithHelp(true)))
}
