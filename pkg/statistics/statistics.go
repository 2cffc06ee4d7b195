// Package statistics reads aggregates of the collection API.
package statistics

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/rest"
)

// PopSizeSum is the total population of a period.
type PopSizeSum struct {
	PeriodId     int     `json:"period_id"`
	TotalPopSize float64 `json:"total_pop_size"`
}

// PopSizeTotal fetches the sum of pop_size of all PopPeriod in the period.
func PopSizeTotal(ctx context.Context, c *rest.Client, periodId int) rest.Result[PopSizeSum] {
	return rest.Decode[PopSizeSum](c.GetStatistics(ctx, fmt.Sprintf("period/%d/pop-size", periodId)))
}

const zeroRatio = "Ratio: 0%"

// PopulationRatio saves popSize into the PopPeriod, then tells its share of the period.
//
// When popSize is 0, nothing is saved and "Ratio: 0%" is returned.
// When saving or reading the total fails, it logs a warning and returns "".
//
// Saving and reading are separate requests, so the total can include
// changes made by others in between.
func PopulationRatio(
	ctx context.Context, c *rest.Client, logger *log.Logger,
	popSize int, periodId int, popPeriodId int,
) string {
	if popSize == 0 {
		return zeroRatio
	}

	update := rest.Update[types.PopPeriod](
		ctx, c, rest.PopPeriod, popPeriodId, map[string]int{"pop_size": popSize},
	)
	if !update.Success() {
		logger.Printf("warning: failed to save pop_size: %s", update.Error())
		return ""
	}

	total, err := PopSizeTotal(ctx, c, periodId).Get()
	if err != nil {
		logger.Printf("warning: failed to fetch population statistics: %s", err)
		return ""
	}
	if total.TotalPopSize == 0 {
		return zeroRatio
	}

	ratio := float64(popSize) / total.TotalPopSize * 100
	return "Ratio: " + strconv.FormatFloat(round1(ratio), 'f', -1, 64) + "%"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
