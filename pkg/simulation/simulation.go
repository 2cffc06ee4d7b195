// Package simulation reads results of the remote simulation engine.
package simulation

import (
	"context"
	"fmt"
	"sort"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/pointer"
)

func votingBehaviorPath(periodId, popId int) string {
	return fmt.Sprintf("period/%d/pop/%d/voting-behavior", periodId, popId)
}

// VotingBehavior fetches how the pop would vote in the period.
//
// Lines are ordered by percentage, descending. Lines without percentage are read as 0.
func VotingBehavior(ctx context.Context, c *rest.Client, periodId int, popId int) rest.Result[[]types.VotingBehavior] {
	r := rest.Decode[[]types.VotingBehavior](c.GetSimulation(ctx, votingBehaviorPath(periodId, popId)))
	return rest.Map(r, func(lines []types.VotingBehavior) []types.VotingBehavior {
		if lines == nil {
			return []types.VotingBehavior{}
		}
		sort.SliceStable(lines, func(i, j int) bool {
			return pointer.Or(lines[i].Percentage, 0) > pointer.Or(lines[j].Percentage, 0)
		})
		return lines
	})
}
