package rest

import (
	"fmt"

	"github.com/opst/chronodemica/pkg/api/types"
)

// Model is a kind of resource in the collection API.
type Model int

const (
	Period Model = iota + 1
	Pop
	Party
	PopPeriod
	PartyPeriod
	PopVote
	ElectionResult
)

// Models lists all Model in declaration order.
var Models = []Model{Period, Pop, Party, PopPeriod, PartyPeriod, PopVote, ElectionResult}

// Path returns the path segment of the resource collection.
//
// It is empty for unknown models.
func (m Model) Path() string {
	switch m {
	case Period:
		return "period"
	case Pop:
		return "pop"
	case Party:
		return "party"
	case PopPeriod:
		return "pop-period"
	case PartyPeriod:
		return "party-period"
	case PopVote:
		return "pop-vote"
	case ElectionResult:
		return "election-result"
	default:
		return ""
	}
}

// Name returns the name of the model, like "PopPeriod".
func (m Model) Name() string {
	switch m {
	case Period:
		return "Period"
	case Pop:
		return "Pop"
	case Party:
		return "Party"
	case PopPeriod:
		return "PopPeriod"
	case PartyPeriod:
		return "PartyPeriod"
	case PopVote:
		return "PopVote"
	case ElectionResult:
		return "ElectionResult"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

func (m Model) String() string {
	return m.Name()
}

// ParseModel finds Model by its name or path segment.
func ParseModel(s string) (Model, error) {
	for _, m := range Models {
		if m.Name() == s || m.Path() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown model: %s", s)
}

// ModelOf returns the Model of entities of the kind.
//
// For unknown kinds, it returns an invalid Model whose Path is empty.
func ModelOf(kind types.Kind) Model {
	switch kind {
	case types.PopKind:
		return Pop
	case types.PartyKind:
		return Party
	default:
		return 0
	}
}
