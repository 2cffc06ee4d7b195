package types

import "fmt"

// Reserved party ids in election results. They never match a Party.
const (
	// abstention bucket
	NonVotersId = -1

	// parties under the threshold, aggregated
	SmallPartiesId = -2
)

const (
	NonVotersName    = "Non-Voters"
	SmallPartiesName = "Small Parties"
)

func IsSentinel(partyId int) bool {
	return partyId == NonVotersId || partyId == SmallPartiesId
}

// ElectionResult is an outcome of a party in an election of a Period.
type ElectionResult struct {
	Id               int      `json:"id,omitempty"`
	PeriodId         int      `json:"period_id"`
	PartyId          int      `json:"party_id"`
	Votes            *int     `json:"votes,omitempty"`
	Percentage       *float64 `json:"percentage,omitempty"`
	Seats            *int     `json:"seats,omitempty"`
	InParliament     *bool    `json:"in_parliament,omitempty"`
	InGovernment     *bool    `json:"in_government,omitempty"`
	HeadOfGovernment *bool    `json:"head_of_government,omitempty"`
}

func (er ElectionResult) ForeignKey(kind Kind) *int {
	if kind != PartyKind || er.PartyId <= 0 {
		return nil
	}
	id := er.PartyId
	return &id
}

// PercentageOr returns percentage, or d if it is missing.
func (er ElectionResult) PercentageOr(d float64) float64 {
	if er.Percentage == nil {
		return d
	}
	return *er.Percentage
}

// EnrichedElectionResult is ElectionResult joined with display attributes of its party.
type EnrichedElectionResult struct {
	ElectionResult

	Name     string  `json:"name"`
	FullName string  `json:"full_name"`
	Color    *string `json:"color,omitempty"`
}

// Enrich joins er with party.
//
// For sentinel ids, party is ignored and fixed labels are used.
// When party is nil for an ordinary id, the label tells the id is unknown.
func Enrich(er ElectionResult, party *Party) EnrichedElectionResult {
	ret := EnrichedElectionResult{ElectionResult: er}
	switch {
	case er.PartyId == NonVotersId:
		ret.Name = NonVotersName
		ret.FullName = NonVotersName
	case er.PartyId == SmallPartiesId:
		ret.Name = SmallPartiesName
		ret.FullName = SmallPartiesName
	case party == nil:
		ret.Name = fmt.Sprintf("Unknown Party (ID: %d)", er.PartyId)
		ret.FullName = ret.Name
	default:
		ret.Name = party.Name
		ret.FullName = party.Name
		if party.FullName != nil && *party.FullName != "" {
			ret.FullName = *party.FullName
		}
		if party.Color != nil && *party.Color != "" {
			c := *party.Color
			ret.Color = &c
		}
	}
	return ret
}
