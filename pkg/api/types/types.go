package types

import (
	"fmt"
	"sort"
)

// Period is a time slice in which measurements are recorded.
type Period struct {
	Id   int `json:"id,omitempty"`
	Year int `json:"year"`
}

// SortPeriods returns a copy of periods ordered by year, ascending.
func SortPeriods(periods []Period) []Period {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year < sorted[j].Year
	})
	return sorted
}

// Pop is a population segment.
type Pop struct {
	Id         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	ValidFrom  *int   `json:"valid_from,omitempty"`
	ValidUntil *int   `json:"valid_until,omitempty"`
}

// Party is a political party.
//
// ValidFrom and ValidUntil are years (not period ids). nil means unbounded.
type Party struct {
	Id         int     `json:"id,omitempty"`
	Name       string  `json:"name"`
	FullName   *string `json:"full_name,omitempty"`
	Color      *string `json:"color,omitempty"`
	ValidFrom  *int    `json:"valid_from,omitempty"`
	ValidUntil *int    `json:"valid_until,omitempty"`
}

// IsValidInPeriod tells whether the party existed in the year of the period.
//
// Both bounds are inclusive.
func (p Party) IsValidInPeriod(period Period) bool {
	if p.ValidFrom != nil && period.Year < *p.ValidFrom {
		return false
	}
	if p.ValidUntil != nil && *p.ValidUntil < period.Year {
		return false
	}
	return true
}

// Kind is a kind of entity which measurement rows refer to.
type Kind int

const (
	PopKind Kind = iota + 1
	PartyKind
)

func (k Kind) String() string {
	switch k {
	case PopKind:
		return "Pop"
	case PartyKind:
		return "Party"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Referrer is a row referring entities by foreign key.
type Referrer interface {
	// ForeignKey returns id of the entity of kind which the row refers.
	//
	// nil when the row does not have such reference.
	// Ids are positive, so 0 (field missing in payload) is also reported as nil.
	ForeignKey(kind Kind) *int
}

// PopPeriod holds attributes of a Pop in a Period.
//
// RatioEligible is a percentage (0-100).
type PopPeriod struct {
	Id                   int  `json:"id,omitempty"`
	PopId                int  `json:"pop_id"`
	PeriodId             int  `json:"period_id"`
	PopSize              *int `json:"pop_size,omitempty"`
	SocialOrientation    *int `json:"social_orientation,omitempty"`
	EconomicOrientation  *int `json:"economic_orientation,omitempty"`
	MaxPoliticalDistance *int `json:"max_political_distance,omitempty"`
	VarietyTolerance     *int `json:"variety_tolerance,omitempty"`
	NonVotersDistance    *int `json:"non_voters_distance,omitempty"`
	SmallPartyDistance   *int `json:"small_party_distance,omitempty"`
	RatioEligible        *int `json:"ratio_eligible,omitempty"`
}

func (pp PopPeriod) ForeignKey(kind Kind) *int {
	if kind == PopKind && pp.PopId != 0 {
		id := pp.PopId
		return &id
	}
	return nil
}

// Coordinates returns position on the political compass.
func (pp PopPeriod) Coordinates() (economic *int, social *int) {
	return pp.EconomicOrientation, pp.SocialOrientation
}

// PartyPeriod holds attributes of a Party in a Period.
type PartyPeriod struct {
	Id                  int  `json:"id,omitempty"`
	PartyId             int  `json:"party_id"`
	PeriodId            int  `json:"period_id"`
	SocialOrientation   *int `json:"social_orientation,omitempty"`
	EconomicOrientation *int `json:"economic_orientation,omitempty"`
	PoliticalStrength   *int `json:"political_strength,omitempty"`
}

func (pp PartyPeriod) ForeignKey(kind Kind) *int {
	if kind == PartyKind && pp.PartyId != 0 {
		id := pp.PartyId
		return &id
	}
	return nil
}

func (pp PartyPeriod) Coordinates() (economic *int, social *int) {
	return pp.EconomicOrientation, pp.SocialOrientation
}

// PopVote is the number of votes a Pop gave to a Party in a Period.
type PopVote struct {
	Id       int  `json:"id,omitempty"`
	PeriodId int  `json:"period_id"`
	PopId    int  `json:"pop_id"`
	PartyId  int  `json:"party_id"`
	Votes    *int `json:"votes,omitempty"`
}

func (pv PopVote) ForeignKey(kind Kind) *int {
	var id int
	switch kind {
	case PopKind:
		id = pv.PopId
	case PartyKind:
		id = pv.PartyId
	}
	if id <= 0 {
		return nil
	}
	return &id
}

// VotingBehavior is a line of voting behavior simulated for a Pop.
type VotingBehavior struct {
	PopName       string   `json:"pop_name"`
	PartyName     string   `json:"party_name"`
	PartyFullName *string  `json:"party_full_name,omitempty"`
	Distance      float64  `json:"distance"`
	RawScore      float64  `json:"raw_score"`
	Strength      float64  `json:"strength"`
	AdjustedScore float64  `json:"adjusted_score"`
	Percentage    *float64 `json:"percentage,omitempty"`
}
