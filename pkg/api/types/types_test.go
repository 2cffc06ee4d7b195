package types_test

import (
	"testing"

	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/cmp"
	"github.com/opst/chronodemica/pkg/utils/pointer"
)

func TestParty_IsValidInPeriod(t *testing.T) {
	type when struct {
		from  *int
		until *int
		year  int
	}

	for name, testcase := range map[string]struct {
		when when
		then bool
	}{
		"unbounded party is always valid": {
			when: when{year: 1850},
			then: true,
		},
		"year inside window": {
			when: when{from: pointer.Ref(1990), until: pointer.Ref(2005), year: 2000},
			then: true,
		},
		"lower bound is inclusive": {
			when: when{from: pointer.Ref(1990), until: pointer.Ref(2005), year: 1990},
			then: true,
		},
		"upper bound is inclusive": {
			when: when{from: pointer.Ref(1990), until: pointer.Ref(2005), year: 2005},
			then: true,
		},
		"year after window": {
			when: when{from: pointer.Ref(1990), until: pointer.Ref(2005), year: 2010},
			then: false,
		},
		"year before window": {
			when: when{from: pointer.Ref(1990), year: 1989},
			then: false,
		},
		"only upper bound": {
			when: when{until: pointer.Ref(1933), year: 1920},
			then: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			party := types.Party{Id: 1, Name: "P", ValidFrom: testcase.when.from, ValidUntil: testcase.when.until}
			actual := party.IsValidInPeriod(types.Period{Id: 9, Year: testcase.when.year})
			if actual != testcase.then {
				t.Errorf("IsValidInPeriod: (actual, expected) = (%v, %v)", actual, testcase.then)
			}
		})
	}
}

func TestSortPeriods(t *testing.T) {
	given := []types.Period{{Id: 1, Year: 2001}, {Id: 2, Year: 1998}, {Id: 3, Year: 2010}}
	actual := types.SortPeriods(given)

	expected := []types.Period{{Id: 2, Year: 1998}, {Id: 1, Year: 2001}, {Id: 3, Year: 2010}}
	if !cmp.SliceEq(actual, expected) {
		t.Errorf("sorted periods: (actual, expected) = (%v, %v)", actual, expected)
	}
	if given[0].Year != 2001 {
		t.Errorf("input is modified: %v", given)
	}
}

func TestForeignKey(t *testing.T) {
	if id := (types.PopPeriod{PopId: 4}).ForeignKey(types.PopKind); id == nil || *id != 4 {
		t.Errorf("PopPeriod pop id: %v", id)
	}
	if id := (types.PopPeriod{PopId: 4}).ForeignKey(types.PartyKind); id != nil {
		t.Errorf("PopPeriod should not refer party: %v", *id)
	}
	if id := (types.PartyPeriod{}).ForeignKey(types.PartyKind); id != nil {
		t.Errorf("missing party id should be nil: %v", *id)
	}
	if id := (types.ElectionResult{PartyId: types.NonVotersId}).ForeignKey(types.PartyKind); id != nil {
		t.Errorf("sentinel should not be a reference: %v", *id)
	}
	if id := (types.PopVote{PopId: 2, PartyId: 7}).ForeignKey(types.PartyKind); id == nil || *id != 7 {
		t.Errorf("PopVote party id: %v", id)
	}
}

func TestEnrich(t *testing.T) {
	party := types.Party{
		Id: 5, Name: "GRN",
		FullName: pointer.Ref("The Greens"),
		Color:    pointer.Ref("#00ff00"),
	}

	t.Run("ordinary party", func(t *testing.T) {
		actual := types.Enrich(types.ElectionResult{PartyId: 5}, &party)
		if actual.Name != "GRN" || actual.FullName != "The Greens" {
			t.Errorf("labels: %s / %s", actual.Name, actual.FullName)
		}
		if !cmp.PEqEq(actual.Color, pointer.Ref("#00ff00")) {
			t.Errorf("color: %v", actual.Color)
		}
	})

	t.Run("party without full name uses its name", func(t *testing.T) {
		actual := types.Enrich(types.ElectionResult{PartyId: 6}, &types.Party{Id: 6, Name: "X", Color: pointer.Ref("")})
		if actual.FullName != "X" {
			t.Errorf("full name: %s", actual.FullName)
		}
		if actual.Color != nil {
			t.Errorf("empty color should be dropped: %s", *actual.Color)
		}
	})

	t.Run("sentinels have fixed labels", func(t *testing.T) {
		if actual := types.Enrich(types.ElectionResult{PartyId: -1}, &party); actual.Name != types.NonVotersName {
			t.Errorf("non-voters: %s", actual.Name)
		}
		if actual := types.Enrich(types.ElectionResult{PartyId: -2}, nil); actual.Name != types.SmallPartiesName {
			t.Errorf("small parties: %s", actual.Name)
		}
	})

	t.Run("missing party is labelled unknown", func(t *testing.T) {
		actual := types.Enrich(types.ElectionResult{PartyId: 42}, nil)
		if actual.Name != "Unknown Party (ID: 42)" {
			t.Errorf("unknown label: %s", actual.Name)
		}
	})
}
