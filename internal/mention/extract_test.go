package mention

import (
	"testing"

	"github.com/nutripick/nutripick/internal/insight"
)

const frenchTable = `Valeurs nutritionnelles pour 100 g
Énergie 1500 kJ / 360 kcal
Matières grasses 12 g dont saturées 5 g
Sucres 12 g
Protéines 5 g
Sel 0,5 g`

func countKind(ms []insight.NutrientMention, kind insight.MentionKind, lang string) int {
	n := 0
	for _, m := range ms {
		if m.Kind != kind {
			continue
		}
		for _, l := range m.Languages {
			if l == lang {
				n++
				break
			}
		}
	}
	return n
}

func TestExtractFrenchTable(t *testing.T) {
	ms, pairs := Extract(frenchTable)

	if got := countKind(ms, insight.MentionName, "fr"); got < 4 {
		t.Errorf("french name mentions = %d, want >= 4", got)
	}
	if got := countKind(ms, insight.MentionValue, "fr"); got < 3 {
		t.Errorf("value mentions = %d, want >= 3", got)
	}

	var energy bool
	for _, m := range ms {
		if m.Kind == insight.MentionValue && m.IsEnergy {
			energy = true
		}
	}
	if !energy {
		t.Error("expected an energy value mention (kJ/kcal)")
	}

	if len(pairs) == 0 {
		t.Fatal("expected adjacent name+value pairs")
	}
	var frPair bool
	for _, p := range pairs {
		for _, l := range p.Languages {
			if l == "fr" {
				frPair = true
			}
		}
	}
	if !frPair {
		t.Error("expected at least one french pair")
	}
}

func TestExtractAmbiguousFormFansOut(t *testing.T) {
	ms, _ := Extract("Energie")
	if len(ms) != 1 {
		t.Fatalf("len(mentions) = %d, want 1", len(ms))
	}
	want := map[string]bool{"fr": true, "de": true, "nl": true}
	if len(ms[0].Languages) != len(want) {
		t.Fatalf("languages = %v, want fr/de/nl", ms[0].Languages)
	}
	for _, l := range ms[0].Languages {
		if !want[l] {
			t.Errorf("unexpected language %q", l)
		}
	}
}

func TestExtractWordBoundaries(t *testing.T) {
	// "sel" inside "selection" and "salt" inside "salted" must not match.
	ms, _ := Extract("selection of salted caramel")
	for _, m := range ms {
		if m.Kind == insight.MentionName {
			t.Errorf("unexpected name mention %+v in unrelated text", m)
		}
	}
}

func TestExtractAdjacentOccurrencesAllCount(t *testing.T) {
	ms, _ := Extract("sel sel sel")
	if got := countKind(ms, insight.MentionName, "fr"); got != 3 {
		t.Errorf("occurrences = %d, want 3", got)
	}
}

func TestExtractEnergyUnits(t *testing.T) {
	tests := []struct {
		text   string
		energy bool
	}{
		{"540 kj", true},
		{"129 kcal", true},
		{"3,5 g", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ms, _ := Extract(tt.text)
			if len(ms) != 1 {
				t.Fatalf("len(mentions) = %d, want 1", len(ms))
			}
			if ms[0].Kind != insight.MentionValue {
				t.Fatalf("Kind = %s, want value", ms[0].Kind)
			}
			if ms[0].IsEnergy != tt.energy {
				t.Errorf("IsEnergy = %v, want %v", ms[0].IsEnergy, tt.energy)
			}
		})
	}
}

func TestExtractEmptyText(t *testing.T) {
	ms, pairs := Extract("")
	if ms != nil || pairs != nil {
		t.Errorf("Extract(\"\") = (%v, %v), want (nil, nil)", ms, pairs)
	}
}
