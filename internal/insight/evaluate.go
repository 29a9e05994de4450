package insight

import "sort"

// langTally accumulates per-language evidence while scanning one image.
type langTally struct {
	nameCount  int
	valueCount int
	hasEnergy  bool
	hasPair    bool
}

// EvaluateImage applies the qualification thresholds to a single image and
// returns one CandidateEvaluation per qualifying language, sorted by
// language code for determinism. The common case is zero or one result, but
// a bilingual table can legitimately qualify for several languages.
//
// Counting is per mention occurrence, not per distinct surface form, and a
// mention tagged with several languages contributes to each of them
// independently. Mentions with an empty language set carry no usable
// evidence and are skipped.
func EvaluateImage(img ImageRecord) []CandidateEvaluation {
	tallies := make(map[string]*langTally)

	tally := func(lang string) *langTally {
		t, ok := tallies[lang]
		if !ok {
			t = &langTally{}
			tallies[lang] = t
		}
		return t
	}

	for _, m := range img.Mentions {
		for _, lang := range m.Languages {
			if lang == "" {
				continue
			}
			t := tally(lang)
			switch m.Kind {
			case MentionName:
				t.nameCount++
			case MentionValue:
				t.valueCount++
				if m.IsEnergy {
					t.hasEnergy = true
				}
			}
		}
	}

	for _, p := range img.Pairs {
		for _, lang := range p.Languages {
			if lang == "" {
				continue
			}
			tally(lang).hasPair = true
		}
	}

	var evals []CandidateEvaluation
	for lang, t := range tallies {
		if t.nameCount < MinNameMentions || t.valueCount < MinValueMentions || !t.hasEnergy {
			continue
		}
		priority := PriorityMentionOnly
		if t.hasPair {
			priority = PriorityPairBacked
		}
		evals = append(evals, CandidateEvaluation{
			Language:   lang,
			NameCount:  t.nameCount,
			ValueCount: t.valueCount,
			HasEnergy:  t.hasEnergy,
			Priority:   priority,
		})
	}

	sort.Slice(evals, func(i, j int) bool {
		return evals[i].Language < evals[j].Language
	})
	return evals
}
