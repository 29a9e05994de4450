// Package mention extracts nutrient-name and nutrient-value mentions, and
// adjacent name+value pairs, from OCR text. Surface forms are matched per
// supported language; a form shared by several languages (e.g. "energie")
// yields a mention tagged with all of them.
package mention

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// surfaceForm is one recognizable spelling of a nutrient term together
// with the languages it is plausible in.
type surfaceForm struct {
	pattern   string
	languages []string
}

// lexicon maps nutrient classes to their known surface forms. Patterns are
// regular expressions matched case-insensitively against OCR text.
var lexicon = map[string][]surfaceForm{
	"energy": {
		{`énergie`, []string{"fr"}},
		{`energie`, []string{"fr", "de", "nl"}},
		{`valeurs? [ée]nerg[ée]tiques?`, []string{"fr"}},
		{`energy`, []string{"en"}},
		{`calories`, []string{"fr", "en"}},
		{`energia`, []string{"es", "it", "pt", "hu"}},
		{`valor energ[ée]tico`, []string{"es"}},
		{`energi`, []string{"da"}},
	},
	"saturated_fat": {
		{`mati[èe]res? grasses? satur[ée]s?`, []string{"fr"}},
		{`acides? gras satur[ée]s?`, []string{"fr"}},
		{`dont satur[ée]s?`, []string{"fr"}},
		{`acidi grassi saturi`, []string{"it"}},
		{`saturated fat`, []string{"en"}},
		{`of which saturates`, []string{"en"}},
		{`verzadigde vetzuren`, []string{"nl"}},
		{`waarvan verzadigde`, []string{"nl"}},
		{`gesättigte fettsäuren`, []string{"de"}},
		{`[aá]cidos grasos saturados`, []string{"es"}},
		{`dos quais saturados`, []string{"pt"}},
		{`mættede fedtsyrer`, []string{"da"}},
		{`amelyb[őö]l? telített zs[íi]rsavak`, []string{"hu"}},
	},
	"trans_fat": {
		{`mati[èe]res? grasses? trans`, []string{"fr"}},
		{`trans fat`, []string{"en"}},
	},
	"fat": {
		{`mati[èe]res? grasses?`, []string{"fr"}},
		{`graisses?`, []string{"fr"}},
		{`lipides?`, []string{"fr"}},
		{`total fat`, []string{"en"}},
		{`vetten`, []string{"nl"}},
		{`fett`, []string{"de"}},
		{`grasas`, []string{"es"}},
		{`grassi`, []string{"it"}},
		{`l[íi]pidos`, []string{"es", "pt"}},
		{`fedt`, []string{"da"}},
		{`zs[íi]r`, []string{"hu"}},
	},
	"sugar": {
		{`sucres?`, []string{"fr"}},
		{`sugars?`, []string{"en"}},
		{`zuccheri`, []string{"it"}},
		{`suikers?`, []string{"nl"}},
		{`zucker`, []string{"de"}},
		{`az[úu]cares`, []string{"es"}},
		{`sukkerarter`, []string{"da"}},
		{`amelyb[őö]l? cukrok`, []string{"hu"}},
	},
	"carbohydrate": {
		{`total carbohydrate`, []string{"en"}},
		{`glucids?`, []string{"fr"}},
		{`glucides?`, []string{"en"}},
		{`carboidrati`, []string{"it"}},
		{`koolhydraten`, []string{"nl"}},
		{`koolhydraat`, []string{"nl"}},
		{`kohlenhydrate`, []string{"de"}},
		{`hidratos de carbono`, []string{"es", "pt"}},
		{`kulhydrat`, []string{"da"}},
		{`szénhidrát`, []string{"hu"}},
	},
	"protein": {
		{`prot[ée]ines?`, []string{"fr"}},
		{`protein`, []string{"en", "da"}},
		{`eiwitten`, []string{"nl"}},
		{`eiweiß`, []string{"de"}},
		{`prote[íi]nas`, []string{"es", "pt"}},
		{`fehérje`, []string{"hu"}},
	},
	"salt": {
		{`sel`, []string{"fr"}},
		{`salt`, []string{"en", "da"}},
		{`zout`, []string{"nl"}},
		{`salz`, []string{"de"}},
		{`sale`, []string{"it"}},
		{`sal`, []string{"es", "pt"}},
		{`só`, []string{"hu"}},
	},
	"fiber": {
		{`fibres?`, []string{"en", "fr", "it"}},
		{`(?:dietary )?fibers?`, []string{"en"}},
		{`fibres? alimentaires?`, []string{"fr"}},
		{`(?:voedings)?vezels?`, []string{"nl"}},
		{`ballaststoffe`, []string{"de"}},
		{`fibra(?: alimentaria)?`, []string{"es"}},
		{`kostfibre`, []string{"da"}},
		{`rost`, []string{"hu"}},
	},
	"nutrition_values": {
		{`informations? nutritionnelles?(?: moyennes?)?`, []string{"fr"}},
		{`valeurs? nutritionnelles?(?: moyennes?)?`, []string{"fr"}},
		{`analyse moyenne pour`, []string{"fr"}},
		{`valeurs? nutritives?`, []string{"fr"}},
		{`valeurs? moyennes?`, []string{"fr"}},
		{`nutrition facts?`, []string{"en"}},
		{`average nutritional values?`, []string{"en"}},
		{`valori nutrizionali medi`, []string{"it"}},
		{`gemiddelde waarden per`, []string{"nl"}},
		{`nutritionele informatie`, []string{"nl"}},
		{`(?:er)?næringsindhold`, []string{"da"}},
		{`átlagos tápérték(?:tartalom)?`, []string{"hu"}},
		{`tápérték adatok`, []string{"hu"}},
	},
}

// nutrientUnits lists the value units accepted next to each nutrient class
// when detecting adjacent name+value pairs.
var nutrientUnits = map[string][]string{
	"energy":        {"kj", "kcal"},
	"saturated_fat": {"g"},
	"trans_fat":     {"g"},
	"fat":           {"g"},
	"sugar":         {"g"},
	"carbohydrate":  {"g"},
	"protein":       {"g"},
	"salt":          {"g", "mg"},
	"fiber":         {"g"},
}

// energyUnits are the units that mark a value mention as an energy value.
var energyUnits = map[string]bool{"kj": true, "kcal": true}

// valuePattern matches a standalone numeric nutrient value with its unit.
const valuePattern = `([0-9]+[,.]?[0-9]*) ?(g|kj|kcal)`

type compiledForm struct {
	re        *regexp.Regexp
	pairRe    *regexp.Regexp // nil for classes without units
	languages []string
}

var (
	compiledForms []compiledForm
	valueRe       = regexp.MustCompile(`(?i)` + valuePattern)
)

func init() {
	// Stable form order so extraction output is deterministic.
	classes := make([]string, 0, len(lexicon))
	for class := range lexicon {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for _, class := range classes {
		units := nutrientUnits[class]
		for _, f := range lexicon[class] {
			cf := compiledForm{
				re:        regexp.MustCompile(`(?i)` + f.pattern),
				languages: f.languages,
			}
			if len(units) > 0 {
				pair := fmt.Sprintf(`(?i)(?:%s) ?(?:[:-] ?)?([0-9]+[,.]?[0-9]*) ?(?:%s)`,
					f.pattern, strings.Join(units, "|"))
				cf.pairRe = regexp.MustCompile(pair)
			}
			compiledForms = append(compiledForms, cf)
		}
	}
}
