package preprocess

import "strings"

// irregularPlurals maps common irregular plural forms to their singular.
var irregularPlurals = map[string]string{
	"CHILDREN": "CHILD",
	"FEET":     "FOOT",
	"GEESE":    "GOOSE",
	"MEN":      "MAN",
	"MICE":     "MOUSE",
	"PEOPLE":   "PERSON",
	"TEETH":    "TOOTH",
	"WOMEN":    "WOMAN",
}

// Lemmatize reduces an uppercase word to a base form using noun plural
// rules. It is intentionally conservative: when no rule applies the word is
// returned unchanged, which matters more than aggressive stemming because a
// wrong merge collapses two distinct vocabulary entries.
func Lemmatize(word string) string {
	if lemma, ok := irregularPlurals[word]; ok {
		return lemma
	}

	switch {
	case strings.HasSuffix(word, "IES") && len(word) > 4:
		// BERRIES -> BERRY, but keep short words like TIES -> TIE
		return word[:len(word)-3] + "Y"
	case strings.HasSuffix(word, "XES"), strings.HasSuffix(word, "SES"),
		strings.HasSuffix(word, "ZES"), strings.HasSuffix(word, "CHES"),
		strings.HasSuffix(word, "SHES"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "VES") && len(word) > 4:
		// WOLVES -> WOLF covers most -VES plurals; LEAVES -> LEAF style
		// exceptions are acceptable noise for difficulty scoring.
		return word[:len(word)-3] + "F"
	case strings.HasSuffix(word, "S") && !strings.HasSuffix(word, "SS") && len(word) > 3:
		return word[:len(word)-1]
	}
	return word
}
