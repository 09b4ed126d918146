package models

// CardType is one tag from the fixed classification enumeration a card can
// carry. A card holds zero or more distinct types.
type CardType string

const (
	CardFeature     CardType = "feature"
	CardBug         CardType = "bug"
	CardEnhancement CardType = "enhancement"
	CardDocs        CardType = "docs"
	CardRefactor    CardType = "refactor"
	CardTest        CardType = "test"
	CardCI          CardType = "ci"
	CardSecurity    CardType = "security"
	CardPerformance CardType = "performance"
	CardDesign      CardType = "design"
	CardTranslation CardType = "translation"
)

// AllCardTypes lists every valid card type in display order.
var AllCardTypes = []CardType{
	CardFeature,
	CardBug,
	CardEnhancement,
	CardDocs,
	CardRefactor,
	CardTest,
	CardCI,
	CardSecurity,
	CardPerformance,
	CardDesign,
	CardTranslation,
}

// ValidCardType reports whether ct is one of the known card types.
func ValidCardType(ct CardType) bool {
	for _, known := range AllCardTypes {
		if ct == known {
			return true
		}
	}
	return false
}
