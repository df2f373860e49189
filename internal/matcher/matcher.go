// ABOUTME: Finds the best ingredient catalog entry for a recipe ingredient name.
// ABOUTME: Maps catalog category paths to shopping categories and parses prices.
package matcher

import (
	"strconv"
	"strings"

	"github.com/harperreed/mealplan/internal/models"
)

// Confidence thresholds.
const (
	HighConfidence    = 0.8
	PartialConfidence = 0.5
)

// Matcher searches a catalog with a pluggable Scorer.
type Matcher struct {
	scorer Scorer
}

// New returns a Matcher. A nil scorer uses TokenScorer.
func New(scorer Scorer) *Matcher {
	if scorer == nil {
		scorer = TokenScorer{}
	}
	return &Matcher{scorer: scorer}
}

// FindMatch scans the catalog for the highest scoring entry. On a tie the
// first entry wins. A zero score returns no item.
func (m *Matcher) FindMatch(name string, catalog []models.IngredientItem) models.IngredientMatch {
	if len(catalog) == 0 {
		return models.IngredientMatch{Reasons: []string{"No ingredient database available"}}
	}

	best := -1
	bestScore := 0.0
	for i := range catalog {
		if s := m.scorer.Score(name, catalog[i].Name); s > bestScore {
			bestScore = s
			best = i
		}
	}

	match := models.IngredientMatch{Confidence: bestScore}
	if best >= 0 {
		item := catalog[best]
		match.Item = &item
	}

	switch {
	case bestScore >= HighConfidence:
		match.Reasons = []string{"High similarity match"}
	case bestScore >= PartialConfidence:
		match.Reasons = []string{"Partial match found"}
	case bestScore > 0:
		match.Reasons = []string{"Low confidence match"}
	default:
		match.Reasons = []string{"No suitable match found"}
	}
	return match
}

var categoryKeywords = []struct {
	category models.ShoppingCategory
	keywords []string
}{
	{models.ShopProtein, []string{"мах", "өндөг"}},
	{models.ShopDairy, []string{"сүү", "бяслаг", "тараг"}},
	{models.ShopVegetables, []string{"ногоо", "жимс"}},
	{models.ShopCarbs, []string{"гурил", "будаа", "талх"}},
	{models.ShopFats, []string{"тос", "өөх"}},
	{models.ShopSpices, []string{"амтлагч", "халуун ногоо"}},
}

// MapToShoppingCategory picks a shopping category from a catalog category
// path. The first matching keyword group wins; the default is other.
func MapToShoppingCategory(path []string) models.ShoppingCategory {
	joined := strings.ToLower(strings.Join(path, " "))
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(joined, kw) {
				return group.category
			}
		}
	}
	return models.ShopOther
}

// ParsePrice extracts the digits of a price string such as "5000₮".
// Returns false when there are no digits or the value is zero.
func ParsePrice(s string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
