// ABOUTME: Converts recipe spreadsheet rows into catalog meals.
// ABOUTME: Maps Mongolian or English meal types and pulls macros out of free text.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/models"
)

// Recipe sheet column headers.
const (
	ColumnType         = "Хоолны Төрөл"
	ColumnName         = "Жорын Нэр"
	ColumnIngredients  = "Орц"
	ColumnInstructions = "Заавар"
	ColumnMacros       = "Макро (ойролцоо)"
)

// defaultUnit is used for ingredient lines without a quantity.
const defaultUnit = "ширхэг"

// MealRow is one recipe as written in the source sheet.
type MealRow struct {
	Type         string
	Name         string
	Ingredients  string
	Instructions string
	Macros       string
}

var (
	ingredientSplit  = regexp.MustCompile(`[,\n;]`)
	instructionSplit = regexp.MustCompile(`\d+\.|\n|;`)
	idUnsafe         = regexp.MustCompile(`[^\x{0400}-\x{04FF}a-z0-9\s]`)
	spaces           = regexp.MustCompile(`\s+`)
	quantity         = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(кг|г|мл|л|ширхэг|аяга|хэсэг|халбага)(?:[^\p{L}]|$)`)
	leadingCount     = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s+`)

	kcalPattern    = regexp.MustCompile(`(\d+)\s*(?:ккал|kcal|cal)`)
	proteinPattern = regexp.MustCompile(`(\d+)\s*(?:г|g)?\s*(?:уураг|protein)`)
	carbsPattern   = regexp.MustCompile(`(\d+)\s*(?:г|g)?\s*(?:нүүрс|carb|углевод)`)
	fatPattern     = regexp.MustCompile(`(\d+)\s*(?:г|g)?\s*(?:өөх|fat|жир)`)
)

// ParseCategory maps a meal type label to a category. Unknown labels are snacks.
func ParseCategory(label string) models.MealCategory {
	c := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(c, "өглөө") || strings.Contains(c, "breakfast"):
		return models.CategoryBreakfast
	case strings.Contains(c, "өдөр") || strings.Contains(c, "lunch") || strings.Contains(c, "үдийн"):
		return models.CategoryLunch
	case strings.Contains(c, "орой") || strings.Contains(c, "dinner"):
		return models.CategoryDinner
	}
	return models.CategorySnack
}

// ParseMacros extracts kcal and grams from text like "450 ккал, 30г уураг".
// Missing values are 0.
func ParseMacros(text string) models.MacroGoals {
	text = strings.ToLower(text)
	first := func(re *regexp.Regexp) float64 {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		return float64(n)
	}
	return models.MacroGoals{
		Kcal:     first(kcalPattern),
		ProteinG: first(proteinPattern),
		CarbsG:   first(carbsPattern),
		FatG:     first(fatPattern),
	}
}

// SplitIngredients splits an ingredient cell on commas, semicolons and newlines.
func SplitIngredients(text string) []string {
	return splitNonEmpty(ingredientSplit, text)
}

// SplitInstructions splits an instruction cell on step numbers, semicolons
// and newlines.
func SplitInstructions(text string) []string {
	return splitNonEmpty(instructionSplit, text)
}

func splitNonEmpty(re *regexp.Regexp, text string) []string {
	var out []string
	for _, part := range re.Split(text, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseIngredientLine reads an optional quantity out of a recipe line.
// "200г тахианы мах" gives amount 200, unit "г", name "тахианы мах"; a bare
// leading count like "2 өндөг" keeps the default unit.
func ParseIngredientLine(line string) (name string, amount float64, unit string) {
	amount, unit = 1, defaultUnit
	if m := quantity.FindStringSubmatchIndex(line); m != nil {
		if f, ok := parseAmount(line[m[2]:m[3]]); ok {
			amount, unit = f, line[m[4]:m[5]]
			line = line[:m[0]] + line[m[1]:]
		}
	} else if m := leadingCount.FindStringSubmatchIndex(line); m != nil {
		if f, ok := parseAmount(line[m[2]:m[3]]); ok {
			amount = f
			line = line[m[1]:]
		}
	}
	name = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
	return name, amount, unit
}

func parseAmount(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// MealID builds a stable ID from the meal name and its row position.
func MealID(name string, index int) string {
	clean := idUnsafe.ReplaceAllString(strings.ToLower(name), "")
	clean = spaces.ReplaceAllString(strings.TrimSpace(clean), "-")
	return fmt.Sprintf("%s-%d", clean, index+1)
}

// ParseMealRows converts rows into meals, dropping rows with no name, no
// ingredients, or neither calories nor protein.
func ParseMealRows(rows []MealRow, logger *zap.Logger) []models.GeneratedMeal {
	if logger == nil {
		logger = zap.NewNop()
	}

	meals := make([]models.GeneratedMeal, 0, len(rows))
	counts := make(map[models.MealCategory]int)
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			logger.Debug("skipping unnamed row", zap.Int("row", i+1))
			continue
		}

		id := MealID(name, i)
		meal := models.GeneratedMeal{
			ID:           id,
			Name:         name,
			Category:     ParseCategory(row.Type),
			Instructions: SplitInstructions(row.Instructions),
			Macros:       ParseMacros(row.Macros),
			ServingSize:  1,
		}
		for j, line := range SplitIngredients(row.Ingredients) {
			ingName, amount, unit := ParseIngredientLine(line)
			if ingName == "" {
				continue
			}
			meal.Ingredients = append(meal.Ingredients, models.MealIngredient{
				ID:        fmt.Sprintf("%s-ing-%d", id, j+1),
				Name:      ingName,
				Amount:    amount,
				Unit:      unit,
				Essential: true,
			})
		}

		if len(meal.Ingredients) == 0 || (meal.Macros.Kcal <= 0 && meal.Macros.ProteinG <= 0) {
			logger.Debug("skipping incomplete meal", zap.String("meal", name))
			continue
		}
		meals = append(meals, meal)
		counts[meal.Category]++
	}

	logger.Info("parsed meal rows",
		zap.Int("rows", len(rows)),
		zap.Int("meals", len(meals)),
		zap.Int("breakfast", counts[models.CategoryBreakfast]),
		zap.Int("lunch", counts[models.CategoryLunch]),
		zap.Int("dinner", counts[models.CategoryDinner]),
		zap.Int("snack", counts[models.CategorySnack]),
	)
	return meals
}

// ReadMealRows reads a recipe sheet exported as CSV with the standard headers.
func ReadMealRows(r io.Reader) ([]MealRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read recipe header: %w", err)
	}
	cols := headerIndex(header)
	if _, ok := cols[ColumnName]; !ok {
		return nil, fmt.Errorf("recipe sheet is missing the %q column", ColumnName)
	}

	var rows []MealRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read recipe row: %w", err)
		}
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		rows = append(rows, MealRow{
			Type:         get(ColumnType),
			Name:         get(ColumnName),
			Ingredients:  get(ColumnIngredients),
			Instructions: get(ColumnInstructions),
			Macros:       get(ColumnMacros),
		})
	}
	return rows, nil
}

// IngredientNames lists the distinct lowercased ingredient names across meals.
func IngredientNames(meals []models.GeneratedMeal) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range meals {
		for _, ing := range m.Ingredients {
			n := strings.ToLower(strings.TrimSpace(ing.Name))
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
