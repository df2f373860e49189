// ABOUTME: CSV-backed ingredient catalog with popularity ordering and filters.
// ABOUTME: Rows without a name or image are dropped; image URLs use the medium size.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/harperreed/mealplan/internal/models"
)

// IngredientOptions filters and limits a loaded catalog.
type IngredientOptions struct {
	PopularOnly   bool
	OnlyWithImage bool
	Limit         int
}

// DefaultIngredientOptions keeps every item that has an image.
func DefaultIngredientOptions() IngredientOptions {
	return IngredientOptions{OnlyWithImage: true}
}

// IngredientFile loads the ingredient catalog from a CSV file.
type IngredientFile struct {
	Path    string
	Options IngredientOptions
	Logger  *zap.Logger
}

// Load implements IngredientProvider.
func (f IngredientFile) Load(ctx context.Context) ([]models.IngredientItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open ingredient catalog: %w", err)
	}
	defer file.Close()

	items, err := ParseIngredientCSV(file)
	if err != nil {
		return nil, err
	}
	items = FilterIngredients(items, f.Options)

	if f.Logger != nil {
		f.Logger.Debug("loaded ingredient catalog", zap.String("path", f.Path), zap.Int("items", len(items)))
	}
	return items, nil
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseIngredientCSV reads catalog rows keyed by header name.
func ParseIngredientCSV(r io.Reader) ([]models.IngredientItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.IngredientItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	cols := headerIndex(header)

	items := []models.IngredientItem{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := field("item_name")
		image := field("image_url")
		if name == "" || image == "" {
			continue
		}

		id := field("id")
		if id == "" {
			id = uuid.New().String()
		}

		var path []string
		for _, c := range []string{"cat1", "cat2", "cat3"} {
			if v := field(c); v != "" {
				path = append(path, v)
			}
		}

		items = append(items, models.IngredientItem{
			ID:           id,
			ItemCode:     field("item_code"),
			Name:         name,
			Type:         field("item_type"),
			CategoryPath: path,
			Price:        field("price"),
			IsPopular:    strings.EqualFold(field("item_popular"), "true"),
			ImageURL:     NormalizeImageURL(image),
			Calories:     toNumber(field("calories")),
			ProteinG:     toNumber(field("protein_g")),
			FatG:         toNumber(field("fat_g")),
			CarbsG:       toNumber(field("carbs_g")),
			SugarG:       toNumber(field("sugar_g")),
			FiberG:       toNumber(field("fiber_g")),
			SodiumMg:     toNumber(field("sodium_mg")),
		})
	}
	return items, nil
}

// headerIndex maps trimmed column names to their position. A leading byte
// order mark on the first column is dropped.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return cols
}

// NormalizeImageURL swaps the first /mini/ segment for /medium/.
func NormalizeImageURL(url string) string {
	return strings.Replace(strings.TrimSpace(url), "/mini/", "/medium/", 1)
}

func toNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(s, ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

// FilterIngredients applies opts and orders popular items first, then by name.
func FilterIngredients(items []models.IngredientItem, opts IngredientOptions) []models.IngredientItem {
	out := make([]models.IngredientItem, 0, len(items))
	for _, it := range items {
		if opts.OnlyWithImage && it.ImageURL == "" {
			continue
		}
		if opts.PopularOnly && !it.IsPopular {
			continue
		}
		out = append(out, it)
	}

	coll := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPopular != out[j].IsPopular {
			return out[i].IsPopular
		}
		return coll.CompareString(out[i].Name, out[j].Name) < 0
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
