// ABOUTME: Tests for ingredient normalization, similarity scoring and catalog matching.
// ABOUTME: Uses Mongolian catalog names like the production ingredient data.
package matcher

import (
	"reflect"
	"testing"

	"github.com/harperreed/mealplan/internal/models"
)

func catalogFixture() []models.IngredientItem {
	return []models.IngredientItem{
		{ID: "1", Name: "Өндөг", CategoryPath: []string{"Мах, өндөг"}, Price: "450₮"},
		{ID: "2", Name: "Улаан лооль", CategoryPath: []string{"Жимс, ногоо"}, Price: "3200₮"},
		{ID: "3", Name: "Тахианы мах цул", CategoryPath: []string{"Мах", "Тахиа"}, Price: "12,900₮"},
		{ID: "4", Name: "Будаа цагаан", CategoryPath: []string{"Гурил, будаа"}, Price: "2500₮"},
		{ID: "5", Name: "Будаа хүрэн", CategoryPath: []string{"Гурил, будаа"}, Price: "3500₮"},
	}
}

func TestNormalizeIngredientName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Өндөг  ", "өндөг"},
		{"Нарийн боовтой Гурил 500г", "гурил"},
		{"шинэ хуурай жимс", "жимс"},
		{"Өндөг 2 ширхэг", "өндөг"},
		{"Давсгүй цөцгийн тос", "цөцгийн тос"},
		{"сүү 250 мл", "сүү"},
		{"шинэхэн ногоо", "шинэхэн ногоо"},
		{"Chicken   Breast", "chicken breast"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeIngredientName(tt.in); got != tt.want {
				t.Errorf("NormalizeIngredientName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenScorer(t *testing.T) {
	s := TokenScorer{}
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"equal after normalize", "Шинэ өндөг", "өндөг", 1.0},
		{"containment", "тахианы мах", "Тахианы мах цул", 0.8},
		{"token overlap", "үхрийн мах шөл", "үхрийн махан", 1.0 / 3.0},
		{"half overlap", "chicken breast", "chicken thigh", 0.5},
		{"nothing in common", "лууван", "сүү", 0},
		{"short words only", "ab cd", "ab ef", 0},
		{"empty after normalize", "шинэ", "өндөг", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.a, tt.b); got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFindMatch(t *testing.T) {
	m := New(nil)
	catalog := catalogFixture()

	got := m.FindMatch("өндөг 3 ширхэг", catalog)
	if got.Item == nil || got.Item.ID != "1" {
		t.Fatalf("expected egg match, got %+v", got.Item)
	}
	if got.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", got.Confidence)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"High similarity match"}) {
		t.Errorf("Reasons = %v", got.Reasons)
	}

	// Both rice entries contain "будаа"; the first one wins.
	got = m.FindMatch("будаа", catalog)
	if got.Item == nil || got.Item.ID != "4" {
		t.Errorf("tie should keep the first maximum, got %+v", got.Item)
	}
}

func TestFindMatchBands(t *testing.T) {
	catalog := catalogFixture()
	tests := []struct {
		score  float64
		reason string
	}{
		{0.9, "High similarity match"},
		{0.6, "Partial match found"},
		{0.2, "Low confidence match"},
		{0, "No suitable match found"},
	}
	for _, tt := range tests {
		m := New(ScorerFunc(func(a, b string) float64 { return tt.score }))
		got := m.FindMatch("anything", catalog)
		if got.Reasons[0] != tt.reason {
			t.Errorf("score %v: reason = %q, want %q", tt.score, got.Reasons[0], tt.reason)
		}
		if tt.score == 0 && got.Item != nil {
			t.Errorf("zero confidence should carry no item, got %+v", got.Item)
		}
		if tt.score > 0 && (got.Item == nil || got.Item.ID != "1") {
			t.Errorf("score %v: expected first catalog item, got %+v", tt.score, got.Item)
		}
	}
}

func TestFindMatchEmptyCatalog(t *testing.T) {
	got := New(nil).FindMatch("өндөг", nil)
	if got.Item != nil || got.Confidence != 0 {
		t.Errorf("expected empty match, got %+v", got)
	}
	if !reflect.DeepEqual(got.Reasons, []string{"No ingredient database available"}) {
		t.Errorf("Reasons = %v", got.Reasons)
	}
}

func TestFindMatchIdempotent(t *testing.T) {
	m := New(nil)
	catalog := catalogFixture()
	for _, name := range []string{"Улаан лооль", "тахианы мах", "хүрэн будаа", "загас"} {
		first := m.FindMatch(name, catalog)
		second := m.FindMatch(name, catalog)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("FindMatch(%q) not idempotent: %+v vs %+v", name, first, second)
		}
	}
}

func TestFindMatchDoesNotAliasCatalog(t *testing.T) {
	catalog := catalogFixture()
	got := New(nil).FindMatch("өндөг", catalog)
	got.Item.Name = "changed"
	if catalog[0].Name != "Өндөг" {
		t.Error("match item should be a copy of the catalog entry")
	}
}

func TestMapToShoppingCategory(t *testing.T) {
	tests := []struct {
		path []string
		want models.ShoppingCategory
	}{
		{[]string{"Мах, өндөг"}, models.ShopProtein},
		{[]string{"Сүү, сүүн бүтээгдэхүүн", "Тараг"}, models.ShopDairy},
		{[]string{"Жимс, ногоо"}, models.ShopVegetables},
		{[]string{"Гурил, будаа"}, models.ShopCarbs},
		{[]string{"Ургамлын тос"}, models.ShopFats},
		{[]string{"Амтлагч"}, models.ShopSpices},
		{[]string{"Ундаа"}, models.ShopOther},
		{nil, models.ShopOther},
	}
	for _, tt := range tests {
		if got := MapToShoppingCategory(tt.path); got != tt.want {
			t.Errorf("MapToShoppingCategory(%v) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"5000₮", 5000, true},
		{"12,900 ₮", 12900, true},
		{"₮0", 0, false},
		{"үнэгүй", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePrice(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
