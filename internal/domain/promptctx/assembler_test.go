package promptctx

import (
	"strings"
	"testing"

	"github.com/decoplan/furnidex/internal/domain"
	"github.com/decoplan/furnidex/internal/domain/result"
)

func sampleResults() []result.Retrieved {
	return []result.Retrieved{
		result.New(domain.FurnitureItem{
			ID:            "sofa-1",
			Name:          "MALMO Sofa",
			FurnitureType: "Sofa",
			Material:      "Fabric",
			Color:         "Grey",
			Feel:          "scandinavian",
			IsAccessory:   false,
			Dimensions:    "200x90x85 cm",
			Description:   "Three-seat sofa",
		}, 0.87654),
		result.New(domain.FurnitureItem{
			ID:            "lamp-2",
			Name:          "ARSTID Lamp",
			FurnitureType: "Lamp",
			Material:      "Metal",
			Color:         "White",
			Feel:          "modern",
			IsAccessory:   true,
			Dimensions:    "N/A",
		}, 0.5),
	}
}

func TestFormatContext_ByteStable(t *testing.T) {
	got := FormatContext(sampleResults())

	want := "Available Furniture Options:\n\n" +
		"1. MALMO Sofa\n" +
		"   Type: Sofa\n" +
		"   Material: Fabric\n" +
		"   Color: Grey\n" +
		"   Style: scandinavian\n" +
		"   Dimensions: 200x90x85 cm\n" +
		"   Is Accessory: False\n" +
		"   Relevance: 0.877\n\n" +
		"2. ARSTID Lamp\n" +
		"   Type: Lamp\n" +
		"   Material: Metal\n" +
		"   Color: White\n" +
		"   Style: modern\n" +
		"   Dimensions: N/A\n" +
		"   Is Accessory: True\n" +
		"   Relevance: 0.500\n\n"

	if got != want {
		t.Errorf("FormatContext mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatContext_Empty(t *testing.T) {
	got := FormatContext(nil)
	if got != "Available Furniture Options:\n\n" {
		t.Errorf("unexpected empty context: %q", got)
	}
}

func TestFormatContext_NegativeRelevance(t *testing.T) {
	r := result.New(domain.FurnitureItem{Name: "X"}, -0.25)
	got := FormatContext([]result.Retrieved{r})

	if !strings.Contains(got, "Relevance: -0.250\n") {
		t.Errorf("negative score not rendered raw: %q", got)
	}
}

func TestFormatAPIItem_MissingFieldsAsSentinel(t *testing.T) {
	r := result.New(domain.FurnitureItem{
		ID:            "x-1",
		Name:          "Bare Item",
		FurnitureType: "Stool",
	}, 0.42)

	item := FormatAPIItem(r)
	if item.Style != "N/A" || item.Dimensions != "N/A" || item.Material != "N/A" || item.Color != "N/A" {
		t.Errorf("missing fields not rendered as N/A: %+v", item)
	}
	if item.Category != "Stool" {
		t.Errorf("Category = %q, want Stool", item.Category)
	}
	if item.RelevanceScore != 0.42 {
		t.Errorf("RelevanceScore = %v, want 0.42", item.RelevanceScore)
	}
}

func TestFormatAPIItems_NonNilOnEmpty(t *testing.T) {
	items := FormatAPIItems(nil)
	if items == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(items) != 0 {
		t.Fatalf("expected empty slice, got %d items", len(items))
	}
}

func TestEnhancedQuery(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		roomType string
		style    string
		want     string
	}{
		{"both hints", "cozy reading corner", "living_room", "scandinavian", "scandinavian living room: cozy reading corner"},
		{"style only", "warm lighting", "", "industrial", "industrial: warm lighting"},
		{"room only", "storage ideas", "bedroom", "", "bedroom: storage ideas"},
		{"no hints", "just a prompt", "", "", "just a prompt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EnhancedQuery(tc.prompt, tc.roomType, tc.style); got != tc.want {
				t.Errorf("EnhancedQuery = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildPrompt_Sections(t *testing.T) {
	got := BuildPrompt("minimalist setup", "living_room", "japandi", sampleResults())

	for _, want := range []string{
		"expert interior designer",
		"User Request:",
		"Room Type: Living Room",
		"Style: Japandi",
		"Description: minimalist setup",
		"Available Furniture Options:",
		"MALMO Sofa",
		"Please provide your recommendations:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_OmitsEmptyHints(t *testing.T) {
	got := BuildPrompt("anything", "", "", nil)

	if strings.Contains(got, "Room Type:") {
		t.Error("empty room type should be omitted")
	}
	if strings.Contains(got, "Style:") {
		t.Error("empty style should be omitted")
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"living room", "Living Room"},
		{"BEDROOM", "Bedroom"},
		{"hdb flat", "Hdb Flat"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := titleCase(tc.in); got != tc.want {
			t.Errorf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
