// Package promptctx renders ranked retrieval results into the fixed-format
// context block injected into design prompts, and into the normalized item
// shape returned by the API. The context layout and the 3-decimal relevance
// formatting are a compatibility surface for downstream consumers; field
// order and precision must not change.
package promptctx

import (
	"fmt"
	"strings"

	"github.com/decoplan/furnidex/internal/domain"
	"github.com/decoplan/furnidex/internal/domain/result"
)

// missingValue is the sentinel rendered for absent optional fields.
const missingValue = "N/A"

// FormatContext renders results as the furniture context block, 1-indexed
// in input order. Output is deterministic byte-for-byte.
func FormatContext(results []result.Retrieved) string {
	var b strings.Builder
	b.WriteString("Available Furniture Options:\n\n")

	for i := range results {
		item := results[i].Item()
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   Type: %s\n", item.FurnitureType)
		fmt.Fprintf(&b, "   Material: %s\n", item.Material)
		fmt.Fprintf(&b, "   Color: %s\n", item.Color)
		fmt.Fprintf(&b, "   Style: %s\n", item.Feel)
		fmt.Fprintf(&b, "   Dimensions: %s\n", item.Dimensions)
		fmt.Fprintf(&b, "   Is Accessory: %s\n", domain.FormatAccessoryFlag(item.IsAccessory))
		fmt.Fprintf(&b, "   Relevance: %.3f\n\n", results[i].Score())
	}

	return b.String()
}

// APIItem is the normalized machine-readable rendering of a result.
type APIItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Style          string  `json:"style"`
	Description    string  `json:"description"`
	Dimensions     string  `json:"dimensions"`
	Material       string  `json:"material"`
	Color          string  `json:"color"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// FormatAPIItem maps a retrieval result into the API item shape. Missing
// optional fields render as "N/A" rather than being omitted.
func FormatAPIItem(r result.Retrieved) APIItem {
	item := r.Item()
	return APIItem{
		ID:             item.ID,
		Name:           item.Name,
		Category:       item.FurnitureType,
		Style:          orMissing(item.Feel),
		Description:    item.Description,
		Dimensions:     orMissing(item.Dimensions),
		Material:       orMissing(item.Material),
		Color:          orMissing(item.Color),
		RelevanceScore: r.Score(),
	}
}

// FormatAPIItems maps a result sequence, preserving order. Always returns a
// non-nil slice so the API renders an empty array, not null.
func FormatAPIItems(results []result.Retrieved) []APIItem {
	items := make([]APIItem, len(results))
	for i := range results {
		items[i] = FormatAPIItem(results[i])
	}
	return items
}

func orMissing(s string) string {
	if s == "" {
		return missingValue
	}
	return s
}

// EnhancedQuery combines the user prompt with style and room hints for
// better retrieval, matching the convention used at ingestion time.
func EnhancedQuery(prompt, roomType, style string) string {
	room := strings.ReplaceAll(roomType, "_", " ")
	prefix := strings.TrimSpace(style + " " + room)
	if prefix == "" {
		return prompt
	}
	return prefix + ": " + prompt
}

// BuildPrompt assembles the full design prompt: designer preamble, the
// request summary, the furniture context block, and the task instruction.
func BuildPrompt(userPrompt, roomType, style string, results []result.Retrieved) string {
	parts := []string{
		"You are an expert interior designer specializing in Singapore HDB flats.",
		"\n\nUser Request:",
	}
	if roomType != "" {
		parts = append(parts, "Room Type: "+titleCase(strings.ReplaceAll(roomType, "_", " ")))
	}
	if style != "" {
		parts = append(parts, "Style: "+titleCase(style))
	}
	parts = append(parts,
		"Description: "+userPrompt,
		"\n"+FormatContext(results),
		"\nTask: Based on the user's request and the available furniture options above, "+
			"suggest a complete furniture arrangement. For each piece:\n"+
			"1. Select from the available furniture list above\n"+
			"2. Explain why it fits the design style and user requirements\n"+
			"3. Suggest positioning (if floor plan dimensions are provided)\n"+
			"4. Provide design notes about the overall aesthetic\n"+
			"\nPlease provide your recommendations:",
	)
	return strings.Join(parts, "\n")
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
