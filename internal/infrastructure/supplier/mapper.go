package supplier

import (
	"strings"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - Supplier DTOs to domain entities
// ══════════════════════════════════════════════════════════════════════════════

// Mapper converts supplier API payloads into domain resources.
type Mapper struct{}

// NewMapper creates a new Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToResource converts a single search result into a domain resource.
// Returns false when the result lacks the fields a candidate must have.
func (m *Mapper) ToResource(dto SearchResultDTO) (resource.Resource, bool) {
	title := strings.TrimSpace(dto.Title)
	rawURL := strings.TrimSpace(dto.URL)
	if title == "" || rawURL == "" {
		return resource.Resource{}, false
	}

	return resource.Resource{
		Title:        title,
		URL:          rawURL,
		Description:  strings.TrimSpace(dto.Description),
		Type:         resource.ParseType(dto.Type),
		QualityScore: clampScore(dto.Score),
	}, true
}

// ToResources converts a batch of search results, dropping unusable entries.
func (m *Mapper) ToResources(dtos []SearchResultDTO) []resource.Resource {
	out := make([]resource.Resource, 0, len(dtos))
	for _, dto := range dtos {
		if r, ok := m.ToResource(dto); ok {
			out = append(out, r)
		}
	}
	return out
}

// clampScore keeps supplier-provided scores inside the domain range.
// Zero is preserved so unscored candidates go through the scorer.
func clampScore(score int) int {
	if score <= 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
