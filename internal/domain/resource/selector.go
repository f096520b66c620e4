package resource

import (
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEDUPLICATION & DIVERSITY SELECTOR
// Отбор финального набора ресурсов для поднавыка из пула кандидатов.
// Четыре прохода: оценка и сортировка, дедупликация с фильтрами,
// обеспечение разнообразия типов, добор лучшими из оставшихся.
//
// Детерминирован при одинаковом порядке входа: сортировка стабильная,
// равные оценки сохраняют входной порядок.
// ══════════════════════════════════════════════════════════════════════════════

// SelectorConfig содержит пороги и ограничения отбора.
type SelectorConfig struct {
	// TypeThresholds - минимальная оценка качества по типам.
	// Документация ожидаемо кластеризуется выше по базовому доверию,
	// поэтому пороги дифференцированы по типам.
	TypeThresholds map[Type]int

	// DefaultThreshold - порог для неизвестных типов.
	DefaultThreshold int

	// TitleSimilarityLimit - максимальная доля пересечения слов названий
	// (|пересечение| / max(|A|, |B|)), выше которой кандидат считается дублем.
	TitleSimilarityLimit float64

	// DomainCap - максимум ресурсов с одного домена.
	DomainCap int

	// DomainAllowList - домены, на которые DomainCap не распространяется.
	DomainAllowList []string

	// PreferredTypes - канонические типы в порядке приоритета для
	// прохода разнообразия.
	PreferredTypes []Type
}

// DefaultSelectorConfig возвращает пороги по умолчанию.
// Значения перенесены как есть из исторически сложившихся настроек.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		TypeThresholds: map[Type]int{
			TypeDocumentation: 85,
			TypeCourse:        80,
			TypeArticle:       75,
			TypeVideo:         70,
			TypeGitHub:        70,
			TypeTutorial:      65,
		},
		DefaultThreshold:     65,
		TitleSimilarityLimit: 0.7,
		DomainCap:            2,
		DomainAllowList:      []string{"geeksforgeeks.org", "developer.mozilla.org"},
		PreferredTypes:       CanonicalTypes,
	}
}

// Threshold возвращает порог качества для типа.
func (c SelectorConfig) Threshold(t Type) int {
	if th, ok := c.TypeThresholds[t]; ok {
		return th
	}
	return c.DefaultThreshold
}

// domainCapExempt проверяет, освобождён ли домен от ограничения DomainCap.
func (c SelectorConfig) domainCapExempt(domain string) bool {
	for _, allowed := range c.DomainAllowList {
		if domain == allowed {
			return true
		}
	}
	return false
}

// Selector выполняет дедупликацию и отбор разнообразного набора ресурсов.
type Selector struct {
	cfg    SelectorConfig
	scorer *Scorer
}

// NewSelector создаёт Selector.
func NewSelector(cfg SelectorConfig, scorer *Scorer) *Selector {
	return &Selector{cfg: cfg, scorer: scorer}
}

// Select отбирает до maxCount уникальных качественных ресурсов для поднавыка.
//
// Гарантии результата: нет двух одинаковых URL, нет названий с пересечением
// выше порога, каждый ресурс проходит порог качества своего типа,
// длина не превышает maxCount. Если кандидатов не хватает - возвращается
// меньше; список никогда не дополняется выдуманными данными.
func (s *Selector) Select(candidates []Resource, maxCount int) []Resource {
	if maxCount < 1 || len(candidates) == 0 {
		return []Resource{}
	}

	// Проход 1: оценить неоценённых кандидатов и стабильно отсортировать
	// по убыванию качества.
	scored := make([]Resource, 0, len(candidates))
	for _, c := range candidates {
		if c.QualityScore <= 0 {
			c.QualityScore = s.scorer.Score(c)
		}
		scored = append(scored, c)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].QualityScore > scored[j].QualityScore
	})

	// Проход 2: дедупликация и фильтры качества.
	accepted := s.dedupPass(scored, maxCount)

	// Проходы 3-4: разнообразие типов и добор.
	return s.diversityPass(accepted, maxCount)
}

// dedupPass принимает кандидатов в порядке убывания качества, отбрасывая
// дубли по URL и названию, избыток с одного домена и не прошедших порог.
func (s *Selector) dedupPass(sorted []Resource, maxCount int) []Resource {
	accepted := make([]Resource, 0, maxCount)
	seenURLs := make(map[string]struct{}, maxCount)
	seenTitles := make([][]string, 0, maxCount)
	domainCounts := make(map[string]int)

	for _, r := range sorted {
		// Некорректные записи отбрасываются молча, не прерывая отбор.
		if !r.IsWellFormed() {
			continue
		}

		url := r.NormalizedURL()
		if _, ok := seenURLs[url]; ok {
			continue
		}

		tokens := titleTokens(r.Title)
		if s.tooSimilar(tokens, seenTitles) {
			continue
		}

		domain := r.Domain()
		if !s.cfg.domainCapExempt(domain) && domainCounts[domain] >= s.cfg.DomainCap {
			continue
		}

		if r.QualityScore < s.cfg.Threshold(r.Type) {
			continue
		}

		accepted = append(accepted, r)
		seenURLs[url] = struct{}{}
		seenTitles = append(seenTitles, tokens)
		domainCounts[domain]++

		if len(accepted) >= maxCount {
			break
		}
	}

	return accepted
}

// diversityPass пересобирает финальный список из принятого пула:
// сначала по одному ресурсу каждого канонического типа, затем равномерное
// распределение, затем добор лучшими из оставшихся.
func (s *Selector) diversityPass(accepted []Resource, maxCount int) []Resource {
	if len(accepted) == 0 {
		return []Resource{}
	}

	final := make([]Resource, 0, maxCount)
	included := make([]bool, len(accepted))
	typeCounts := make(map[Type]int)

	// Целевое равномерное распределение по шести каноническим типам.
	maxPerType := maxCount / len(s.cfg.PreferredTypes)
	if maxPerType < 1 {
		maxPerType = 1
	}

	// Сначала хотя бы один ресурс каждого типа, если он есть в пуле.
	for _, preferred := range s.cfg.PreferredTypes {
		if len(final) >= maxCount {
			break
		}
		for i, r := range accepted {
			if included[i] || r.Type != preferred {
				continue
			}
			if typeCounts[r.Type] == 0 {
				final = append(final, r)
				included[i] = true
				typeCounts[r.Type]++
			}
			break
		}
	}

	// Затем равномерное распределение в пределах maxPerType.
	for i, r := range accepted {
		if len(final) >= maxCount {
			break
		}
		if included[i] || typeCounts[r.Type] >= maxPerType {
			continue
		}
		final = append(final, r)
		included[i] = true
		typeCounts[r.Type]++
	}

	// Добор оставшихся слотов лучшими из пула без ограничения по типам.
	for i, r := range accepted {
		if len(final) >= maxCount {
			break
		}
		if included[i] {
			continue
		}
		final = append(final, r)
		included[i] = true
	}

	return final
}

// tooSimilar проверяет пересечение названия с уже принятыми.
func (s *Selector) tooSimilar(tokens []string, seen [][]string) bool {
	for _, other := range seen {
		if titleOverlap(tokens, other) > s.cfg.TitleSimilarityLimit {
			return true
		}
	}
	return false
}

// titleTokens разбивает название на слова в нижнем регистре.
func titleTokens(title string) []string {
	return strings.Fields(strings.ToLower(title))
}

// titleOverlap вычисляет долю пересечения множеств слов:
// |пересечение| / max(|A|, |B|).
func titleOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		setB[w] = struct{}{}
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}

	maxLen := len(setA)
	if len(setB) > maxLen {
		maxLen = len(setB)
	}
	return float64(intersection) / float64(maxLen)
}
