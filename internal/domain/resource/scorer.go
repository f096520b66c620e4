package resource

import (
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUALITY SCORER
// Эвристическая оценка качества ресурса (0-100) из домена, названия и типа.
// Чистая функция от входа и фиксированных таблиц весов.
//
// Константы весов не выводились заново: они перенесены как есть из
// исторически сложившихся значений и вынесены в конфигурацию.
// ══════════════════════════════════════════════════════════════════════════════

// DomainBonus - бонус за доверенный домен.
type DomainBonus struct {
	// Domain - домен (сравнивается как подстрока URL в нижнем регистре).
	Domain string

	// Bonus - размер бонуса.
	Bonus int
}

// ScorerConfig содержит веса эвристик оценки качества.
type ScorerConfig struct {
	// BaseScore - базовая оценка для ресурсов без предварительной оценки.
	BaseScore int

	// DomainBonuses - бонусы за доверенные домены (домен ищется как подстрока
	// URL). Список упорядочен: срабатывает первое совпадение.
	DomainBonuses []DomainBonus

	// TypeBonuses - бонусы за тип ресурса.
	TypeBonuses map[Type]int

	// GenericTerms - "пустые" слова в названии.
	GenericTerms []string

	// GenericTermLimit - сколько пустых слов допустимо без штрафа.
	GenericTermLimit int

	// GenericPenalty - штраф за превышение лимита пустых слов.
	GenericPenalty int

	// TechnicalTerms - технические термины, повышающие специфичность.
	TechnicalTerms []string

	// SpecificityBonus - бонус за каждый технический термин в названии.
	SpecificityBonus int

	// DocsPathBonus - бонус за /docs/ или /documentation/ в пути URL.
	DocsPathBonus int

	// GuidePathBonus - бонус за /tutorial/ или /guide/ в пути URL.
	GuidePathBonus int

	// MinScore - нижняя граница итоговой оценки.
	// Гарантирует, что ни один ресурс не получит ноль.
	MinScore int

	// MaxScore - верхняя граница итоговой оценки.
	MaxScore int
}

// DefaultScorerConfig возвращает веса по умолчанию.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		BaseScore: 50,
		DomainBonuses: []DomainBonus{
			{"developer.mozilla.org", 25},
			{"docs.python.org", 25},
			{"react.dev", 25},
			{"nodejs.org", 25},
			{"freecodecamp.org", 20},
			{"geeksforgeeks.org", 15},
			{"leetcode.com", 15},
			{"github.com", 10},
			{"youtube.com", 5},
		},
		TypeBonuses: map[Type]int{
			TypeDocumentation: 15,
			TypeCourse:        10,
			TypeArticle:       5,
			TypeVideo:         5,
			TypeGitHub:        5,
		},
		GenericTerms:     []string{"tutorial", "guide", "introduction", "basics", "learn"},
		GenericTermLimit: 2,
		GenericPenalty:   10,
		TechnicalTerms:   []string{"algorithm", "implementation", "optimization", "advanced", "deep dive"},
		SpecificityBonus: 5,
		DocsPathBonus:    5,
		GuidePathBonus:   3,
		MinScore:         10,
		MaxScore:         100,
	}
}

// Scorer вычисляет оценку качества ресурса.
type Scorer struct {
	cfg ScorerConfig
}

// NewScorer создаёт Scorer с указанной конфигурацией.
func NewScorer(cfg ScorerConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score вычисляет оценку качества ресурса в диапазоне [MinScore, MaxScore].
//
// Алгоритм: базовая оценка ресурса (или BaseScore) + бонус домена +
// бонус типа - штраф за шаблонное название + бонус специфичности +
// бонус структуры URL, с финальным ограничением диапазона.
func (s *Scorer) Score(r Resource) int {
	score := r.QualityScore
	if score <= 0 {
		score = s.cfg.BaseScore
	}

	url := strings.ToLower(r.URL)
	title := strings.ToLower(r.Title)

	// Бонус за доверенный домен: срабатывает первое совпадение.
	for _, db := range s.cfg.DomainBonuses {
		if strings.Contains(url, db.Domain) {
			score += db.Bonus
			break
		}
	}

	score += s.cfg.TypeBonuses[r.Type]

	// Штраф за шаблонные названия вида "Learn X Tutorial Guide".
	generic := 0
	for _, term := range s.cfg.GenericTerms {
		if strings.Contains(title, term) {
			generic++
		}
	}
	if generic > s.cfg.GenericTermLimit {
		score -= s.cfg.GenericPenalty
	}

	// Бонус за технические термины в названии (за каждый термин).
	for _, term := range s.cfg.TechnicalTerms {
		if strings.Contains(title, term) {
			score += s.cfg.SpecificityBonus
		}
	}

	// Бонус за структуру URL.
	switch {
	case strings.Contains(url, "/docs/") || strings.Contains(url, "/documentation/"):
		score += s.cfg.DocsPathBonus
	case strings.Contains(url, "/tutorial/") || strings.Contains(url, "/guide/"):
		score += s.cfg.GuidePathBonus
	}

	if score > s.cfg.MaxScore {
		score = s.cfg.MaxScore
	}
	if score < s.cfg.MinScore {
		score = s.cfg.MinScore
	}
	return score
}
