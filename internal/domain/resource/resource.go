// Package resource содержит ядро работы с учебными ресурсами:
// оценку качества, дедупликацию и отбор разнообразного набора ресурсов
// для одного поднавыка. Все операции - чистые функции над входными данными.
package resource

import (
	"net/url"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESOURCE TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет тип учебного ресурса.
type Type string

const (
	// TypeDocumentation - официальная документация.
	TypeDocumentation Type = "documentation"
	// TypeVideo - видеоурок или видеокурс.
	TypeVideo Type = "video"
	// TypeCourse - структурированный курс.
	TypeCourse Type = "course"
	// TypeArticle - статья или разбор.
	TypeArticle Type = "article"
	// TypeGitHub - репозиторий с кодом.
	TypeGitHub Type = "github"
	// TypeTutorial - пошаговый туториал.
	TypeTutorial Type = "tutorial"
	// TypeUnknown - тип не определён.
	TypeUnknown Type = "unknown"
)

// CanonicalTypes - шесть канонических типов в порядке приоритета
// для прохода разнообразия.
var CanonicalTypes = []Type{
	TypeDocumentation,
	TypeVideo,
	TypeCourse,
	TypeArticle,
	TypeGitHub,
	TypeTutorial,
}

// IsValid проверяет, что тип канонический.
func (t Type) IsValid() bool {
	for _, c := range CanonicalTypes {
		if t == c {
			return true
		}
	}
	return false
}

// String возвращает строковое представление.
func (t Type) String() string {
	return string(t)
}

// ParseType разбирает строку в Type. Неизвестные значения дают TypeUnknown.
func ParseType(s string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t
	}
	return TypeUnknown
}

// ══════════════════════════════════════════════════════════════════════════════
// RESOURCE
// ══════════════════════════════════════════════════════════════════════════════

// Resource представляет кандидата в учебные ресурсы.
// Запись живёт в пределах одного запроса; ядро не владеет её жизненным циклом.
type Resource struct {
	// Title - название ресурса.
	Title string `json:"title"`

	// URL - адрес ресурса.
	URL string `json:"url"`

	// Description - краткое описание.
	Description string `json:"description"`

	// Type - тип ресурса.
	Type Type `json:"resource_type"`

	// QualityScore - оценка качества (0-100). 0 означает "не оценён" -
	// такой ресурс пройдёт через скорер перед отбором.
	QualityScore int `json:"quality_score"`
}

// IsWellFormed проверяет наличие обязательных полей.
// Некорректные записи молча отбрасываются в проходе дедупликации.
func (r Resource) IsWellFormed() bool {
	return strings.TrimSpace(r.URL) != "" && strings.TrimSpace(r.Title) != ""
}

// Domain возвращает домен ресурса в нижнем регистре (без порта).
// Пустая строка, если URL не разбирается.
func (r Resource) Domain() string {
	u, err := url.Parse(strings.TrimSpace(r.URL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// NormalizedURL возвращает URL в нижнем регистре без хвостового слеша.
// Используется как ключ дедупликации.
func (r Resource) NormalizedURL() string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(r.URL)), "/")
}
