// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/infrastructure/catalog"
	"github.com/skillsprint/skillsprint-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SUBSKILL RESOURCES QUERY
// Собирает список ресурсов для поднавыка из трёх источников:
// специализированная таблица (точный ключ), быстрая таблица
// (нормализованный ключ) и внешний поставщик. Объединённые кандидаты
// проходят скоринг и отбор, результат кешируется с TTL.
// ══════════════════════════════════════════════════════════════════════════════

// ResourceCache - кеш отобранных списков ресурсов.
// Реализации: Redis-кеш и in-process кеш при отключённом Redis.
type ResourceCache interface {
	// GetResources возвращает закешированный список (ok=false при промахе).
	GetResources(ctx context.Context, skillID int64, subskill string) ([]resource.Resource, bool)

	// PutResources сохраняет список с TTL. Ошибки записи глушатся.
	PutResources(ctx context.Context, skillID int64, subskill string, list []resource.Resource)

	// InvalidateResources удаляет закешированный список.
	InvalidateResources(ctx context.Context, skillID int64, subskill string)
}

// ResourceSupplier - внешний поставщик кандидатов.
// Контракт: при любом сбое возвращает пустой список, не ошибку.
type ResourceSupplier interface {
	Search(ctx context.Context, subskill string, limit int) []resource.Resource
}

// GetSubskillResourcesQuery содержит параметры запроса ресурсов.
type GetSubskillResourcesQuery struct {
	// SkillID - навык, которому принадлежит поднавык.
	SkillID shared.SkillID

	// SubskillName - поднавык, для которого собираются ресурсы.
	SubskillName string

	// MaxCount - размер итогового списка (по умолчанию 8, максимум 20).
	MaxCount int

	// IncludeMetrics - добавить метрики качества набора в ответ.
	IncludeMetrics bool

	// BypassCache - собрать список заново, минуя кеш.
	BypassCache bool
}

// Validate проверяет корректность параметров запроса.
func (q *GetSubskillResourcesQuery) Validate() error {
	if !q.SkillID.IsValid() {
		return errors.New("skill_id must be positive")
	}
	if strings.TrimSpace(q.SubskillName) == "" {
		return errors.New("subskill_name is required")
	}
	if q.MaxCount < 0 {
		return errors.New("max_count cannot be negative")
	}
	if q.MaxCount == 0 {
		q.MaxCount = 8
	}
	if q.MaxCount > 20 {
		q.MaxCount = 20
	}
	return nil
}

// GetSubskillResourcesResult содержит отобранный список ресурсов.
type GetSubskillResourcesResult struct {
	// SkillID - навык из запроса.
	SkillID shared.SkillID `json:"skill_id"`

	// SubskillName - поднавык из запроса.
	SubskillName string `json:"subskill_name"`

	// Resources - итоговый список после скоринга и отбора.
	Resources []resource.Resource `json:"resources"`

	// FromCache - список взят из кеша.
	FromCache bool `json:"from_cache"`

	// Metrics - метрики качества набора (nil, если не запрошены).
	Metrics *resource.CollectionMetrics `json:"metrics,omitempty"`
}

// GetSubskillResourcesHandler обрабатывает запросы списка ресурсов.
type GetSubskillResourcesHandler struct {
	cache    ResourceCache
	supplier ResourceSupplier
	selector *resource.Selector
	logger   *logger.Logger

	supplierLimit int
}

// GetSubskillResourcesHandlerConfig содержит настройки обработчика.
type GetSubskillResourcesHandlerConfig struct {
	// SupplierLimit - сколько кандидатов запрашивать у поставщика.
	SupplierLimit int
}

// DefaultGetSubskillResourcesHandlerConfig возвращает настройки по умолчанию.
func DefaultGetSubskillResourcesHandlerConfig() GetSubskillResourcesHandlerConfig {
	return GetSubskillResourcesHandlerConfig{
		SupplierLimit: 10,
	}
}

// NewGetSubskillResourcesHandler создаёт новый обработчик.
// cache и supplier могут быть nil: без кеша список собирается каждый раз,
// без поставщика используются только статические таблицы.
func NewGetSubskillResourcesHandler(
	cache ResourceCache,
	supplier ResourceSupplier,
	selector *resource.Selector,
	log *logger.Logger,
	config GetSubskillResourcesHandlerConfig,
) *GetSubskillResourcesHandler {
	if config.SupplierLimit <= 0 {
		config = DefaultGetSubskillResourcesHandlerConfig()
	}
	if selector == nil {
		scorer := resource.NewScorer(resource.DefaultScorerConfig())
		selector = resource.NewSelector(resource.DefaultSelectorConfig(), scorer)
	}
	if log == nil {
		log = logger.Default()
	}
	return &GetSubskillResourcesHandler{
		cache:         cache,
		supplier:      supplier,
		selector:      selector,
		logger:        log.With(logger.Component("get_subskill_resources")),
		supplierLimit: config.SupplierLimit,
	}
}

// Handle выполняет запрос списка ресурсов.
func (h *GetSubskillResourcesHandler) Handle(ctx context.Context, q GetSubskillResourcesQuery) (*GetSubskillResourcesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_subskill_resources: validation failed: %w", err)
	}

	if h.cache != nil && !q.BypassCache {
		if cached, ok := h.cache.GetResources(ctx, q.SkillID.Int64(), q.SubskillName); ok {
			return h.buildResult(q, cached, true), nil
		}
	}

	selected := h.assemble(ctx, q)

	if h.cache != nil && len(selected) > 0 {
		h.cache.PutResources(ctx, q.SkillID.Int64(), q.SubskillName, selected)
	}

	return h.buildResult(q, selected, false), nil
}

// assemble собирает кандидатов из всех источников и прогоняет отбор.
func (h *GetSubskillResourcesHandler) assemble(ctx context.Context, q GetSubskillResourcesQuery) []resource.Resource {
	specialized := catalog.SpecializedResources(q.SubskillName)
	fast := catalog.FastLookupResources(q.SubskillName)

	var supplied []resource.Resource
	if h.supplier != nil {
		supplied = h.supplier.Search(ctx, q.SubskillName, h.supplierLimit)
	}

	candidates := make([]resource.Resource, 0, len(specialized)+len(fast)+len(supplied))
	candidates = append(candidates, specialized...)
	candidates = append(candidates, fast...)
	candidates = append(candidates, supplied...)

	selected := h.selector.Select(candidates, q.MaxCount)

	h.logger.Debug("resource list assembled",
		logger.SkillID(q.SkillID.Int64()),
		logger.Subskill(q.SubskillName),
		logger.Int("candidates", len(candidates)),
		logger.ResourceCount(len(selected)),
	)
	return selected
}

func (h *GetSubskillResourcesHandler) buildResult(
	q GetSubskillResourcesQuery,
	list []resource.Resource,
	fromCache bool,
) *GetSubskillResourcesResult {
	result := &GetSubskillResourcesResult{
		SkillID:      q.SkillID,
		SubskillName: q.SubskillName,
		Resources:    list,
		FromCache:    fromCache,
	}
	if q.IncludeMetrics {
		metrics := resource.ComputeMetrics(list)
		result.Metrics = &metrics
	}
	return result
}
