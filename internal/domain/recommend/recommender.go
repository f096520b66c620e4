package recommend

import (
	"fmt"
	"sort"

	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIG
// ══════════════════════════════════════════════════════════════════════════════

// Config задаёт параметры рекомендателя.
type Config struct {
	// SimilarityThreshold - минимальное косинусное сходство,
	// при котором ученик считается похожим.
	SimilarityThreshold float64

	// MaxSimilarUsers - сколько похожих учеников учитывать.
	MaxSimilarUsers int
}

// DefaultConfig возвращает параметры по умолчанию.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.7,
		MaxSimilarUsers:     10,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATION
// ══════════════════════════════════════════════════════════════════════════════

// Recommendation - одна рекомендация навыка.
type Recommendation struct {
	SkillID     shared.SkillID `json:"skill_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Score       float64        `json:"score"`
	Reason      string         `json:"reason"`
}

// LearnerProgress - прогресс одного ученика, вход рекомендателя.
type LearnerProgress struct {
	LearnerID shared.LearnerID
	Progress  []*skill.Progress
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDER
// ══════════════════════════════════════════════════════════════════════════════

// Recommender строит рекомендации по завершённым навыкам похожих учеников.
type Recommender struct {
	cfg Config
}

// NewRecommender создаёт рекомендатель с заданной конфигурацией.
func NewRecommender(cfg Config) *Recommender {
	if cfg.SimilarityThreshold <= 0 || cfg.MaxSimilarUsers <= 0 {
		cfg = DefaultConfig()
	}
	return &Recommender{cfg: cfg}
}

type similarLearner struct {
	progress   []*skill.Progress
	similarity float64
}

// Recommend возвращает до limit навыков, которые завершили похожие
// ученики, а целевой ещё не начинал. Если похожих нет (холодный старт),
// возвращается рейтинг популярности.
func (r *Recommender) Recommend(
	targetProgress []*skill.Progress,
	others []LearnerProgress,
	skills map[shared.SkillID]*skill.Skill,
	limit int,
) []Recommendation {
	if limit <= 0 {
		return []Recommendation{}
	}

	similar := r.findSimilar(targetProgress, others)
	if len(similar) == 0 {
		return r.PopularityFallback(others, skills, limit)
	}

	started := make(map[shared.SkillID]struct{}, len(targetProgress))
	for _, p := range targetProgress {
		started[p.SkillID] = struct{}{}
	}

	// Накопление: сходство * процент прогресса по каждому завершённому
	// навыку похожего ученика.
	scores := make(map[shared.SkillID]float64)
	for _, s := range similar {
		for _, p := range s.progress {
			if !p.Completed {
				continue
			}
			if _, ok := started[p.SkillID]; ok {
				continue
			}
			scores[p.SkillID] += s.similarity * float64(p.ProgressPercentage)
		}
	}

	ranked := rankScores(scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recs := make([]Recommendation, 0, len(ranked))
	for _, sc := range ranked {
		sk, ok := skills[sc.skillID]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			SkillID:     sc.skillID,
			Title:       sk.Name,
			Description: sk.Description,
			Score:       sc.score,
			Reason:      "Users with similar learning patterns completed this skill",
		})
	}
	return recs
}

// findSimilar возвращает учеников со сходством выше порога,
// отсортированных по убыванию сходства, не более MaxSimilarUsers.
func (r *Recommender) findSimilar(
	targetProgress []*skill.Progress,
	others []LearnerProgress,
) []similarLearner {
	if len(targetProgress) == 0 {
		return nil
	}

	target := BuildVector(targetProgress)

	similar := make([]similarLearner, 0)
	for _, other := range others {
		if len(other.Progress) == 0 {
			continue
		}
		sim := Cosine(target, BuildVector(other.Progress))
		if sim > r.cfg.SimilarityThreshold {
			similar = append(similar, similarLearner{
				progress:   other.Progress,
				similarity: sim,
			})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].similarity > similar[j].similarity
	})
	if len(similar) > r.cfg.MaxSimilarUsers {
		similar = similar[:r.cfg.MaxSimilarUsers]
	}
	return similar
}

// PopularityFallback ранжирует навыки по числу учеников с любым
// прогрессом по ним. Используется при холодном старте.
func (r *Recommender) PopularityFallback(
	others []LearnerProgress,
	skills map[shared.SkillID]*skill.Skill,
	limit int,
) []Recommendation {
	if limit <= 0 {
		return []Recommendation{}
	}

	counts := make(map[shared.SkillID]int)
	for _, other := range others {
		seen := make(map[shared.SkillID]struct{})
		for _, p := range other.Progress {
			if _, ok := seen[p.SkillID]; ok {
				continue
			}
			seen[p.SkillID] = struct{}{}
			counts[p.SkillID]++
		}
	}

	scores := make(map[shared.SkillID]float64, len(counts))
	for id, c := range counts {
		scores[id] = float64(c)
	}

	ranked := rankScores(scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recs := make([]Recommendation, 0, len(ranked))
	for _, sc := range ranked {
		sk, ok := skills[sc.skillID]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			SkillID:     sc.skillID,
			Title:       sk.Name,
			Description: sk.Description,
			Score:       sc.score,
			Reason:      fmt.Sprintf("Popular choice among learners (%d users)", int(sc.score)),
		})
	}
	return recs
}

type scoredSkill struct {
	skillID shared.SkillID
	score   float64
}

// rankScores сортирует по убыванию балла; при равенстве - по ID навыка,
// чтобы результат был детерминированным.
func rankScores(scores map[shared.SkillID]float64) []scoredSkill {
	ranked := make([]scoredSkill, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, scoredSkill{skillID: id, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].skillID < ranked[j].skillID
	})
	return ranked
}
