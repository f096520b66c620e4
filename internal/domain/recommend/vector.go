// Package recommend реализует коллаборативные рекомендации навыков
// по сходству прогресса учеников.
package recommend

import (
	"math"

	"github.com/skillsprint/skillsprint-backend/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// VECTOR
// Плотное представление прогресса ученика: индекс = ID навыка,
// значение = доля прогресса [0, 1]. ID навыков считаются плотными
// небольшими целыми, поэтому массив, а не map.
// ══════════════════════════════════════════════════════════════════════════════

// Vector - вектор прогресса ученика по навыкам.
type Vector []float64

// BuildVector строит вектор из строк прогресса.
// Длина = максимальный наблюдаемый ID навыка + 1.
func BuildVector(progress []*skill.Progress) Vector {
	if len(progress) == 0 {
		return Vector{}
	}

	maxID := int64(0)
	for _, p := range progress {
		if int64(p.SkillID) > maxID {
			maxID = int64(p.SkillID)
		}
	}

	v := make(Vector, maxID+1)
	for _, p := range progress {
		v[int64(p.SkillID)] = p.ProgressPercentage.Ratio()
	}
	return v
}

// Cosine вычисляет косинусное сходство двух векторов.
// Более короткий вектор дополняется нулями. Сходство с нулевым
// вектором определено как 0.0, а не ошибка деления.
func Cosine(a, b Vector) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		var x, y float64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
