package resource

// ══════════════════════════════════════════════════════════════════════════════
// COLLECTION METRICS
// Метрики качества отобранного набора: уникальность, среднее качество,
// разнообразие типов и итоговая буквенная оценка.
// ══════════════════════════════════════════════════════════════════════════════

// CollectionMetrics описывает качество набора ресурсов.
type CollectionMetrics struct {
	// TotalResources - размер набора.
	TotalResources int `json:"total_resources"`

	// UniquenessScore - доля уникальных URL и названий (0-100).
	UniquenessScore float64 `json:"uniqueness_score"`

	// AvgQualityScore - средняя оценка качества.
	AvgQualityScore float64 `json:"avg_quality_score"`

	// DiversityScore - разнообразие типов (0-100).
	DiversityScore float64 `json:"resource_diversity"`

	// OverallScore - взвешенная итоговая оценка.
	OverallScore float64 `json:"overall_score"`

	// Grade - буквенная оценка (A+ .. F).
	Grade string `json:"performance_grade"`

	// TypeDistribution - распределение по типам.
	TypeDistribution map[Type]int `json:"resource_type_distribution"`

	// Recommendations - подсказки по улучшению набора.
	Recommendations []string `json:"recommendations"`
}

// idealTypeCount - количество канонических типов ресурсов.
const idealTypeCount = 6

// ComputeMetrics вычисляет метрики набора ресурсов.
// Качество весит больше всего (40%), затем разнообразие (35%),
// затем уникальность (25%).
func ComputeMetrics(list []Resource) CollectionMetrics {
	if len(list) == 0 {
		return CollectionMetrics{
			Grade:            "F",
			TypeDistribution: map[Type]int{},
			Recommendations:  []string{"No resources found"},
		}
	}

	uniqueURLs := make(map[string]struct{}, len(list))
	uniqueTitles := make(map[string]struct{}, len(list))
	distribution := make(map[Type]int)
	totalQuality := 0

	for _, r := range list {
		uniqueURLs[r.NormalizedURL()] = struct{}{}
		uniqueTitles[r.Title] = struct{}{}
		distribution[r.Type]++
		totalQuality += r.QualityScore
	}

	uniqueness := float64(len(uniqueURLs)+len(uniqueTitles)) / float64(2*len(list)) * 100
	if uniqueness > 100 {
		uniqueness = 100
	}

	avgQuality := float64(totalQuality) / float64(len(list))

	uniqueTypes := len(distribution)
	var diversityBonus float64
	switch {
	case uniqueTypes >= 5:
		diversityBonus = 20
	case uniqueTypes >= 4:
		diversityBonus = 15
	case uniqueTypes >= 3:
		diversityBonus = 10
	}

	denominator := idealTypeCount
	if len(list) < denominator {
		denominator = len(list)
	}
	diversity := float64(uniqueTypes)/float64(denominator)*80 + diversityBonus
	if diversity > 100 {
		diversity = 100
	}

	overall := avgQuality*0.4 + diversity*0.35 + uniqueness*0.25

	recommendations := make([]string, 0, 3)
	if avgQuality < 80 {
		recommendations = append(recommendations, "Consider higher-quality sources")
	}
	if diversity < 60 {
		recommendations = append(recommendations, "Add more diverse resource types (videos, documentation, tutorials)")
	}
	if uniqueness < 90 {
		recommendations = append(recommendations, "Remove duplicate or similar resources")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Excellent resource collection!")
	}

	return CollectionMetrics{
		TotalResources:   len(list),
		UniquenessScore:  uniqueness,
		AvgQualityScore:  avgQuality,
		DiversityScore:   diversity,
		OverallScore:     overall,
		Grade:            gradeFor(overall),
		TypeDistribution: distribution,
		Recommendations:  recommendations,
	}
}

// gradeFor переводит итоговую оценку в буквенную.
func gradeFor(overall float64) string {
	switch {
	case overall >= 92:
		return "A+"
	case overall >= 88:
		return "A"
	case overall >= 82:
		return "A-"
	case overall >= 78:
		return "B+"
	case overall >= 75:
		return "B"
	case overall >= 70:
		return "B-"
	case overall >= 65:
		return "C+"
	case overall >= 60:
		return "C"
	case overall >= 55:
		return "C-"
	case overall >= 50:
		return "D"
	default:
		return "F"
	}
}
