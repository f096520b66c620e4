package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)

	assert.Equal(t, 0, m.TotalResources)
	assert.Equal(t, "F", m.Grade)
	assert.Equal(t, []string{"No resources found"}, m.Recommendations)
}

func TestComputeMetrics_FullyUniqueCollection(t *testing.T) {
	list := []Resource{
		{Title: "Context cancellation patterns", URL: "https://a.example/1", Type: TypeDocumentation, QualityScore: 95},
		{Title: "Worker pools from scratch", URL: "https://b.example/2", Type: TypeVideo, QualityScore: 90},
		{Title: "Errgroup in production", URL: "https://c.example/3", Type: TypeArticle, QualityScore: 92},
		{Title: "Concurrency exercise repo", URL: "https://d.example/4", Type: TypeGitHub, QualityScore: 88},
	}
	m := ComputeMetrics(list)

	assert.Equal(t, 4, m.TotalResources)
	assert.InDelta(t, 100.0, m.UniquenessScore, 0.001)
	assert.InDelta(t, 91.25, m.AvgQualityScore, 0.001)
	// Four types over four resources: 4/4*80 + 15 bonus = 95.
	assert.InDelta(t, 95.0, m.DiversityScore, 0.001)
	// 91.25*0.4 + 95*0.35 + 100*0.25 = 94.75.
	assert.InDelta(t, 94.75, m.OverallScore, 0.001)
	assert.Equal(t, "A+", m.Grade)
	assert.Equal(t, []string{"Excellent resource collection!"}, m.Recommendations)
}

func TestComputeMetrics_DuplicatesLowerUniqueness(t *testing.T) {
	list := []Resource{
		{Title: "Same topic", URL: "https://a.example/1", Type: TypeArticle, QualityScore: 70},
		{Title: "Same topic", URL: "https://a.example/1", Type: TypeArticle, QualityScore: 70},
	}
	m := ComputeMetrics(list)

	// One unique URL and one unique title across two entries.
	assert.InDelta(t, 50.0, m.UniquenessScore, 0.001)
	assert.Contains(t, m.Recommendations, "Remove duplicate or similar resources")
	assert.Contains(t, m.Recommendations, "Consider higher-quality sources")
}

func TestComputeMetrics_SingleTypeCollectionFlagsDiversity(t *testing.T) {
	list := []Resource{
		{Title: "Post one", URL: "https://a.example/1", Type: TypeArticle, QualityScore: 85},
		{Title: "Post two", URL: "https://b.example/2", Type: TypeArticle, QualityScore: 85},
		{Title: "Post three", URL: "https://c.example/3", Type: TypeArticle, QualityScore: 85},
		{Title: "Post four", URL: "https://d.example/4", Type: TypeArticle, QualityScore: 85},
		{Title: "Post five", URL: "https://e.example/5", Type: TypeArticle, QualityScore: 85},
		{Title: "Post six", URL: "https://f.example/6", Type: TypeArticle, QualityScore: 85},
	}
	m := ComputeMetrics(list)

	// One type over the six canonical slots, no bonus.
	assert.InDelta(t, 80.0/6.0, m.DiversityScore, 0.001)
	assert.Contains(t, m.Recommendations, "Add more diverse resource types (videos, documentation, tutorials)")
}

func TestComputeMetrics_TypeDistribution(t *testing.T) {
	list := []Resource{
		{Title: "A", URL: "https://a.example/1", Type: TypeVideo, QualityScore: 80},
		{Title: "B", URL: "https://b.example/2", Type: TypeVideo, QualityScore: 80},
		{Title: "C", URL: "https://c.example/3", Type: TypeArticle, QualityScore: 80},
	}
	m := ComputeMetrics(list)

	assert.Equal(t, map[Type]int{TypeVideo: 2, TypeArticle: 1}, m.TypeDistribution)
}
