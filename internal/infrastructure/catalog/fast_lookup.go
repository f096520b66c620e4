package catalog

import (
	"fmt"
	"strings"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
)

// FastLookupResources returns skill-level fallback resources without any
// network calls. Resolution order: exact normalized key, then alias
// substring match, then generated universal resources. Never returns nil.
func FastLookupResources(skill string) []resource.Resource {
	key := normalizeKey(skill)

	if list, ok := fastLookupTable[key]; ok {
		return cloneList(list)
	}

	// Aliases are checked in declaration order; the first match wins.
	for _, alias := range fastLookupAliases {
		if strings.Contains(key, alias.contains) {
			if list, ok := fastLookupTable[alias.key]; ok {
				return cloneList(list)
			}
		}
	}

	return universalResources(skill)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cloneList(list []resource.Resource) []resource.Resource {
	out := make([]resource.Resource, len(list))
	copy(out, list)
	return out
}

type aliasRule struct {
	contains string
	key      string
}

// fastLookupAliases routes common skill name variations to table keys.
// More specific substrings come first.
var fastLookupAliases = []aliasRule{
	{"python basics", "python"},
	{"object-oriented", "python"},
	{"oop", "python"},
	{"python", "python"},
	{"javascript fundamentals", "javascript"},
	{"async", "javascript"},
	{"js", "javascript"},
	{"javascript", "javascript"},
	{"react", "react"},
	{"html", "html"},
	{"css", "css"},
	{"machine learning", "machine learning"},
	{"data structures and algorithms", "data structures"},
	{"data structure", "data structures"},
	{"dsa", "data structures"},
	{"node", "node.js"},
	{"git", "git"},
	{"sql", "sql"},
	{"database", "sql"},
}

// fastLookupTable maps normalized skill names to fallback resources.
// When the same key is defined twice, the later definition wins; this is
// the documented override rule for curation updates.
var fastLookupTable = map[string][]resource.Resource{
	"python": {
		{Title: "Python Official Documentation", URL: "https://docs.python.org/3/", Description: "The definitive Python language reference", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "Python for Everybody Specialization", URL: "https://www.freecodecamp.org/learn/python-for-everybody/", Description: "Free comprehensive Python course", Type: resource.TypeCourse, QualityScore: 90},
		{Title: "Automate the Boring Stuff", URL: "https://automatetheboringstuff.com/", Description: "Practical Python programming for beginners", Type: resource.TypeArticle, QualityScore: 88},
		{Title: "Python Crash Course Video", URL: "https://www.youtube.com/watch?v=rfscVS0vtbw", Description: "Full Python course for beginners", Type: resource.TypeVideo, QualityScore: 85},
	},
	"javascript": {
		{Title: "JavaScript - MDN Web Docs", URL: "https://developer.mozilla.org/en-US/docs/Web/JavaScript", Description: "Complete JavaScript documentation and guides", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "The Modern JavaScript Tutorial", URL: "https://javascript.info/", Description: "From fundamentals to advanced browser APIs", Type: resource.TypeTutorial, QualityScore: 90},
		{Title: "JavaScript Algorithms Certification", URL: "https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures/", Description: "Interactive JavaScript exercises and projects", Type: resource.TypeCourse, QualityScore: 89},
		{Title: "You Don't Know JS", URL: "https://github.com/getify/You-Dont-Know-JS", Description: "Deep dive book series on JavaScript internals", Type: resource.TypeGitHub, QualityScore: 87},
	},
	"react": {
		{Title: "React Documentation", URL: "https://react.dev/learn", Description: "Official React learning path", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "React Official Tutorial", URL: "https://react.dev/learn/tutorial-tic-tac-toe", Description: "Hands-on introduction building a small game", Type: resource.TypeTutorial, QualityScore: 90},
		{Title: "Awesome React", URL: "https://github.com/enaqx/awesome-react", Description: "Curated collection of React resources and tools", Type: resource.TypeGitHub, QualityScore: 84},
	},
	"html": {
		{Title: "HTML - MDN Web Docs", URL: "https://developer.mozilla.org/en-US/docs/Web/HTML", Description: "HTML element and attribute reference", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "Responsive Web Design Certification", URL: "https://www.freecodecamp.org/learn/2022/responsive-web-design/", Description: "Free HTML and CSS certification", Type: resource.TypeCourse, QualityScore: 90},
	},
	"css": {
		{Title: "CSS - MDN Web Docs", URL: "https://developer.mozilla.org/en-US/docs/Web/CSS", Description: "CSS property reference and layout guides", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "CSS-Tricks Guides", URL: "https://css-tricks.com/guides/", Description: "In-depth guides for flexbox, grid and more", Type: resource.TypeArticle, QualityScore: 88},
	},
	"machine learning": {
		{Title: "Machine Learning Crash Course", URL: "https://developers.google.com/machine-learning/crash-course", Description: "Google's fast-paced practical introduction to ML", Type: resource.TypeCourse, QualityScore: 92},
		{Title: "Scikit-learn Documentation", URL: "https://scikit-learn.org/stable/user_guide.html", Description: "User guide for the standard Python ML library", Type: resource.TypeDocumentation, QualityScore: 90},
		{Title: "ML From Scratch", URL: "https://github.com/eriklindernoren/ML-From-Scratch", Description: "Bare-bones implementations of core ML algorithms", Type: resource.TypeGitHub, QualityScore: 85},
	},
	"data structures": {
		{Title: "Data Structures - GeeksforGeeks", URL: "https://www.geeksforgeeks.org/data-structures/", Description: "Every core data structure with implementations", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Algorithms Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/Algorithms.html", Description: "Interactive visualizations for classic structures", Type: resource.TypeArticle, QualityScore: 90},
		{Title: "LeetCode Explore", URL: "https://leetcode.com/explore/", Description: "Structured practice tracks by topic", Type: resource.TypeCourse, QualityScore: 89},
		{Title: "The Algorithms - Python", URL: "https://github.com/TheAlgorithms/Python", Description: "Reference implementations of algorithms in Python", Type: resource.TypeGitHub, QualityScore: 85},
	},
	"node.js": {
		{Title: "Node.js Documentation", URL: "https://nodejs.org/en/docs/", Description: "Official Node.js API documentation", Type: resource.TypeDocumentation, QualityScore: 94},
		{Title: "Node.js Best Practices", URL: "https://github.com/goldbergyoni/nodebestpractices", Description: "Community-maintained Node.js best practices", Type: resource.TypeGitHub, QualityScore: 88},
	},
	"git": {
		{Title: "Pro Git Book", URL: "https://git-scm.com/book/en/v2", Description: "The complete free Git reference book", Type: resource.TypeDocumentation, QualityScore: 94},
		{Title: "Learn Git Branching", URL: "https://learngitbranching.js.org/", Description: "Interactive git branching exercises", Type: resource.TypeTutorial, QualityScore: 90},
	},
	"sql": {
		{Title: "SQLBolt Interactive Lessons", URL: "https://sqlbolt.com/", Description: "Interactive SQL lessons and exercises", Type: resource.TypeTutorial, QualityScore: 90},
		{Title: "PostgreSQL Documentation", URL: "https://www.postgresql.org/docs/current/tutorial.html", Description: "Official PostgreSQL tutorial", Type: resource.TypeDocumentation, QualityScore: 92},
		{Title: "SQL Practice Problems", URL: "https://leetcode.com/problemset/database/", Description: "Database querying problems with solutions", Type: resource.TypeCourse, QualityScore: 87},
	},
}

// universalResources builds generic resources for skills with no curated
// entry. The links are search and topic URLs that exist for any skill.
func universalResources(skill string) []resource.Resource {
	clean := strings.TrimSpace(skill)
	if clean == "" {
		return []resource.Resource{}
	}
	slug := strings.ReplaceAll(strings.ToLower(clean), " ", "-")

	return []resource.Resource{
		{
			Title:        fmt.Sprintf("%s - YouTube Tutorials", clean),
			URL:          fmt.Sprintf("https://www.youtube.com/results?search_query=%s+tutorial", strings.ReplaceAll(slug, "-", "+")),
			Description:  fmt.Sprintf("Video tutorials covering %s from beginner to advanced", clean),
			Type:         resource.TypeVideo,
			QualityScore: 75,
		},
		{
			Title:        fmt.Sprintf("%s Projects on GitHub", clean),
			URL:          fmt.Sprintf("https://github.com/topics/%s", slug),
			Description:  fmt.Sprintf("Open source projects and examples for %s", clean),
			Type:         resource.TypeGitHub,
			QualityScore: 72,
		},
		{
			Title:        fmt.Sprintf("%s Articles and Guides", clean),
			URL:          fmt.Sprintf("https://dev.to/t/%s", slug),
			Description:  fmt.Sprintf("Community articles about %s", clean),
			Type:         resource.TypeArticle,
			QualityScore: 70,
		},
	}
}
