package catalog

import (
	"strings"

	"github.com/skillsprint/skillsprint-backend/internal/domain/quiz"
	"github.com/skillsprint/skillsprint-backend/internal/domain/shared"
)

// QuizQuestions returns up to count questions for a topic, preferring the
// requested difficulty tier and topping up from neighboring tiers when the
// bank runs short. Unknown topics get generic study-habit questions so a
// quiz can always be served.
func QuizQuestions(topic string, difficulty shared.Difficulty, count int) []quiz.Question {
	if count <= 0 {
		return []quiz.Question{}
	}

	bank, ok := questionBanks[normalizeKey(topic)]
	if !ok {
		return genericQuestions(topic, count)
	}

	selected := make([]quiz.Question, 0, count)
	seen := make(map[string]struct{})

	// Preferred tier first, then the remaining tiers in fixed order.
	tiers := []shared.Difficulty{
		difficulty,
		shared.DifficultyBeginner,
		shared.DifficultyIntermediate,
		shared.DifficultyAdvanced,
	}
	for _, tier := range tiers {
		for _, q := range bank {
			if len(selected) >= count {
				return selected
			}
			if q.Difficulty != tier {
				continue
			}
			if _, dup := seen[q.Prompt]; dup {
				continue
			}
			seen[q.Prompt] = struct{}{}
			selected = append(selected, q)
		}
	}

	if len(selected) < count {
		selected = append(selected, genericQuestions(topic, count-len(selected))...)
	}
	return selected
}

// genericQuestions builds fallback questions when no bank exists.
func genericQuestions(topic string, count int) []quiz.Question {
	clean := strings.TrimSpace(topic)
	if clean == "" {
		clean = "this skill"
	}

	base := []quiz.Question{
		{
			Prompt:       "What is the most effective starting point when learning " + clean + "?",
			Options:      []string{"Understanding the fundamentals", "Memorizing everything", "Skipping practice", "Avoiding documentation"},
			CorrectIndex: 0,
			Topic:        clean,
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "Which habit most improves long-term retention of " + clean + "?",
			Options:      []string{"Regular spaced practice", "A single long cram session", "Reading without exercises", "Watching videos at 3x speed"},
			CorrectIndex: 0,
			Topic:        clean,
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "When stuck on a problem in " + clean + ", what is the best first step?",
			Options:      []string{"Re-read the relevant documentation", "Give up immediately", "Delete your work", "Guess randomly until it works"},
			CorrectIndex: 0,
			Topic:        clean,
			Difficulty:   shared.DifficultyBeginner,
		},
	}

	if count < len(base) {
		base = base[:count]
	}
	return base
}

// questionBanks holds static per-topic question banks keyed by normalized
// topic name.
var questionBanks = map[string][]quiz.Question{
	"arrays": {
		{
			Prompt:       "What is the time complexity of accessing an element by index in an array?",
			Options:      []string{"O(1)", "O(n)", "O(log n)", "O(n log n)"},
			CorrectIndex: 0,
			Topic:        "Arrays",
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "What happens when you insert an element at the front of a dynamic array?",
			Options:      []string{"All existing elements shift one position right", "The array reverses", "Nothing, front inserts are free", "The array is sorted automatically"},
			CorrectIndex: 0,
			Topic:        "Arrays",
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "Which technique finds a pair summing to a target in a sorted array in O(n)?",
			Options:      []string{"Two pointers", "Bubble sort", "Binary tree traversal", "Hashing every prefix"},
			CorrectIndex: 0,
			Topic:        "Arrays",
			Difficulty:   shared.DifficultyIntermediate,
		},
		{
			Prompt:       "What is the amortized cost of append in a doubling dynamic array?",
			Options:      []string{"O(1)", "O(n)", "O(log n)", "O(n^2)"},
			CorrectIndex: 0,
			Topic:        "Arrays",
			Difficulty:   shared.DifficultyAdvanced,
		},
	},
	"python basics": {
		{
			Prompt:       "Which of these is a valid Python variable assignment?",
			Options:      []string{"count = 10", "10 = count", "int count = 10;", "let count = 10"},
			CorrectIndex: 0,
			Topic:        "Python Basics",
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "What does len(\"hello\") return?",
			Options:      []string{"5", "4", "6", "An error"},
			CorrectIndex: 0,
			Topic:        "Python Basics",
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "Which collection type preserves insertion order and allows duplicates?",
			Options:      []string{"list", "set", "frozenset", "dict keys"},
			CorrectIndex: 0,
			Topic:        "Python Basics",
			Difficulty:   shared.DifficultyIntermediate,
		},
		{
			Prompt:       "What is the result of [x * 2 for x in range(3)]?",
			Options:      []string{"[0, 2, 4]", "[2, 4, 6]", "[0, 1, 2]", "[1, 2, 3]"},
			CorrectIndex: 0,
			Topic:        "Python Basics",
			Difficulty:   shared.DifficultyIntermediate,
		},
	},
	"javascript fundamentals": {
		{
			Prompt:       "Which keyword declares a block-scoped variable in JavaScript?",
			Options:      []string{"let", "var", "def", "dim"},
			CorrectIndex: 0,
			Topic:        "JavaScript Fundamentals",
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "What does '2' + 2 evaluate to in JavaScript?",
			Options:      []string{"\"22\"", "4", "NaN", "A TypeError"},
			CorrectIndex: 0,
			Topic:        "JavaScript Fundamentals",
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "Which statement about Promises is correct?",
			Options:      []string{"A settled promise cannot change state again", "Promises run callbacks synchronously", "await works outside async functions everywhere", "A rejected promise retries automatically"},
			CorrectIndex: 0,
			Topic:        "JavaScript Fundamentals",
			Difficulty:   shared.DifficultyAdvanced,
		},
	},
	"sql": {
		{
			Prompt:       "Which clause filters rows before grouping?",
			Options:      []string{"WHERE", "HAVING", "ORDER BY", "LIMIT"},
			CorrectIndex: 0,
			Topic:        "SQL",
			Difficulty:   shared.DifficultyBeginner,
		},
		{
			Prompt:       "What does an INNER JOIN return?",
			Options:      []string{"Only rows with matches in both tables", "All rows from both tables", "Only rows without matches", "The cartesian product"},
			CorrectIndex: 0,
			Topic:        "SQL",
			Difficulty:   shared.DifficultyIntermediate,
		},
		{
			Prompt:       "Which index type best supports prefix searches on text columns?",
			Options:      []string{"B-tree", "Hash", "Bitmap", "BRIN"},
			CorrectIndex: 0,
			Topic:        "SQL",
			Difficulty:   shared.DifficultyAdvanced,
		},
	},
}
