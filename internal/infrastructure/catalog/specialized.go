// Package catalog provides static, hand-curated learning resource tables
// and quiz question banks. It is the first stop of the resource pipeline:
// no network calls, deterministic output, safe under supplier outages.
package catalog

import (
	"strings"

	"github.com/skillsprint/skillsprint-backend/internal/domain/resource"
)

// SpecializedResources returns the curated resource list for an exact
// subskill, or nil if the subskill has no curated entry. Keys are matched
// case-insensitively after trimming.
func SpecializedResources(subskill string) []resource.Resource {
	key := strings.ToLower(strings.TrimSpace(subskill))
	list, ok := specializedTable[key]
	if !ok {
		return nil
	}
	out := make([]resource.Resource, len(list))
	copy(out, list)
	return out
}

// specializedTable maps lowercase subskill names to vetted resources.
// Scores here are editorial and pre-assigned, so the scorer keeps them.
var specializedTable = map[string][]resource.Resource{
	"arrays": {
		{Title: "Array Data Structure - GeeksforGeeks", URL: "https://www.geeksforgeeks.org/array-data-structure/", Description: "Comprehensive guide to arrays with problems and solutions", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Array Problems - LeetCode", URL: "https://leetcode.com/tag/array/", Description: "Practice array problems with detailed solutions", Type: resource.TypeCourse, QualityScore: 90},
		{Title: "Arrays Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/Array.html", Description: "Interactive array operations visualization", Type: resource.TypeArticle, QualityScore: 88},
		{Title: "Two Pointer Technique for Arrays", URL: "https://www.geeksforgeeks.org/two-pointers-technique/", Description: "Master the two-pointer technique for array problems", Type: resource.TypeArticle, QualityScore: 85},
	},
	"linked lists": {
		{Title: "Linked List Data Structure", URL: "https://www.geeksforgeeks.org/data-structures/linked-list/", Description: "Complete guide to linked lists with implementations", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Linked List Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/LinkedList.html", Description: "Interactive linked list operations", Type: resource.TypeArticle, QualityScore: 90},
		{Title: "Linked List Problems - LeetCode", URL: "https://leetcode.com/tag/linked-list/", Description: "Practice linked list problems with step-by-step solutions", Type: resource.TypeCourse, QualityScore: 88},
	},
	"stacks": {
		{Title: "Stack Data Structure", URL: "https://www.geeksforgeeks.org/stack-data-structure/", Description: "Complete stack implementation and applications", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Stack Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/StackArray.html", Description: "Interactive stack operations visualization", Type: resource.TypeArticle, QualityScore: 90},
		{Title: "Stack Applications Tutorial", URL: "https://www.programiz.com/dsa/stack", Description: "Stack applications with real-world examples", Type: resource.TypeCourse, QualityScore: 88},
	},
	"queues": {
		{Title: "Queue Data Structure", URL: "https://www.geeksforgeeks.org/queue-data-structure/", Description: "Queue operations, variants and applications", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Queue Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/QueueArray.html", Description: "Interactive queue operations visualization", Type: resource.TypeArticle, QualityScore: 90},
		{Title: "Queue Problems Practice", URL: "https://leetcode.com/tag/queue/", Description: "Practice queue problems with solutions", Type: resource.TypeCourse, QualityScore: 88},
	},
	"binary trees": {
		{Title: "Binary Tree Complete Guide", URL: "https://www.geeksforgeeks.org/binary-tree-data-structure/", Description: "Comprehensive binary tree tutorial with traversals", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Tree Traversal Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/BinTree.html", Description: "Interactive binary tree traversal visualization", Type: resource.TypeArticle, QualityScore: 90},
		{Title: "Binary Tree Problems - LeetCode", URL: "https://leetcode.com/tag/tree/", Description: "Practice tree problems with detailed explanations", Type: resource.TypeCourse, QualityScore: 88},
	},
	"graphs": {
		{Title: "Graph Data Structure And Algorithms", URL: "https://www.geeksforgeeks.org/graph-data-structure-and-algorithms/", Description: "Graph representations, traversals and classic algorithms", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Graph Algorithms Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/BFS.html", Description: "Interactive BFS and DFS visualization", Type: resource.TypeArticle, QualityScore: 90},
		{Title: "Graph Problems - LeetCode", URL: "https://leetcode.com/tag/graph/", Description: "Practice graph problems with solutions", Type: resource.TypeCourse, QualityScore: 88},
	},
	"sorting algorithms": {
		{Title: "Sorting Algorithms Explained", URL: "https://www.geeksforgeeks.org/sorting-algorithms/", Description: "All major sorting algorithms with complexity analysis", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "Sorting Visualization", URL: "https://www.cs.usfca.edu/~galles/visualization/ComparisonSort.html", Description: "Side-by-side comparison sort visualization", Type: resource.TypeArticle, QualityScore: 90},
		{Title: "Sorting Problems Practice", URL: "https://leetcode.com/tag/sorting/", Description: "Practice sorting problems with solutions", Type: resource.TypeCourse, QualityScore: 88},
	},
	"dynamic programming": {
		{Title: "Dynamic Programming Guide", URL: "https://www.geeksforgeeks.org/dynamic-programming/", Description: "DP patterns from memoization to tabulation", Type: resource.TypeArticle, QualityScore: 92},
		{Title: "DP Problems - LeetCode", URL: "https://leetcode.com/tag/dynamic-programming/", Description: "Practice DP problems ordered by difficulty", Type: resource.TypeCourse, QualityScore: 90},
		{Title: "DP for Beginners", URL: "https://www.freecodecamp.org/news/demystifying-dynamic-programming/", Description: "Demystifying dynamic programming step by step", Type: resource.TypeArticle, QualityScore: 87},
	},
	"python basics": {
		{Title: "Python Official Tutorial", URL: "https://docs.python.org/3/tutorial/", Description: "The official Python tutorial from python.org", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "Python for Everybody", URL: "https://www.freecodecamp.org/learn/python-for-everybody/", Description: "Free full Python course for beginners", Type: resource.TypeCourse, QualityScore: 90},
		{Title: "Python Basics - Real Python", URL: "https://realpython.com/python-basics/", Description: "Practical Python basics with exercises", Type: resource.TypeArticle, QualityScore: 88},
	},
	"functions": {
		{Title: "Defining Functions - Python Docs", URL: "https://docs.python.org/3/tutorial/controlflow.html", Description: "Official documentation on defining functions", Type: resource.TypeDocumentation, QualityScore: 94},
		{Title: "Python Functions Deep Dive", URL: "https://realpython.com/defining-your-own-python-function/", Description: "Arguments, scope, closures and decorators", Type: resource.TypeArticle, QualityScore: 89},
		{Title: "Functions Practice Problems", URL: "https://www.w3resource.com/python-exercises/python-functions-exercises.php", Description: "Function exercises with solutions", Type: resource.TypeTutorial, QualityScore: 84},
	},
	"javascript fundamentals": {
		{Title: "JavaScript Guide - MDN", URL: "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Guide", Description: "The canonical JavaScript guide from MDN", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "JavaScript Algorithms and Data Structures", URL: "https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures/", Description: "Free interactive JavaScript certification", Type: resource.TypeCourse, QualityScore: 91},
		{Title: "Modern JavaScript Tutorial", URL: "https://javascript.info/", Description: "From the basics to advanced topics with tasks", Type: resource.TypeTutorial, QualityScore: 89},
	},
	"dom manipulation": {
		{Title: "Document Object Model - MDN", URL: "https://developer.mozilla.org/en-US/docs/Web/API/Document_Object_Model", Description: "Complete DOM reference and guides", Type: resource.TypeDocumentation, QualityScore: 94},
		{Title: "DOM Manipulation Crash Course", URL: "https://www.youtube.com/watch?v=0ik6X4DJKCc", Description: "Video walkthrough of selecting and mutating DOM nodes", Type: resource.TypeVideo, QualityScore: 85},
		{Title: "JavaScript DOM Exercises", URL: "https://www.w3schools.com/js/js_htmldom.asp", Description: "Interactive DOM examples to try in the browser", Type: resource.TypeTutorial, QualityScore: 82},
	},
	"css styling": {
		{Title: "CSS Reference - MDN", URL: "https://developer.mozilla.org/en-US/docs/Web/CSS", Description: "Authoritative CSS property reference", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "Flexbox Froggy", URL: "https://flexboxfroggy.com/", Description: "Learn flexbox layout by playing a game", Type: resource.TypeTutorial, QualityScore: 88},
		{Title: "CSS Grid Complete Guide", URL: "https://css-tricks.com/snippets/css/complete-guide-grid/", Description: "Every grid property explained with diagrams", Type: resource.TypeArticle, QualityScore: 90},
	},
	"react components": {
		{Title: "React Learn - Describing the UI", URL: "https://react.dev/learn/describing-the-ui", Description: "Official documentation on components and props", Type: resource.TypeDocumentation, QualityScore: 95},
		{Title: "React Component Patterns", URL: "https://www.patterns.dev/react/", Description: "Modern React component and rendering patterns", Type: resource.TypeArticle, QualityScore: 88},
		{Title: "React Official Tutorial", URL: "https://react.dev/learn/tutorial-tic-tac-toe", Description: "Build a game while learning React fundamentals", Type: resource.TypeTutorial, QualityScore: 90},
	},
}
