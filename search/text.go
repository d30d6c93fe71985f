package search

import "strings"

// containsQuestion reports whether content contains the whole question,
// ignoring case. Runs of whitespace, including the line breaks between
// extracted paragraphs, compare equal to a single space. A blank question
// never matches.
func containsQuestion(content, question string) bool {
	q := foldSpace(question)
	if q == "" {
		return false
	}
	return strings.Contains(foldSpace(content), q)
}

func foldSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
