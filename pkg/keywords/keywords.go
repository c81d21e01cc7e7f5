// Package keywords classifies job titles as technical roles.
package keywords

import (
	"strings"
	"unicode"
)

// vocabulary lists lowercase fragments of technical role titles in English,
// French and Dutch. A title matches when it contains any fragment.
var vocabulary = []string{
	// engineering
	"engineer", "engineering", "ingénieur", "ingenieur", "developer", "développeur",
	"developpeur", "ontwikkelaar", "programmer", "programmeur", "software", "logiciel",
	"coder", "full stack", "full-stack", "fullstack", "frontend", "front-end", "backend",
	"back-end", "android", "embedded",
	// architecture
	"architect", "architecte", "solution design", "technical lead", "tech lead",
	// cloud & infrastructure
	"cloud", "devops", "sre", "site reliability", "platform", "infrastructure",
	"infrastructuur", "kubernetes", "azure", "systeembeheerder",
	"system administrator", "administrateur système", "network engineer", "ingénieur réseau",
	"netwerkbeheerder",
	// data & ai
	"data", "données", "a.i.", "artificial intelligence", "intelligence artificielle",
	"kunstmatige intelligentie", "machine learning", "apprentissage automatique",
	"mlops", "deep learning", "llm", "nlp", "computer vision", "analytics", "bi developer",
	"business intelligence",
	// security
	"security", "sécurité", "securite", "beveiliging", "cyber", "pentest", "soc analyst",
	// qa & testing
	"quality assurance", "test automation", "tester", "testeur",
	// it generic
	"informatique", "informaticien", "informatica", "scrum master",
	"product owner", "technisch", "technique",
}

// words are short keywords that only match as whole words of the title, so
// "ai" matches "Consultant (AI)" but not "Maintenance".
var words = []string{
	"ai", "ia", "ml", "it", "ict", "qa", "aws", "gcp", "ios", "cto",
}

// IsTechnical reports whether title names a technical role.
// An empty title is never technical.
func IsTechnical(title string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, kw := range vocabulary {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		for _, w := range words {
			if token == w {
				return true
			}
		}
	}
	return false
}

// Filter keeps the items whose title is technical, preserving order.
func Filter[T any](items []T, title func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if IsTechnical(title(item)) {
			out = append(out, item)
		}
	}
	return out
}

// Vocabulary returns a copy of the keyword list, fragments first and then
// whole words.
func Vocabulary() []string {
	out := make([]string, 0, len(vocabulary)+len(words))
	out = append(out, vocabulary...)
	return append(out, words...)
}
