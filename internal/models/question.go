package models

import "fmt"

// Seniority is one of the four bands a question belongs to. Each band spans
// levels 1 (weakest) to 5 (strongest).
type Seniority string

const (
	Fresher Seniority = "fresher"
	Junior  Seniority = "junior"
	Middle  Seniority = "middle"
	Senior  Seniority = "senior"
)

// Seniorities lists the recognized bands in ascending order.
var Seniorities = []Seniority{Fresher, Junior, Middle, Senior}

const (
	MinLevel = 1
	MaxLevel = 5
)

// Valid reports whether s is one of the four recognized seniorities.
func (s Seniority) Valid() bool {
	switch s {
	case Fresher, Junior, Middle, Senior:
		return true
	}
	return false
}

// Letter returns the single-letter code used in path states and result labels.
func (s Seniority) Letter() string {
	switch s {
	case Fresher:
		return "F"
	case Junior:
		return "J"
	case Middle:
		return "M"
	case Senior:
		return "S"
	}
	return "?"
}

// PathLabel formats a (seniority, level) pair as its symbolic node key, e.g. "M3".
func PathLabel(s Seniority, level int) string {
	return fmt.Sprintf("%s%d", s.Letter(), level)
}

// Option is one selectable answer of a question.
type Option struct {
	Text      string `json:"description"`
	IsCorrect bool   `json:"isAnswerKey"`
}

// QuestionRecord is a single bank entry. Immutable once loaded; exactly one
// option carries the answer key. The question text may embed a fenced code
// sample.
type QuestionRecord struct {
	ID        string    `json:"id"`
	Skill     string    `json:"skill"`
	Seniority Seniority `json:"seniority"`
	Level     int       `json:"level"`
	Text      string    `json:"question"`
	Options   []Option  `json:"options"`
}

// CorrectIndex returns the index of the answer-key option, or -1 if none is
// marked.
func (q QuestionRecord) CorrectIndex() int {
	for i, opt := range q.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}
