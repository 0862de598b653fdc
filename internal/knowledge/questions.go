package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// Levels in ascending seniority
var Levels = []string{"junior", "middle", "senior"}

// QuestionBank holds reference questions by topic and level
type QuestionBank map[string]map[string][]string

// DefaultQuestions returns the built-in question bank
func DefaultQuestions() QuestionBank {
	return QuestionBank{
		"python": {
			"junior": {"What are the basic data types in Python?", "Explain list vs tuple.", "What is a decorator?"},
			"middle": {"Explain the Global Interpreter Lock (GIL).", "How does memory management work?", "Generators vs Iterators."},
			"senior": {"Metaclasses usage.", "Asyncio internals.", "Python optimization techniques."},
		},
		"sql": {
			"junior": {"SELECT vs SELECT DISTINCT", "What is a primary key?", "Basic JOINs."},
			"middle": {"Index types.", "ACID properties.", "Normalization."},
			"senior": {"Query optimization.", "Transaction isolation levels.", "Sharding strategies."},
		},
		"general": {
			"junior": {"What is Git?", "HTTP methods."},
			"middle": {"REST vs SOAP.", "Docker basics."},
			"senior": {"System Design basics.", "Microservices patterns."},
		},
	}
}

// Questions returns the questions for a topic and level, matched case-insensitively.
// Unknown topics or levels yield an empty list.
func (q QuestionBank) Questions(topic, level string) []string {
	byLevel, ok := q[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		return []string{}
	}
	questions := byLevel[strings.ToLower(strings.TrimSpace(level))]
	out := make([]string, len(questions))
	copy(out, questions)
	return out
}

// Topics returns the known topics, sorted
func (q QuestionBank) Topics() []string {
	topics := make([]string, 0, len(q))
	for topic := range q {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Format renders the bank as reference material for a prompt.
func (q QuestionBank) Format() string {
	var sb strings.Builder
	for _, topic := range q.Topics() {
		for _, level := range Levels {
			questions := q[topic][level]
			if len(questions) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s/%s: %s\n", topic, level, strings.Join(questions, " | ")))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
