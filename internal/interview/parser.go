package interview

import (
	"fmt"
	"regexp"
	"strings"
)

// preferredAnswerLabel marks the line carrying an item's model answer.
// Matching is case-sensitive and expects no leading punctuation.
const preferredAnswerLabel = "Preferred Answer:"

// questionStartRe matches an integer, a period and one whitespace character at
// the start of a line; the remainder of the line is the question text.
var questionStartRe = regexp.MustCompile(`^\d+\.\s`)

// GenerationError reports a question-generation run that could not produce the
// requested number of well-formed items. Nothing is persisted when it occurs.
type GenerationError struct {
	Got  int
	Want int
	// Err is set when the underlying model call itself failed.
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("question generation failed: %v", e.Err)
	}
	return fmt.Sprintf("only %d valid questions generated, expected %d", e.Got, e.Want)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// parser state for the line walk.
type parseState int

const (
	stateSeeking parseState = iota
	stateCollecting
)

// ParseQuestionSet walks the raw generation output line by line and recovers
// exactly want question/answer pairs, in source order, or fails with a
// *GenerationError. Extra well-formed items beyond want are ignored.
//
// While collecting an item, free-text lines below the question tentatively
// seed the answer field, but a later "Preferred Answer:" line replaces them
// wholesale. That discard-on-label behavior is part of the parsing contract
// and covered by tests; do not "fix" it without a product decision.
func ParseQuestionSet(raw string, want int) ([]QuestionItem, error) {
	var (
		items   []QuestionItem
		current *QuestionItem
		state   = stateSeeking
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case questionStartRe.MatchString(line):
			if current != nil && current.PreferredAnswer != "" {
				items = append(items, *current)
			}
			question := strings.TrimSpace(questionStartRe.ReplaceAllString(line, ""))
			current = &QuestionItem{Question: question}
			state = stateCollecting

		case state == stateCollecting && strings.HasPrefix(line, preferredAnswerLabel):
			current.PreferredAnswer = strings.TrimSpace(strings.TrimPrefix(line, preferredAnswerLabel))
			state = stateSeeking

		case state == stateCollecting && current != nil && current.PreferredAnswer == "" && line != "":
			if current.PreferredAnswer != "" {
				current.PreferredAnswer += " "
			}
			current.PreferredAnswer += line
		}

		// Stop as soon as the set is complete; trailing output is never read.
		if len(items) == want-1 && current != nil && current.PreferredAnswer != "" {
			items = append(items, *current)
			current = nil
			break
		}
	}

	if current != nil && current.PreferredAnswer != "" {
		items = append(items, *current)
	}

	if len(items) < want {
		return nil, &GenerationError{Got: len(items), Want: want}
	}

	return items[:want], nil
}
