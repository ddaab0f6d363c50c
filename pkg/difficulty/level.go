// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package difficulty

import "unicode/utf8"

const (
	MinLevel = 1
	MaxLevel = 3

	windowSize     = 10
	minSamples     = 5
	promoteAtLeast = 0.8
	demoteAtMost   = 0.4

	longPromptRunes = 140
)

// QuizLevel is the discrete level of one named quiz and its recent outcomes
// (1 = correct, 0 = wrong), oldest first.
type QuizLevel struct {
	Level  int   `json:"level"`
	Window []int `json:"last"`
}

// NewQuizLevel starts at level 1 with no history.
func NewQuizLevel() QuizLevel {
	return QuizLevel{Level: MinLevel}
}

// Record appends an outcome and re-evaluates the level.
func (q QuizLevel) Record(ok bool) QuizLevel {
	level := q.Level
	if level < MinLevel {
		level = MinLevel
	}
	if level > MaxLevel {
		level = MaxLevel
	}

	outcome := 0
	if ok {
		outcome = 1
	}

	window := append(append([]int(nil), q.Window...), outcome)
	if len(window) > windowSize {
		window = window[len(window)-windowSize:]
	}

	if len(window) >= minSamples {
		acc := accuracy(window)
		switch {
		case acc >= promoteAtLeast && level < MaxLevel:
			level++
		case acc <= demoteAtMost && level > MinLevel:
			level--
		}
	}

	return QuizLevel{Level: level, Window: window}
}

// Accuracy of the current window, 0 when empty.
func (q QuizLevel) Accuracy() float64 {
	return accuracy(q.Window)
}

func accuracy(window []int) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0
	for _, v := range window {
		sum += v
	}
	return float64(sum) / float64(len(window))
}

// EstimateLevel guesses the level of an untagged question from its shape.
func EstimateLevel(prompt string, options []string) int {
	level := 3
	switch n := len(options); {
	case n <= 2:
		level = 1
	case n <= 4:
		level = 2
	}
	if utf8.RuneCountInString(prompt) >= longPromptRunes {
		level++
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// Split divides total items into easy/medium/hard counts at 30/50/20.
func Split(total int) (easy, medium, hard int) {
	if total <= 0 {
		return 0, 0, 0
	}
	easy = total * 30 / 100
	hard = total * 20 / 100
	medium = total - easy - hard
	return easy, medium, hard
}
