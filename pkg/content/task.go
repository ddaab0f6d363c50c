// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AccelByte/extend-daily-progression/pkg/difficulty"
)

// DefaultReward is the XP of a task that does not name one.
const DefaultReward = 5

// Task is a normalized quiz or school task.
type Task struct {
	Subject       string          `json:"subject"`
	Prompt        string          `json:"prompt"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer string          `json:"correctAnswer,omitempty"`
	HasAnswer     bool            `json:"hasAnswer"`
	RewardAmount  int             `json:"rewardAmount"`
	Tier          difficulty.Tier `json:"tier,omitempty"`
	Level         int             `json:"level"`
}

var (
	promptKeys = []string{"q", "text", "prompt", "question"}
	answerKeys = []string{"correct", "answer", "a"}
	optionKeys = []string{"options", "choices", "answers"}
	rewardKeys = []string{"xp", "reward"}
)

// Normalize converts a raw bank item into a Task. A bare string becomes a
// prompt-only task. Items without a prompt report false.
func Normalize(subject string, raw any) (Task, bool) {
	task := Task{Subject: subject, RewardAmount: DefaultReward}

	switch v := raw.(type) {
	case string:
		task.Prompt = strings.TrimSpace(v)
	case map[string]any:
		task.Prompt = strings.TrimSpace(firstString(v, promptKeys))
		task.Options = firstStrings(v, optionKeys)
		if reward, ok := firstInt(v, rewardKeys); ok && reward >= 0 {
			task.RewardAmount = reward
		}
		task.CorrectAnswer, task.HasAnswer = resolveAnswer(v, task.Options)
		task.Tier, task.Level = resolveDifficulty(v["difficulty"])
	case Task:
		v.Subject = subject
		task = v
	default:
		return Task{}, false
	}

	if task.Prompt == "" {
		return Task{}, false
	}
	if task.Level == 0 {
		if task.Tier != "" {
			task.Level = task.Tier.Level()
		} else {
			task.Level = difficulty.EstimateLevel(task.Prompt, task.Options)
		}
	}
	return task, true
}

// NormalizeAll keeps the items that normalize.
func NormalizeAll(subject string, raw []any) []Task {
	tasks := make([]Task, 0, len(raw))
	for _, item := range raw {
		if t, ok := Normalize(subject, item); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Fingerprint identifies the task in the completion ledger.
func (t Task) Fingerprint() string {
	sum := sha256.Sum256([]byte("task::" + t.Subject + "::" + t.Prompt))
	return hex.EncodeToString(sum[:])[:12]
}

// Check compares answer to the key, trimmed and case-insensitively. Tasks
// without a key accept any answer.
func (t Task) Check(answer string) bool {
	if !t.HasAnswer {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(t.CorrectAnswer))
}

// EffectiveTier is the tier used for filtering; untagged tasks count as medium.
func (t Task) EffectiveTier() difficulty.Tier {
	if t.Tier == "" {
		return difficulty.Medium
	}
	return t.Tier
}

// FilterByTier keeps tasks of tier. If none match the input is returned.
func FilterByTier(tasks []Task, tier difficulty.Tier) []Task {
	var out []Task
	for _, t := range tasks {
		if t.EffectiveTier() == tier {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return tasks
	}
	return out
}

// FilterByLevel keeps tasks at or below level. If none match the input is returned.
func FilterByLevel(tasks []Task, level int) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Level <= level {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return tasks
	}
	return out
}

// AssignTiers tags untagged tasks by position: the first 30% easy, the next
// 50% medium and the rest hard.
func AssignTiers(tasks []Task) []Task {
	easy, medium, _ := difficulty.Split(len(tasks))
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.Tier == "" {
			switch {
			case i < easy:
				t.Tier = difficulty.Easy
			case i < easy+medium:
				t.Tier = difficulty.Medium
			default:
				t.Tier = difficulty.Hard
			}
		}
		out[i] = t
	}
	return out
}

func resolveAnswer(item map[string]any, options []string) (string, bool) {
	for _, key := range answerKeys {
		raw, ok := item[key]
		if !ok || raw == nil {
			continue
		}
		if idx, isNum := asInt(raw); isNum {
			if idx >= 0 && idx < len(options) {
				return options[idx], true
			}
			return strconv.Itoa(idx), true
		}
		answer := strings.TrimSpace(fmt.Sprint(raw))
		if answer == "" {
			continue
		}
		return answer, true
	}
	return "", false
}

func resolveDifficulty(raw any) (difficulty.Tier, int) {
	switch v := raw.(type) {
	case nil:
		return "", 0
	case string:
		if tier, ok := difficulty.ParseTier(v); ok {
			return tier, tier.Level()
		}
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return resolveDifficulty(n)
		}
		return "", 0
	}
	if n, ok := asInt(raw); ok && n >= difficulty.MinLevel && n <= difficulty.MaxLevel {
		return difficulty.TierForLevel(n), n
	}
	return "", 0
}

func firstString(item map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := item[key]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstStrings(item map[string]any, keys []string) []string {
	for _, key := range keys {
		list, ok := item[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		out := make([]string, 0, len(list))
		for _, v := range list {
			out = append(out, strings.TrimSpace(fmt.Sprint(v)))
		}
		return out
	}
	return nil
}

func firstInt(item map[string]any, keys []string) (int, bool) {
	for _, key := range keys {
		if n, ok := asInt(item[key]); ok {
			return n, true
		}
	}
	return 0, false
}

// asInt accepts the integer shapes produced by the JSON and YAML decoders.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}
