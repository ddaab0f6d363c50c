// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package content

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Bank holds normalized tasks by subject and age group.
type Bank struct {
	subjects map[string]map[string][]Task
}

// rawBank is the stored layout: subject -> age group -> items.
type rawBank map[string]map[string][]any

// NewBank builds a bank from raw items. Untagged tasks get 30/50/20 tiers.
func NewBank(raw map[string]map[string][]any) *Bank {
	b := &Bank{subjects: make(map[string]map[string][]Task, len(raw))}
	for subject, groups := range raw {
		byGroup := make(map[string][]Task, len(groups))
		for group, items := range groups {
			tasks := NormalizeAll(subject, items)
			if len(tasks) == 0 {
				continue
			}
			byGroup[group] = AssignTiers(tasks)
		}
		if len(byGroup) > 0 {
			b.subjects[subject] = byGroup
		}
	}
	return b
}

// LoadBank reads the tasks collection from store. A missing or unreadable
// collection yields an empty bank.
func LoadBank(ctx context.Context, store kvs.Store) *Bank {
	raw := rawBank{}
	if !kvs.GetJSON(ctx, store, kvs.KeyTasks, &raw) {
		logrus.Debugf("no task bank stored under %s", kvs.KeyTasks)
	}
	return NewBank(raw)
}

// LoadBankFile reads a YAML or JSON task bank from disk.
func LoadBankFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task bank: %w", err)
	}

	raw := rawBank{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse task bank: %w", err)
	}

	bank := NewBank(raw)
	logrus.Infof("loaded task bank from %s: %d subjects", path, len(bank.subjects))
	return bank, nil
}

// Lookup returns the tasks of subject for group.
func (b *Bank) Lookup(subject, group string) ([]Task, bool) {
	if b == nil {
		return nil, false
	}
	tasks, ok := b.subjects[subject][group]
	if !ok || len(tasks) == 0 {
		return nil, false
	}
	return append([]Task(nil), tasks...), true
}

// All returns every task of group across subjects, ordered by subject.
func (b *Bank) All(group string) []Task {
	var out []Task
	for _, subject := range b.Subjects() {
		out = append(out, b.subjects[subject][group]...)
	}
	return out
}

// Subjects returns the subject names, sorted.
func (b *Bank) Subjects() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.subjects))
	for name := range b.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the bank has no tasks.
func (b *Bank) Empty() bool {
	return b == nil || len(b.subjects) == 0
}
