// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package events

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Type names a progression event.
type Type string

const (
	StepRewarded     Type = "step_rewarded"
	DailyCompleted   Type = "daily_completed"
	StreakUpdated    Type = "streak_updated"
	MilestoneClaimed Type = "milestone_claimed"
	PackCompleted    Type = "pack_completed"
	TaskCompleted    Type = "task_completed"
	FreeCompleted    Type = "free_completed"
)

// Event is one progression fact published for analytics.
type Event struct {
	Type   Type      `json:"type"`
	User   string    `json:"user"`
	Day    string    `json:"day"`
	Amount int       `json:"amount,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Sink receives progression events. Publish must not block gameplay on
// failure: implementations log errors instead of returning them.
type Sink interface {
	Publish(ctx context.Context, event Event)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) {}

// LogSink writes events to the structured log.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, event Event) {
	logrus.WithFields(logrus.Fields{
		"event":  event.Type,
		"user":   event.User,
		"day":    event.Day,
		"amount": event.Amount,
		"detail": event.Detail,
	}).Info("progression event")
}

// MultiSink fans an event out to several sinks.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, event Event) {
	for _, sink := range m {
		sink.Publish(ctx, event)
	}
}
