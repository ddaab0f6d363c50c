// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"

	"github.com/AccelByte/extend-daily-progression/pkg/common"
	"github.com/AccelByte/extend-daily-progression/pkg/content"
	"github.com/AccelByte/extend-daily-progression/pkg/events"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/sirupsen/logrus"
)

// InitTaskBank loads the task bank from path when set, otherwise from the
// tasks document of store. Content problems never stop the process: the
// mission controller shows an informational screen for an empty bank.
func InitTaskBank(ctx context.Context, store kvs.Store, path string) *content.Bank {
	if path != "" {
		bank, err := content.LoadBankFile(path)
		if err == nil {
			return bank
		}
		logrus.Warnf("failed to load task bank file, falling back to the store: %v", err)
	}

	bank := content.LoadBank(ctx, store)
	if bank.Empty() {
		logrus.Warn("task bank is empty, bonus and subject packs are unavailable")
	} else {
		logrus.Infof("loaded task bank with subjects %v", bank.Subjects())
	}
	return bank
}

// InitEventSink builds the progression event sink. Events are always logged and
// additionally published to Kafka when brokers are configured. The returned
// close function flushes the Kafka writer.
//
// ============================================================
// DEVELOPER: Add custom event sinks here
// ============================================================
// Any events.Sink can be appended to the MultiSink, e.g. an
// analytics client or a webhook notifier.
// ============================================================
func InitEventSink(brokers, topic string) (events.Sink, func() error) {
	sinks := events.MultiSink{events.LogSink{}}
	closer := func() error { return nil }

	if list := common.SplitList(brokers); len(list) > 0 {
		kafkaSink := events.NewKafkaSink(events.NewKafkaWriter(list, topic))
		sinks = append(sinks, kafkaSink)
		closer = kafkaSink.Close
		logrus.Infof("publishing progression events to kafka topic %s (%d brokers)", topic, len(list))
	}

	return sinks, closer
}
