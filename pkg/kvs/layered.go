// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package kvs

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-daily-progression/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// LayeredStore reads from the first layer holding a key and writes to every
// layer. The first layer is the primary.
type LayeredStore struct {
	layers []Store
}

// NewLayeredStore orders layers from primary to last resort.
func NewLayeredStore(layers ...Store) *LayeredStore {
	return &LayeredStore{layers: layers}
}

func (l *LayeredStore) Name() string { return "layered" }

func (l *LayeredStore) Layers() []Store {
	return l.layers
}

func (l *LayeredStore) Get(ctx context.Context, key string) ([]byte, bool) {
	for i, layer := range l.layers {
		if doc, ok := layer.Get(ctx, key); ok {
			if i > 0 {
				logrus.Debugf("document %s served by fallback layer %s", key, storeName(layer))
			}
			return doc, true
		}
	}
	return nil, false
}

// Set succeeds when at least one layer accepted the write.
func (l *LayeredStore) Set(ctx context.Context, key string, doc []byte) error {
	written := 0
	var lastErr error
	for _, layer := range l.layers {
		if err := layer.Set(ctx, key, doc); err != nil {
			l.recordFailure("set", layer, key, err)
			lastErr = err
			continue
		}
		written++
	}
	if written == 0 && len(l.layers) > 0 {
		return fmt.Errorf("%w: %v", ErrAllLayersFailed, lastErr)
	}
	return nil
}

// Update runs the atomic path on the first layer that accepts it and mirrors
// the result to the remaining layers.
func (l *LayeredStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for i, layer := range l.layers {
		var result []byte
		var fnErr error
		err := Update(ctx, layer, key, func(current []byte, ok bool) ([]byte, error) {
			if !ok {
				// this layer may be empty while a later one still has the document
				current, ok = l.getFrom(ctx, key, l.layers[i+1:])
			}
			next, err := fn(current, ok)
			if err != nil {
				fnErr = err
				return nil, err
			}
			result = next
			return next, nil
		})
		if fnErr != nil {
			return fnErr
		}
		if err != nil {
			l.recordFailure("update", layer, key, err)
			continue
		}

		for _, other := range l.layers[i+1:] {
			if err := other.Set(ctx, key, result); err != nil {
				l.recordFailure("set", other, key, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: update %s", ErrAllLayersFailed, key)
}

func (l *LayeredStore) getFrom(ctx context.Context, key string, layers []Store) ([]byte, bool) {
	for _, layer := range layers {
		if doc, ok := layer.Get(ctx, key); ok {
			return doc, true
		}
	}
	return nil, false
}

func (l *LayeredStore) recordFailure(op string, layer Store, key string, err error) {
	name := storeName(layer)
	metrics.KVSFallbacksTotal.WithLabelValues(op, name).Inc()
	logrus.Warnf("store layer %s failed to %s %s, falling back: %v", name, op, key, err)
}

// Ping reports the first unhealthy remote layer.
func (l *LayeredStore) Ping(ctx context.Context) error {
	for _, layer := range l.layers {
		if p, ok := layer.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return fmt.Errorf("layer %s unhealthy: %w", storeName(layer), err)
			}
		}
	}
	return nil
}
