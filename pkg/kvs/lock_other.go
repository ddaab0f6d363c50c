// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

//go:build !unix

package kvs

import "sync"

var processLocks sync.Map

// lockFile falls back to an in-process lock where flock is unavailable.
func lockFile(path string) (func(), error) {
	v, _ := processLocks.LoadOrStore(path, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock, nil
}
