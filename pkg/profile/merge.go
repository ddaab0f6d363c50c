// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package profile

import (
	"reflect"
	"strings"
	"sync"
)

// DeepMerge returns base with patch applied: nested objects merge key by key,
// every other value replaces what was there. Neither input is modified.
func DeepMerge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, pv := range patch {
		pm, patchIsMap := pv.(map[string]any)
		bm, baseIsMap := out[k].(map[string]any)
		if patchIsMap && baseIsMap {
			out[k] = DeepMerge(bm, pm)
			continue
		}
		out[k] = pv
	}
	return out
}

var (
	profileFieldsOnce sync.Once
	profileFields     []string
)

// knownFields lists the JSON names of UserProfile's fields.
func knownFields() []string {
	profileFieldsOnce.Do(func() {
		t := reflect.TypeOf(UserProfile{})
		for i := 0; i < t.NumField(); i++ {
			name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if name != "" && name != "-" {
				profileFields = append(profileFields, name)
			}
		}
	})
	return profileFields
}

// overlayTyped replaces every typed field of stored with typed's value while
// keeping fields the struct does not know about.
func overlayTyped(stored, typed map[string]any) map[string]any {
	out := make(map[string]any, len(stored)+len(typed))
	for k, v := range stored {
		out[k] = v
	}
	for _, k := range knownFields() {
		delete(out, k)
	}
	for k, v := range typed {
		out[k] = v
	}
	return out
}
