// Package models defines client-side data models used by the SafeScan client.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ProfileID identifies a dietary profile. Backends serialize it either as a
// JSON string or as a number; both decode to the same textual id.
type ProfileID string

func (id *ProfileID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProfileID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid profile id %s: %w", string(b), err)
	}
	*id = ProfileID(n.String())
	return nil
}

// Profile is the client's cached copy of a remote dietary profile.
type Profile struct {
	ID           ProfileID `json:"id"`
	Name         string    `json:"name"`
	Allergies    []string  `json:"allergies"`
	Restrictions []string  `json:"restrictions"`
}

// Clone returns a deep copy so callers cannot alias cached slices.
func (p Profile) Clone() Profile {
	p.Allergies = slices.Clone(p.Allergies)
	p.Restrictions = slices.Clone(p.Restrictions)
	return p
}

// Restrictions is the allergies/restrictions pair exchanged with
// /api/profile/restrictions.
type Restrictions struct {
	Allergies    []string `json:"allergies"`
	Restrictions []string `json:"restrictions"`
}

// NormalizeSet trims items, drops empties and duplicates (case-insensitive)
// and returns them sorted. The result is never nil.
func NormalizeSet(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		key := strings.ToLower(it)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
