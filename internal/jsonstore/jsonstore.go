// Package jsonstore persists a whole collection as one JSON array file.
// Every read loads the full file and every write rewrites it; there is no
// locking and no atomic replace, so concurrent writers are last-writer-wins.
// That matches the deployment this system targets: a single low-traffic
// process.
package jsonstore

import (
	"encoding/json"
	"os"
)

type Collection[T any] struct {
	path string
}

func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// Load returns the decoded collection. A missing or unreadable file and a
// corrupt payload all load as an empty collection rather than an error.
func (c *Collection[T]) Load() []T {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o644)
}

// NextID assigns max existing id plus one, starting at 1. Ids are never
// reused after a delete within the remaining records' range.
func NextID[T any](items []T, id func(T) int) int {
	max := 0
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}
