package utils

import (
	"sort"
	"strings"
)

func Filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func Map[T any, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func Some[T any](in []T, pred func(T) bool) bool {
	for _, v := range in {
		if pred(v) {
			return true
		}
	}
	return false
}

// LowerSet builds a case-insensitive membership set; blank entries are dropped.
func LowerSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, v := range in {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// DistinctSorted returns the unique values of key over in, sorted.
func DistinctSorted[T any](in []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0)
	for _, v := range in {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
