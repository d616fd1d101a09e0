package form

import "slices"

func inRange[T any](items []T, i int) bool {
	return i >= 0 && i < len(items)
}

// removeAt returns a copy of items without index i.
func removeAt[T any](items []T, i int) []T {
	if !inRange(items, i) {
		return items
	}
	return slices.Delete(slices.Clone(items), i, i+1)
}

// updateAt returns a copy of items with fn applied to index i.
func updateAt[T any](items []T, i int, fn func(T) T) []T {
	if !inRange(items, i) {
		return items
	}
	out := slices.Clone(items)
	out[i] = fn(out[i])
	return out
}

// move returns a copy of items with the element at from relocated to to.
func move[T any](items []T, from, to int) []T {
	if !inRange(items, from) || !inRange(items, to) || from == to {
		return items
	}
	out := slices.Clone(items)
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v)
}
