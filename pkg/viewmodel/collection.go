package viewmodel

import "slices"

// Entry is an element of a keyed, ordered collection.
type Entry interface {
	EntryID() int
}

func index[T Entry](list []T, id int) int {
	return slices.IndexFunc(list, func(e T) bool { return e.EntryID() == id })
}

// Replace returns a new slice in which the entry with the given id is
// replaced by fn's result. Every other element is carried over as is. When
// id is absent, or fn reports no change, list itself is returned with ok
// false.
func Replace[T Entry](list []T, id int, fn func(T) (T, bool)) (out []T, ok bool) {
	i := index(list, id)
	if i < 0 {
		return list, false
	}
	next, changed := fn(list[i])
	if !changed {
		return list, false
	}
	out = make([]T, len(list))
	copy(out, list)
	out[i] = next
	return out, true
}

// Append returns a new slice with e at the end. An entry whose id is already
// present is left alone.
func Append[T Entry](list []T, e T) (out []T, ok bool) {
	if index(list, e.EntryID()) >= 0 {
		return list, false
	}
	out = make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, e), true
}

// Remove returns a new slice without the entry with the given id.
func Remove[T Entry](list []T, id int) (out []T, ok bool) {
	i := index(list, id)
	if i < 0 {
		return list, false
	}
	out = make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), true
}
