// Package repo owns the authoritative in-memory task list and keeps it in
// sync with the persisted list.
//
// # Write-through
//
// Every mutating operation builds a new list, saves it, and only then
// replaces the in-memory list. If the save fails the in-memory list is left
// exactly as it was, so after any successful mutation the persisted list and
// the in-memory list are equal.
//
// # Identity
//
// Tasks are addressed by id. The index-based operations (RemoveAt, UpdateAt)
// resolve the index against the current list and then act on that task's id.
//
// # Filtering
//
// FilterByStatus is a read-only query. It reads the persisted list fresh from
// the store and returns the matching subset; it never persists and never
// changes the in-memory list. Callers that want a filtered view keep the
// filter as their own view state and re-query after each mutation.
//
// # Sorting
//
// SortByStatus and SortByDeadline reorder the list and persist the new order.
// Both are stable.
package repo
