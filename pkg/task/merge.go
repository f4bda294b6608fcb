package task

import (
	"context"
)

// CopyNonConflicting copies every scalar and list entry of src into dst, skipping keys dst already has in
// the same namespace. The first writer of a key wins.
func CopyNonConflicting(dst, src *Task) {
	snapshot := src.Store().Snapshot()

	for _, key := range sortedKeys(snapshot.Scalars) {
		if !dst.Store().Has(key) {
			dst.Set(key, snapshot.Scalars[key])
		}
	}

	for _, key := range sortedKeys(snapshot.Lists) {
		if !dst.Store().HasList(key) {
			dst.Push(key, snapshot.Lists[key]...)
		}
	}
}

// Merge returns a task whose store is the union of the sources' stores, copied in source order with
// CopyNonConflicting. The task depends on every source.
func Merge(name string, sources ...*Task) *Task {
	merged := New(name, func(_ context.Context, self *Task) error {
		for _, src := range sources {
			CopyNonConflicting(self, src)
		}

		return nil
	})

	return merged.DependsOn(sources...)
}

// MergeLists returns a task whose list under key is the concatenation of the sources' lists under the same
// key, in source order. A source without the list fails the task with a MissingKeyError.
func MergeLists(name, key string, sources ...*Task) *Task {
	merged := New(name, func(_ context.Context, self *Task) error {
		self.EnsureList(key)

		for _, src := range sources {
			list, err := src.GetList(key)
			if err != nil {
				return err
			}

			self.Push(key, list...)
		}

		return nil
	})

	return merged.DependsOn(sources...)
}
