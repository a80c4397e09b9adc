package stringpool

import (
	"sync/atomic"
)

// InternedString is a shared handle to a single tabled copy of a piece of
// content. While the content stays tabled, every intern of equal content
// returns the same pointer, so equality checks between interned strings
// reduce to comparing handles.
//
// Handles are reference counted. Each handle returned by a pool already
// carries one reference owned by the caller; callers drop it with Release
// when done, and add one with Acquire when handing the string to another
// owner. The pool's table slot holds one reference of its own, so an entry
// whose count has fallen to one has no outside holders and is eligible for
// eviction on the next collection pass.
type InternedString struct {
	content  string
	refCount int32
}

// Empty is the canonical interned empty string. Pools return it for nil,
// empty, and empty-range inputs without touching the table or the pool
// lock. It is never tabled, never evicted, and its reference count is
// pinned: Acquire and Release on it are no-ops.
var Empty = &InternedString{}

// newInternedString creates a tabled entry. The count starts at two: one
// reference for the table slot, one for the caller whose intern triggered
// the insert.
func newInternedString(content string) *InternedString {
	return &InternedString{content: content, refCount: 2}
}

// String returns the canonical content.
func (s *InternedString) String() string {
	return s.content
}

// Bytes returns the content as a fresh byte slice. The table's copy is
// immutable, so callers get their own buffer to scribble on.
func (s *InternedString) Bytes() []byte {
	return []byte(s.content)
}

// Len returns the content length in bytes.
func (s *InternedString) Len() int {
	return len(s.content)
}

// IsEmpty reports whether the handle holds no content. Only Empty does;
// pools never table empty content.
func (s *InternedString) IsEmpty() bool {
	return len(s.content) == 0
}

// RefCount returns the current reference count, including the table's own
// reference while the entry is tabled. Under concurrent use the value is a
// snapshot and only advisory.
func (s *InternedString) RefCount() int32 {
	return atomic.LoadInt32(&s.refCount)
}

// Acquire adds a reference on behalf of a new holder and returns the same
// handle for chaining.
func (s *InternedString) Acquire() *InternedString {
	if s == Empty {
		return s
	}
	atomic.AddInt32(&s.refCount, 1)
	return s
}

// Release drops the caller's reference. The handle stays readable
// afterwards as long as the content remains tabled or other holders exist,
// but the released reference is spent and must not be released again.
//
// Release panics when the count goes negative, which means a Release
// without a matching intern or Acquire.
func (s *InternedString) Release() {
	if s == Empty {
		return
	}
	if atomic.AddInt32(&s.refCount, -1) < 0 {
		panic("stringpool: Release of an unreferenced InternedString")
	}
}
