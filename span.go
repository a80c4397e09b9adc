package stringpool

import (
	"strings"
	"unsafe"
)

// A span is a borrowed read-only view of intern input. All four input
// shapes normalize to a span before any table access, so the lookup path
// runs exactly one comparator no matter how the content arrived.
//
// Spans built from byte slices alias the caller's buffer and are only
// valid while the buffer is unmodified, which holds for the duration of a
// locked lookup. own returns storage that is safe to retain.
type span struct {
	view     string
	borrowed bool
}

func spanFromString(s string) span {
	return span{view: s}
}

// spanFromBytes wraps b without copying.
func spanFromBytes(b []byte) span {
	if len(b) == 0 {
		return span{}
	}
	return span{view: unsafe.String(unsafe.SliceData(b), len(b)), borrowed: true}
}

// clampRange normalizes a half-open [start, end) pair against a length.
// Out-of-bounds ends are pulled in and an inverted range collapses to
// empty, so every range input is usable without an error path.
func clampRange(start, end, length int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start >= end {
		return 0, 0
	}
	return start, end
}

func spanFromStringRange(s string, start, end int) span {
	start, end = clampRange(start, end, len(s))
	// A proper substring shares the parent's backing array; retaining it
	// would pin the whole parent, so mark it for copying.
	return span{view: s[start:end], borrowed: end-start != len(s)}
}

func spanFromBytesRange(b []byte, start, end int) span {
	start, end = clampRange(start, end, len(b))
	return spanFromBytes(b[start:end])
}

func (sp span) empty() bool {
	return len(sp.view) == 0
}

// compare orders the span against tabled content bytewise. Bytewise order
// over UTF-8 equals code-point order, so the table sorts identically
// whether content arrives as string or bytes.
func (sp span) compare(content string) int {
	return strings.Compare(sp.view, content)
}

// own returns content safe to table: the view itself when it is a whole
// immutable string, a copy when it aliases a caller's buffer or slices a
// larger string.
func (sp span) own() string {
	if sp.borrowed {
		return strings.Clone(sp.view)
	}
	return sp.view
}
