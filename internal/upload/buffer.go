package upload

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Handle identifies one placeholder registered in a Buffer.
type Handle string

// span is a byte range [start, end) of the buffer text.
type span struct {
	start, end int
}

// Buffer is a text buffer that tracks placeholder ranges across edits. It is
// safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	text    string
	pending map[Handle]span
}

// NewBuffer creates a Buffer holding text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, pending: make(map[Handle]span)}
}

// String returns the current text.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Len returns the text length in bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.text)
}

// Pending returns the number of unresolved placeholders.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Replace replaces the bytes in [start, end) with s. Offsets are clamped to
// the text. Placeholders after the edit shift; placeholders overlapping it
// are forgotten, and resolving them later is a no-op.
func (b *Buffer) Replace(start, end int, s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replaceLocked(start, end, s)
}

// Insert inserts s at pos.
func (b *Buffer) Insert(pos int, s string) {
	b.Replace(pos, pos, s)
}

// InsertPlaceholder inserts text at pos and returns its Handle.
func (b *Buffer) InsertPlaceholder(pos int, text string) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	start, _ := b.replaceLocked(pos, pos, text)
	h := Handle(uuid.NewString())
	b.pending[h] = span{start: start, end: start + len(text)}
	return h
}

// Resolve replaces the placeholder of h with replacement. It reports false
// when h is unknown, already resolved or was overwritten by an edit.
func (b *Buffer) Resolve(h Handle, replacement string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	sp, ok := b.pending[h]
	if !ok {
		return false
	}
	delete(b.pending, h)
	b.replaceLocked(sp.start, sp.end, replacement)
	return true
}

// Placeholder returns the current text of the placeholder of h.
func (b *Buffer) Placeholder(h Handle) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sp, ok := b.pending[h]
	if !ok {
		return "", false
	}
	return b.text[sp.start:sp.end], true
}

// replaceLocked applies the edit and returns the clamped range.
func (b *Buffer) replaceLocked(start, end int, s string) (int, int) {
	start, end = b.clamp(start), b.clamp(end)
	if end < start {
		start, end = end, start
	}
	b.text = b.text[:start] + s + b.text[end:]

	delta := len(s) - (end - start)
	for h, sp := range b.pending {
		switch {
		case sp.end <= start:
			// before the edit
		case sp.start >= end:
			b.pending[h] = span{start: sp.start + delta, end: sp.end + delta}
		default:
			delete(b.pending, h)
		}
	}
	return start, end
}

// clamp bounds pos to the text and moves it back to a UTF-8 boundary.
func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.text) {
		return len(b.text)
	}
	for pos > 0 && pos < len(b.text) && !utf8Start(b.text[pos]) {
		pos--
	}
	return pos
}

func utf8Start(c byte) bool {
	return c&0xC0 != 0x80
}

// Handles returns the unresolved handles in text order.
func (b *Buffer) Handles() []Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := make([]Handle, 0, len(b.pending))
	for h := range b.pending {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool {
		return b.pending[hs[i]].start < b.pending[hs[j]].start
	})
	return hs
}

// PlaceholderText is the text shown while an image uploads. The random
// suffix keeps concurrent placeholders for the same file name distinct.
func PlaceholderText(name string) string {
	return "![Uploading " + strings.ReplaceAll(name, "]", "") + "…](" + uuid.NewString()[:8] + ")"
}
