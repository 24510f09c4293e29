package md2wechat

import (
	"context"
	"fmt"

	"github.com/alnah/go-md2wechat/internal/notify"
)

// DefaultStyleKey returns the style used when Input.Style is empty.
func (c *Converter) DefaultStyleKey() string {
	return c.cfg.style
}

// Styles lists every style profile in key order.
func (c *Converter) Styles(ctx context.Context) []StyleInfo {
	starred := make(map[string]bool)
	for _, k := range c.starred.List(ctx) {
		starred[k] = true
	}
	keys := c.table.Keys()
	out := make([]StyleInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, StyleInfo{Key: k, Name: c.table.Name(k), Starred: starred[k]})
	}
	return out
}

// StyleName returns the display name of a style, or key itself when the
// style is unknown.
func (c *Converter) StyleName(key string) string {
	return c.table.Name(key)
}

// Starred returns the starred style keys in the order they were starred.
// Keys of styles that no longer exist are kept.
func (c *Converter) Starred(ctx context.Context) []string {
	return c.starred.List(ctx)
}

// ToggleStar stars or unstars a style and returns its new state. A failed
// write is returned as ErrPrefsWrite; the style list itself is unaffected.
func (c *Converter) ToggleStar(ctx context.Context, key string) (starred bool, notes []Notification, err error) {
	if !c.table.Has(key) {
		return false, nil, fmt.Errorf("%w: %q", ErrProfileNotFound, key)
	}

	rec := &notify.Recorder{}
	n := notify.Multi{c.notifier, rec}

	starred, err = c.starred.Toggle(ctx, key)
	switch {
	case err != nil:
		notify.Send(n, notify.Error, "Saving starred styles failed")
	case starred:
		notify.Send(n, notify.Success, fmt.Sprintf("Starred %s", c.table.Name(key)))
	default:
		notify.Send(n, notify.Info, fmt.Sprintf("Unstarred %s", c.table.Name(key)))
	}
	return starred, rec.All(), err
}
