// ABOUTME: Display width of terminal strings: grapheme-aware, ANSI-transparent, cached
// ABOUTME: Measure reports the cell size of a rendered block, which overlay content rects are built from

package width

import (
	"container/list"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const cacheSize = 512

type cacheEntry struct {
	key   string
	value int
}

// cache is a small LRU for non-ASCII widths. Overlay content is re-measured
// on every reposition frame, so the same lines come back often.
type cache struct {
	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List
	size  int
}

func newCache(size int) *cache {
	return &cache{
		items: make(map[string]*list.Element, size),
		order: list.New(),
		size:  size,
	}
}

func (c *cache) get(key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return 0, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(cacheEntry).value, true
}

func (c *cache) put(key string, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return
	}
	if c.order.Len() >= c.size {
		if back := c.order.Back(); back != nil {
			c.order.Remove(back)
			delete(c.items, back.Value.(cacheEntry).key)
		}
	}
	c.items[key] = c.order.PushFront(cacheEntry{key: key, value: value})
}

var widths = newCache(cacheSize)

// VisibleWidth returns the number of terminal cells s occupies. Escape
// sequences count zero; wide graphemes (CJK, emoji) count two.
func VisibleWidth(s string) int {
	if s == "" {
		return 0
	}
	if isPlainASCII(s) {
		return len(s)
	}
	if w, ok := widths.get(s); ok {
		return w
	}
	w := 0
	rest := StripANSI(s)
	state := -1
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w += graphemeWidth(cluster)
	}
	widths.put(s, w)
	return w
}

// Measure returns the widest visible line and the line count of a block.
func Measure(lines []string) (w, h int) {
	for _, l := range lines {
		if lw := VisibleWidth(l); lw > w {
			w = lw
		}
	}
	return w, len(lines)
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

func graphemeWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}
