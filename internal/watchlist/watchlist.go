// Package watchlist keeps the user's ordered set of symbols.
package watchlist

import (
	"sync"

	"WatchDesk/internal/model"
)

// Watchlist is an ordered set of normalized symbols, safe for concurrent
// use. It never touches the cache: removing a symbol leaves its cached data
// in place.
type Watchlist struct {
	mu      sync.Mutex
	symbols []string
	index   map[string]struct{}
}

// New creates a Watchlist seeded with symbols in order. Empty and duplicate
// symbols are dropped.
func New(seed ...string) *Watchlist {
	w := &Watchlist{index: make(map[string]struct{})}
	for _, s := range seed {
		w.Add(s)
	}
	return w
}

// Add appends symbol. It reports false when the symbol is empty or already
// present.
func (w *Watchlist) Add(symbol string) bool {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.index[sym]; ok {
		return false
	}
	w.index[sym] = struct{}{}
	w.symbols = append(w.symbols, sym)
	return true
}

// Remove deletes symbol, keeping the order of the rest.
func (w *Watchlist) Remove(symbol string) bool {
	sym := model.NormalizeSymbol(symbol)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.index[sym]; !ok {
		return false
	}
	delete(w.index, sym)
	for i, s := range w.symbols {
		if s == sym {
			w.symbols = append(w.symbols[:i], w.symbols[i+1:]...)
			break
		}
	}
	return true
}

func (w *Watchlist) Contains(symbol string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.index[model.NormalizeSymbol(symbol)]
	return ok
}

// Symbols returns a copy in insertion order.
func (w *Watchlist) Symbols() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.symbols))
	copy(out, w.symbols)
	return out
}

func (w *Watchlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.symbols)
}
