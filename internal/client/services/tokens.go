package services

import "sync"

// requestTokens hands out monotonic tokens per (operation, barcode). Only the
// most recent token of a key may apply its response.
type requestTokens struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func newRequestTokens() *requestTokens {
	return &requestTokens{latest: make(map[string]uint64)}
}

func tokenKey(op, barcode string) string { return op + "\x00" + barcode }

func (t *requestTokens) next(op, barcode string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.latest[tokenKey(op, barcode)] = t.seq
	return t.seq
}

// claim reports whether tok is still the latest for its key and retires it.
// A claimed or superseded token can never be claimed again.
func (t *requestTokens) claim(op, barcode string, tok uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := tokenKey(op, barcode)
	if t.latest[k] != tok {
		return false
	}
	delete(t.latest, k)
	return true
}
