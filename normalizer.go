package thirteenf

import (
	"iter"
	"sort"
	"sync"
)

// Security is the immutable identity of one issuer as observed across
// filings: a canonical key, a display name, and every raw identifier string
// ever seen mapping to that key. Securities are created on first observation
// and never deleted; aliases only accumulate.
type Security struct {
	key       Key
	name      string
	aliases   []string
	nameKeyed bool // matched across quarters by name only: lower confidence
}

// Key returns the canonical key of the security.
func (s *Security) Key() Key { return s.key }

// Name returns the display name of the security.
func (s *Security) Name() string { return s.name }

// Aliases returns a copy of every raw identifier string seen for this security.
func (s *Security) Aliases() []string {
	out := make([]string, len(s.aliases))
	copy(out, s.aliases)
	return out
}

// NameKeyed reports whether this security is keyed by its normalized name
// only. Name keys match across quarters with a documented risk of false
// merges and false splits on renames.
func (s *Security) NameKeyed() bool { return s.nameKeyed }

// Normalizer canonicalizes raw security references into stable keys and
// maintains the process-wide alias table.
//
// The alias table is the only shared mutable state during ingestion: it is
// created empty, grows monotonically, and is never pruned. Registrations of
// new aliases are serialized per table; lookups share a read lock.
type Normalizer struct {
	mu         sync.RWMutex
	aliases    map[string]Key
	securities map[Key]*Security
}

// NewNormalizer returns a Normalizer with an empty alias table.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		aliases:    make(map[string]Key),
		securities: make(map[Key]*Security),
	}
}

// Normalize canonicalizes a raw identifier and name into a key. It never
// fails: an unusable identifier falls back to a ticker key, then to the
// alias table for the name, then to a name key, and a row with nothing
// usable yields the explicit Unresolved key so callers can count the row
// without aborting the filing.
//
// As a side effect the raw strings are registered as aliases of the
// resulting key.
func (n *Normalizer) Normalize(rawID, rawName string) Key {
	if key, ok := n.lookup(rawID); ok {
		n.register(key, rawID, rawName, false)
		return key
	}

	if key, err := NewCUSIPKey(rawID); err == nil {
		n.register(key, rawID, rawName, false)
		return key
	}
	if key, err := NewTickerKey(rawID); err == nil {
		n.register(key, rawID, rawName, false)
		return key
	}

	// The name may already be an alias of an identifier-keyed security
	// from an earlier filing. Reuse that key rather than minting a fresh
	// name key, so the security's history stays in one series.
	if key, ok := n.lookup(rawName); ok {
		n.register(key, rawID, rawName, false)
		return key
	}
	if key, err := NewNameKey(rawName); err == nil {
		n.register(key, rawID, rawName, true)
		return key
	}
	return Unresolved
}

// Resolve looks up a previously registered raw identifier string.
func (n *Normalizer) Resolve(raw string) (Key, bool) {
	return n.lookup(raw)
}

// Security returns the security record for a canonical key.
func (n *Normalizer) Security(key Key) (*Security, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	s, ok := n.securities[key]
	return s, ok
}

// Securities returns an iterator over all known securities, ordered by key
// for determinism.
func (n *Normalizer) Securities() iter.Seq[*Security] {
	n.mu.RLock()
	keys := make([]Key, 0, len(n.securities))
	for k := range n.securities {
		keys = append(keys, k)
	}
	n.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return func(yield func(*Security) bool) {
		for _, k := range keys {
			s, ok := n.Security(k)
			if ok && !yield(s) {
				return
			}
		}
	}
}

func (n *Normalizer) lookup(raw string) (Key, bool) {
	if raw == "" {
		return "", false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	key, ok := n.aliases[raw]
	return key, ok
}

// register records raw strings as aliases of key and creates the security on
// first observation. Merge-only: existing aliases are never repointed.
func (n *Normalizer) register(key Key, rawID, rawName string, nameKeyed bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	sec, ok := n.securities[key]
	if !ok {
		sec = &Security{key: key, name: rawName, nameKeyed: nameKeyed}
		n.securities[key] = sec
	}
	if sec.name == "" {
		sec.name = rawName
	}
	for _, raw := range []string{rawID, rawName} {
		if raw == "" {
			continue
		}
		if _, seen := n.aliases[raw]; !seen {
			n.aliases[raw] = key
			sec.aliases = append(sec.aliases, raw)
		}
	}
}
