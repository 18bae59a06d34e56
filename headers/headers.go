// Package headers implements the ordered header-name-to-value mapping
// produced by the frame parser, along with its two normalization
// schemes: the server-side CGI/environment form and the client-side
// case-folded form with its synthetic status entries.
//
// The ordered-insertion shape follows an existing Manager precedent; the
// HTTP_-prefixed environment naming is the same transform a FastCGI relay
// performs when handing a request off to an upstream (see DESIGN.md).
package headers

import "strings"

// entry is one slot in the ordered header block.
type entry struct {
	name  string
	value string
}

// Block is an ordered mapping from normalized header name to value.
// Duplicate names are combined in arrival order by appending ",".
type Block struct {
	entries []entry
	index   map[string]int
}

// NewBlock returns an empty header block with room for n entries.
func NewBlock(n int) *Block {
	return &Block{
		entries: make([]entry, 0, n),
		index:   make(map[string]int, n),
	}
}

// Insert adds a header under name with value. If name already exists, the
// new value is appended to the existing one separated by "," (the
// duplicate-header combination rule).
func (b *Block) Insert(name, value string) {
	if i, ok := b.index[name]; ok {
		b.entries[i].value += "," + value
		return
	}

	b.index[name] = len(b.entries)
	b.entries = append(b.entries, entry{name: name, value: value})
}

// Fold appends continuation bytes to the most recently inserted header's
// value (the folded-header rule). It returns false if no header has been
// inserted yet, which the caller must treat as BadRequest/BadResponse.
func (b *Block) Fold(continuation string) (ok bool) {
	if len(b.entries) == 0 {
		return false
	}

	b.entries[len(b.entries)-1].value += continuation
	return true
}

// Get returns the value for name and whether it was present.
func (b *Block) Get(name string) (string, bool) {
	i, ok := b.index[name]
	if !ok {
		return "", false
	}
	return b.entries[i].value, true
}

// Has reports whether name is present.
func (b *Block) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Len returns the number of distinct header names stored.
func (b *Block) Len() int {
	return len(b.entries)
}

// Each calls fn for every header in arrival order.
func (b *Block) Each(fn func(name, value string)) {
	for _, e := range b.entries {
		fn(e.name, e.value)
	}
}

// LastName returns the name of the most recently inserted header: the one
// whose value Fold extends.
func (b *Block) LastName() (string, bool) {
	if len(b.entries) == 0 {
		return "", false
	}
	return b.entries[len(b.entries)-1].name, true
}

// NormalizeServer implements the server-side environment naming rule:
// uppercase, dashes replaced with underscores, prefixed with HTTP_, except
// Content-Length and Content-Type, which lose the prefix entirely.
func NormalizeServer(name string) string {
	upper := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))

	switch upper {
	case "CONTENT_LENGTH", "CONTENT_TYPE":
		return upper
	default:
		return "HTTP_" + upper
	}
}

// NormalizeClient implements the client-side naming rule: simple
// case-folding (lowercasing), no prefixing.
func NormalizeClient(name string) string {
	return strings.ToLower(name)
}

// Well-known synthetic client-side entries, inserted by the frame parser
// as soon as a response's status line has been parsed, ahead of any real
// header.
const (
	XServerProtocol     = "x-server-protocol"
	XServerStatusMessage = "x-server-status-message"
)
