// Package knowledge provides the fact corpus consulted by the fact checker and
// the question bank handed to the mentor.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	// DefaultMinQueryLength is the shortest query, in runes after trimming, that reaches the index
	DefaultMinQueryLength = 5
	// DefaultLimit is the number of snippets returned when k <= 0
	DefaultLimit = 2
	// DefaultCacheSize bounds the verify cache
	DefaultCacheSize = 256

	contentField = "content"
	seedSource   = "init_data"
)

// Fixed texts shown to the fact checker instead of snippets
const (
	TooShortMessage     = "Query is too short to verify."
	NothingFoundMessage = "Nothing relevant found in the knowledge base."
)

// Index is the subset of bleve.Index the corpus relies on, enabling testability.
type Index interface {
	Index(id string, data interface{}) error
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)
	DocCount() (uint64, error)
	Close() error
}

// Options configures a Base
type Options struct {
	// Path of an on-disk index. Empty keeps the index in memory.
	Path string
	// MinQueryLength defaults to DefaultMinQueryLength when <= 0
	MinQueryLength int
	// CacheSize defaults to DefaultCacheSize when <= 0
	CacheSize int
	Logger    *zap.Logger
}

// Base is a similarity-searchable fact corpus.
type Base struct {
	index          Index
	minQueryLength int
	logger         *zap.Logger

	mu    sync.Mutex
	cache *lru.Cache[string, []string]
}

type factDocument struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Open opens or creates the index described by opts and seeds it when empty.
func Open(opts Options) (*Base, error) {
	index, err := openIndex(opts.Path)
	if err != nil {
		return nil, &CorpusUnavailableError{Message: "failed to open index", Cause: err}
	}

	base, err := NewWithIndex(index, opts)
	if err != nil {
		_ = index.Close()
		return nil, err
	}
	return base, nil
}

func openIndex(path string) (bleve.Index, error) {
	if path == "" {
		return bleve.NewMemOnly(bleve.NewIndexMapping())
	}
	if _, err := os.Stat(path); err == nil {
		return bleve.Open(path)
	}
	return bleve.New(path, bleve.NewIndexMapping())
}

// NewWithIndex wraps an existing index and seeds it when it holds no documents.
func NewWithIndex(index Index, opts Options) (*Base, error) {
	minLength := opts.MinQueryLength
	if minLength <= 0 {
		minLength = DefaultMinQueryLength
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify cache: %w", err)
	}

	b := &Base{
		index:          index,
		minQueryLength: minLength,
		logger:         logger,
		cache:          cache,
	}

	count, err := index.DocCount()
	if err != nil {
		return nil, &CorpusUnavailableError{Message: "failed to count documents", Cause: err}
	}
	if count > 0 {
		logger.Debug("knowledge base loaded", zap.Uint64("facts", count))
		return b, nil
	}

	if err := b.addFacts(seedSource, seedFacts); err != nil {
		return nil, err
	}
	logger.Debug("knowledge base seeded", zap.Int("facts", len(seedFacts)))
	return b, nil
}

// Add indexes additional facts. Cached lookups are discarded.
func (b *Base) Add(ctx context.Context, source string, facts ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.addFacts(source, facts)
}

func (b *Base) addFacts(source string, facts []string) error {
	count, err := b.index.DocCount()
	if err != nil {
		return &CorpusUnavailableError{Message: "failed to count documents", Cause: err}
	}

	for i, fact := range facts {
		id := fmt.Sprintf("%s-%d", source, int(count)+i)
		if err := b.index.Index(id, factDocument{Content: fact, Source: source}); err != nil {
			return &CorpusUnavailableError{Message: fmt.Sprintf("failed to index fact %s", id), Cause: err}
		}
	}

	b.mu.Lock()
	b.cache.Purge()
	b.mu.Unlock()
	return nil
}

// Verify returns up to k fact snippets most similar to query, best first.
// Queries shorter than the minimum length fail with a *MalformedInputError
// without touching the index.
func (b *Base) Verify(ctx context.Context, query string, k int) ([]string, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < b.minQueryLength {
		return nil, &MalformedInputError{Query: trimmed, MinLength: b.minQueryLength}
	}
	if k <= 0 {
		k = DefaultLimit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d|%s", k, strings.ToLower(trimmed))
	b.mu.Lock()
	cached, ok := b.cache.Get(key)
	b.mu.Unlock()
	if ok {
		return append([]string(nil), cached...), nil
	}

	q := bleve.NewMatchQuery(trimmed)
	q.SetField(contentField)
	req := bleve.NewSearchRequest(q)
	req.Size = k
	req.Fields = []string{contentField}

	result, err := b.index.Search(req)
	if err != nil {
		return nil, &CorpusUnavailableError{Message: "search failed", Cause: err}
	}

	snippets := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if text, ok := hit.Fields[contentField].(string); ok && text != "" {
			snippets = append(snippets, text)
		}
	}

	b.logger.Debug("knowledge lookup",
		zap.String("query", trimmed),
		zap.Int("k", k),
		zap.Int("hits", len(snippets)))

	b.mu.Lock()
	b.cache.Add(key, snippets)
	b.mu.Unlock()

	return append([]string(nil), snippets...), nil
}

// Count returns the number of indexed facts
func (b *Base) Count() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the underlying index
func (b *Base) Close() error {
	if b.index == nil {
		return nil
	}
	return b.index.Close()
}

// FormatSnippets renders snippets as a bulleted list, or the fixed
// nothing-found text when there are none.
func FormatSnippets(snippets []string) string {
	if len(snippets) == 0 {
		return NothingFoundMessage
	}
	lines := make([]string, len(snippets))
	for i, s := range snippets {
		lines[i] = "- " + s
	}
	return strings.Join(lines, "\n")
}
