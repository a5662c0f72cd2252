// Package service serves user agent lookups from a catalogue file and
// follows updates to it.
//
// A Service owns the current browscap.Parser behind an atomic pointer. A
// reload builds a brand new parser and swaps it in; lookups running against
// the previous parser finish undisturbed. Results are memoized in a bounded
// LRU cache keyed by the raw user agent.
package service

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/coregx/browscap"
	"github.com/coregx/browscap/capability"
)

var (
	// ErrNoPath indicates a configuration without a catalogue file.
	ErrNoPath = errors.New("service: catalogue path is empty")

	// ErrInvalidCacheSize indicates a negative cache size.
	ErrInvalidCacheSize = errors.New("service: cache size must not be negative")
)

// defaultDebounce is the quiet period Watch waits for after the last file
// event before reloading.
const defaultDebounce = 250 * time.Millisecond

// Config configures a Service.
type Config struct {
	// Path is the catalogue file, a .zip archive or a plain CSV file.
	Path string

	// Options control how the catalogue is built.
	Options browscap.Options

	// CacheSize bounds the number of memoized user agents. 0 disables the
	// cache.
	CacheSize int

	// Debounce is the quiet period Watch waits for before reloading.
	// Default: 250ms
	Debounce time.Duration

	// Logger receives reload events. nil means slog.Default().
	Logger *slog.Logger
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Path == "" {
		return ErrNoPath
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.CacheSize)
	}
	return c.Options.Validate()
}

// entry is a cached lookup, valid only while parser is current.
type entry struct {
	parser *browscap.Parser
	caps   *capability.Capabilities
}

// Service resolves user agents against the current catalogue.
// All methods are safe for concurrent use.
type Service struct {
	config Config
	logger *slog.Logger
	parser atomic.Pointer[browscap.Parser]
	cache  *lru.Cache

	// mu serializes reloads.
	mu   sync.Mutex
	hash [sha256.Size]byte

	reloads atomic.Uint64
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New loads the catalogue at config.Path and returns a service serving it.
func New(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Options.Logger == nil {
		config.Options.Logger = logger
	}

	s := &Service{config: config, logger: logger}
	if config.CacheSize > 0 {
		cache, err := lru.New(config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("service: %w", err)
		}
		s.cache = cache
	}

	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse returns the capabilities of ua under the current catalogue.
func (s *Service) Parse(ua string) *capability.Capabilities {
	p := s.parser.Load()
	if s.cache == nil {
		return p.Parse(ua)
	}

	if v, ok := s.cache.Get(ua); ok {
		if e := v.(entry); e.parser == p {
			s.hits.Add(1)
			return e.caps
		}
	}
	s.misses.Add(1)
	caps := p.Parse(ua)
	s.cache.Add(ua, entry{parser: p, caps: caps})
	return caps
}

// Parser returns the current parser.
func (s *Service) Parser() *browscap.Parser {
	return s.parser.Load()
}

// Reload rebuilds the parser from the catalogue file and swaps it in.
// On failure the current parser stays in service.
func (s *Service) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.loadLocked(true)
	return err
}

// reloadIfChanged reloads only when the file content differs from the last
// loaded catalogue.
func (s *Service) reloadIfChanged() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(false)
}

func (s *Service) load() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(true)
}

func (s *Service) loadLocked(force bool) (bool, error) {
	hash, err := fileHash(s.config.Path)
	if err != nil {
		return false, err
	}
	if !force && hash == s.hash {
		return false, nil
	}

	start := time.Now()
	p, err := browscap.LoadFile(s.config.Path, s.config.Options)
	if err != nil {
		return false, err
	}

	old := s.parser.Swap(p)
	s.hash = hash
	if s.cache != nil {
		s.cache.Purge()
	}

	st := p.Stats()
	attrs := []any{
		slog.String("path", s.config.Path),
		slog.Int("rules", st.Rules),
		slog.Int("capabilities", st.Capabilities),
		slog.Duration("elapsed", time.Since(start)),
	}
	if old == nil {
		s.logger.Info("catalogue loaded", attrs...)
	} else {
		s.reloads.Add(1)
		s.logger.Info("catalogue reloaded", attrs...)
	}
	return true, nil
}

func fileHash(path string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, fmt.Errorf("service: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, fmt.Errorf("service: read %s: %w", path, err)
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// Stats describes the service.
type Stats struct {
	browscap.Stats

	// Reloads counts successful reloads after the initial load.
	Reloads uint64

	// CacheHits and CacheMisses count Parse calls served from and past the
	// cache. Both stay 0 with the cache disabled.
	CacheHits   uint64
	CacheMisses uint64

	// CacheLen is the number of memoized user agents.
	CacheLen int
}

// Stats returns a snapshot of the service counters.
func (s *Service) Stats() Stats {
	st := Stats{
		Stats:       s.parser.Load().Stats(),
		Reloads:     s.reloads.Load(),
		CacheHits:   s.hits.Load(),
		CacheMisses: s.misses.Load(),
	}
	if s.cache != nil {
		st.CacheLen = s.cache.Len()
	}
	return st
}
