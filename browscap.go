// Package browscap classifies user agents against a browscap catalogue.
//
// A catalogue is an ordered list of wildcard patterns ('*' matches any run of
// bytes, '?' exactly one byte), each carrying a capabilities record such as
// browser, platform and device type. Parse returns the record of the most
// specific pattern matching a user agent. Specificity is pattern length:
// longer patterns win, ties are broken by pattern text.
//
// Lookups stay fast for catalogues of several hundred thousand patterns
// through three layers:
//   - Interned pattern fragments, so each distinct fragment is searched for
//     at most once per query
//   - Exclusion filters that discard, with a handful of substring checks,
//     every rule that provably cannot match
//   - Deduplicated records, so equal capabilities share one value
//
// Basic usage:
//
//	// Load the catalogue, keeping two fields besides the defaults
//	p, err := browscap.LoadFile("browscap.zip", browscap.Options{
//	    Fields: []capability.Field{capability.IsMobileDevice, capability.IsCrawler},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	caps := p.Parse(r.UserAgent())
//	fmt.Println(caps.Browser(), caps.Platform(), caps.Get(capability.IsCrawler))
//
// A Parser is immutable and safe for concurrent use. To follow catalogue
// updates, see package service.
//
// Matching is greedy and never backtracks: each middle fragment binds to its
// first occurrence after the previous one. Overlapping fragments can
// therefore miss: "aa*aa" does not match "aaa". browscap patterns do not rely
// on such overlaps.
package browscap

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/coregx/browscap/capability"
	"github.com/coregx/browscap/engine"
	"github.com/coregx/browscap/literal"
	"github.com/coregx/browscap/loader"
	"github.com/coregx/browscap/rule"
)

// Options controls how a catalogue is turned into a Parser.
// The zero value keeps the default fields of the full catalogue.
type Options struct {
	// Fields are kept in addition to the six default fields.
	Fields []capability.Field

	// LiteOnly keeps only the rules of the lite catalogue, whose
	// is_lite_mode column is "true". is_lite_mode is then kept as a field.
	LiteOnly bool

	// Engine configures the rule engine. nil means engine.DefaultConfig().
	Engine *engine.Config

	// Logger receives build progress. nil means slog.Default().
	Logger *slog.Logger
}

// Validate checks the fields and the engine configuration.
func (o Options) Validate() error {
	for _, f := range o.Fields {
		if !f.Valid() {
			return &capability.FieldError{Name: f.String(), Err: capability.ErrUnknownField}
		}
	}
	return o.engineConfig().Validate()
}

func (o Options) engineConfig() engine.Config {
	if o.Engine != nil {
		return *o.Engine
	}
	return engine.DefaultConfig()
}

// fields returns the fields a record must carry.
func (o Options) fields() []capability.Field {
	fields := append([]capability.Field(nil), o.Fields...)
	if o.LiteOnly {
		fields = append(fields, capability.IsLiteMode)
	}
	return fields
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Parser resolves user agents to capabilities.
//
// Example:
//
//	p, _ := browscap.Load(f, browscap.Options{})
//	p.Parse("curl/8.4.0").Browser() // "curl"
type Parser struct {
	engine       *engine.Engine
	mapper       *capability.Mapper
	capabilities int
}

// Build creates a parser from catalogue records.
//
// Patterns must be normalized, as loader.Reader returns them. With
// Options.LiteOnly set, records whose is_lite_mode field is not "true" are
// dropped. A pattern that cannot be decomposed fails the whole build with a
// *rule.DecodeError.
func Build(records []loader.Record, opts Options) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	mapper := capability.NewMapper(opts.fields())
	table := capability.NewTable(mapper)
	interner := literal.NewInterner(literal.NewDomain())
	builder := rule.NewBuilder(interner, table)

	rules := make([]*rule.Rule, 0, len(records))
	for i, rec := range records {
		if opts.LiteOnly && rec.Fields[capability.IsLiteMode] != "true" {
			continue
		}
		r, err := builder.Build(rec.Pattern, table.Get(rec.Fields))
		if err != nil {
			line := rec.Line
			if line == 0 {
				line = i + 1
			}
			return nil, fmt.Errorf("browscap: record %d: %w", line, err)
		}
		rules = append(rules, r)
	}

	e, err := engine.New(rules, interner, table.Default(), opts.engineConfig())
	if err != nil {
		return nil, fmt.Errorf("browscap: %w", err)
	}

	p := &Parser{
		engine:       e,
		mapper:       mapper,
		capabilities: table.Len(),
	}
	st := e.Stats()
	opts.logger().Debug("catalogue built",
		slog.Int("rules", st.Rules),
		slog.Int("literals", st.Literals),
		slog.Int("capabilities", p.capabilities),
		slog.Int("filters", st.Filters),
		slog.Duration("elapsed", time.Since(start)),
	)
	return p, nil
}

// Load reads a CSV catalogue from r and builds a parser from it.
func Load(r io.Reader, opts Options) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	reader := loader.NewReader(r, opts.fields(), opts.LiteOnly)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("browscap: %w", err)
	}
	opts.logger().Debug("catalogue read",
		slog.Int("records", len(records)),
		slog.Int("skipped", reader.Skipped()),
	)
	return Build(records, opts)
}

// LoadFile builds a parser from the catalogue at path, either a zip archive
// holding the CSV file or the CSV file itself.
func LoadFile(path string, opts Options) (*Parser, error) {
	f, err := loader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("browscap: %w", err)
	}
	defer f.Close()

	p, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse returns the capabilities of ua. Unknown and empty user agents yield
// the default record, so Parse never returns nil.
func (p *Parser) Parse(ua string) *capability.Capabilities {
	return p.engine.Parse(ua)
}

// Match returns the rule ua resolves to, or nil when no rule matches.
func (p *Parser) Match(ua string) *rule.Rule {
	return p.engine.Match(ua)
}

// Explain resolves ua and reports the rule it matched and the work it took.
func (p *Parser) Explain(ua string) engine.Trace {
	return p.engine.Explain(ua)
}

// Default returns the record of user agents no rule matches.
func (p *Parser) Default() *capability.Capabilities {
	return p.engine.Default()
}

// Fields returns the fields every record carries, in column order.
func (p *Parser) Fields() []capability.Field {
	return p.mapper.Fields()
}

// Engine returns the underlying rule engine.
func (p *Parser) Engine() *engine.Engine {
	return p.engine
}

// Stats describes a parser's catalogue and lookup counters.
type Stats struct {
	engine.Stats

	// Capabilities is the number of distinct records.
	Capabilities int
}

// Stats returns a snapshot of the parser counters.
func (p *Parser) Stats() Stats {
	return Stats{Stats: p.engine.Stats(), Capabilities: p.capabilities}
}
