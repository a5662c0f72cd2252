package capability

import (
	"strconv"
	"strings"
)

// Table deduplicates Capabilities by content during a build.
//
// Table is build-scoped and not safe for concurrent use.
type Table struct {
	mapper *Mapper
	byKey  map[string]*Capabilities
}

// NewTable creates an empty table laying records out with mapper.
func NewTable(mapper *Mapper) *Table {
	return &Table{
		mapper: mapper,
		byKey:  make(map[string]*Capabilities),
	}
}

// Mapper returns the mapper records are laid out with.
func (t *Table) Mapper() *Mapper {
	return t.mapper
}

// Get returns the unique record holding values.
// Fields missing from values take the seeded defaults, see Mapper.Values.
func (t *Table) Get(values map[Field]string) *Capabilities {
	slots := t.mapper.Values(values)
	key := contentKey(slots)
	if c, ok := t.byKey[key]; ok {
		return c
	}
	c := &Capabilities{values: slots, mapper: t.mapper}
	t.byKey[key] = c
	return c
}

// Default returns the record used when no rule matches: browser and browser
// type are DefaultBrowser and every other kept field is UnknownValue.
func (t *Table) Default() *Capabilities {
	return t.Get(nil)
}

// Len returns the number of distinct records.
func (t *Table) Len() int {
	return len(t.byKey)
}

// contentKey encodes slots injectively: every value is prefixed with its
// byte length, so no value content can shift a boundary.
func contentKey(slots []string) string {
	var b strings.Builder
	for _, v := range slots {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
