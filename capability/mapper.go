package capability

const (
	// UnknownValue is stored for every field a record leaves empty.
	UnknownValue = "Unknown"

	// DefaultBrowser is the browser and browser type of a record that does
	// not name one.
	DefaultBrowser = "Default Browser"
)

// Mapper fixes the slot of every kept field inside a Capabilities value slice.
//
// The kept fields are the requested ones plus the six default fields, laid
// out in column order. A Mapper is immutable and shared by every record a
// parser produces.
type Mapper struct {
	fields []Field
	slots  [NumFields]int
}

// NewMapper creates a mapper over requested plus the default fields.
// Invalid and duplicate fields are ignored.
func NewMapper(requested []Field) *Mapper {
	var keep [NumFields]bool
	for _, f := range defaultFields {
		keep[f] = true
	}
	for _, f := range requested {
		if f.Valid() {
			keep[f] = true
		}
	}

	m := &Mapper{}
	for i := range m.slots {
		m.slots[i] = -1
		if keep[i] {
			m.slots[i] = len(m.fields)
			m.fields = append(m.fields, Field(i))
		}
	}
	return m
}

// Len returns the number of kept fields.
func (m *Mapper) Len() int {
	return len(m.fields)
}

// Fields returns the kept fields in slot order.
func (m *Mapper) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// Has reports whether f is kept.
func (m *Mapper) Has(f Field) bool {
	_, ok := m.slot(f)
	return ok
}

func (m *Mapper) slot(f Field) (int, bool) {
	if !f.Valid() {
		return 0, false
	}
	s := m.slots[f]
	return s, s >= 0
}

// Values lays values out in slot order.
//
// Every slot starts as UnknownValue, browser and browser type then default to
// DefaultBrowser, and finally the given values are applied. Values of fields
// the mapper does not keep are dropped.
func (m *Mapper) Values(values map[Field]string) []string {
	out := make([]string, len(m.fields))
	for i := range out {
		out[i] = UnknownValue
	}
	m.put(out, Browser, DefaultBrowser)
	m.put(out, BrowserType, DefaultBrowser)

	for f, v := range values {
		m.put(out, f, v)
	}
	return out
}

func (m *Mapper) put(out []string, f Field, v string) {
	if s, ok := m.slot(f); ok {
		out[s] = v
	}
}
