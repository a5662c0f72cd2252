package capability

import (
	"encoding/json"
	"strings"
)

// Capabilities is the immutable attribute record of one catalogue rule.
//
// Two records with the same values produced by the same Table are the same
// pointer, so pointer equality is value equality within one parser.
type Capabilities struct {
	values []string
	mapper *Mapper
}

// Lookup returns the value of f and whether the parser kept f.
func (c *Capabilities) Lookup(f Field) (string, bool) {
	s, ok := c.mapper.slot(f)
	if !ok {
		return "", false
	}
	return c.values[s], true
}

// Get returns the value of f, or "" if the parser did not keep f.
func (c *Capabilities) Get(f Field) string {
	v, _ := c.Lookup(f)
	return v
}

// Browser returns the browser name, e.g. "Chrome".
func (c *Capabilities) Browser() string { return c.Get(Browser) }

// BrowserType returns the browser type, e.g. "Browser" or "Application".
func (c *Capabilities) BrowserType() string { return c.Get(BrowserType) }

// BrowserMajorVersion returns the major browser version, e.g. "55".
func (c *Capabilities) BrowserMajorVersion() string { return c.Get(BrowserMajorVersion) }

// Platform returns the platform name, e.g. "Android" or "Win10".
func (c *Capabilities) Platform() string { return c.Get(Platform) }

// PlatformVersion returns the platform version.
func (c *Capabilities) PlatformVersion() string { return c.Get(PlatformVersion) }

// DeviceType returns the device type, e.g. "Mobile Phone" or "Desktop".
func (c *Capabilities) DeviceType() string { return c.Get(DeviceType) }

// Values returns every kept field with its value.
func (c *Capabilities) Values() map[Field]string {
	out := make(map[Field]string, len(c.values))
	for i, f := range c.mapper.fields {
		out[f] = c.values[i]
	}
	return out
}

// Equal reports whether c and other hold the same values.
func (c *Capabilities) Equal(other *Capabilities) bool {
	if c == other {
		return true
	}
	if other == nil || len(c.values) != len(other.values) {
		return false
	}
	for i := range c.values {
		if c.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as an object keyed by field name.
func (c *Capabilities) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(c.values))
	for i, f := range c.mapper.fields {
		out[f.String()] = c.values[i]
	}
	return json.Marshal(out)
}

// String returns the record in slot order, e.g.
// "Capabilities{browser='Chrome', browser_type='Browser', ...}".
func (c *Capabilities) String() string {
	var b strings.Builder
	b.WriteString("Capabilities{")
	for i, f := range c.mapper.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
		b.WriteString("='")
		b.WriteString(c.values[i])
		b.WriteByte('\'')
	}
	b.WriteByte('}')
	return b.String()
}
