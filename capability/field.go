// Package capability holds the attribute records a user-agent lookup returns.
//
// A browscap catalogue has one column per Field. A parser only keeps the
// fields it was asked for plus the six default fields; the Mapper fixes the
// slot of each kept field, and every Capabilities record is a plain slice of
// values laid out by that mapper. Identical records are shared through a
// Table so that hundreds of thousands of rules reference a few thousand
// distinct records.
package capability

import (
	"fmt"
	"strings"
)

// Field identifies one browscap catalogue column.
type Field int

// Catalogue fields in column order.
const (
	IsMasterParent Field = iota
	IsLiteMode
	Parent
	Comment
	Browser
	BrowserType
	BrowserBits
	BrowserMaker
	BrowserModus
	BrowserVersion
	BrowserMajorVersion
	BrowserMinorVersion
	Platform
	PlatformVersion
	PlatformDescription
	PlatformBits
	PlatformMaker
	IsAlpha
	IsBeta
	IsWin16
	IsWin32
	IsWin64
	IsIframes
	IsFrames
	IsTables
	IsCookies
	IsBackgroundSounds
	IsJavascript
	IsVBScript
	IsJavaApplets
	IsActiveXControls
	IsMobileDevice
	IsTablet
	IsSyndicationReader
	IsCrawler
	IsFake
	IsAnonymized
	IsModified
	CSSVersion
	AOLVersion
	DeviceName
	DeviceMaker
	DeviceType
	DevicePointingMethod
	DeviceCodeName
	DeviceBrandName
	RenderingEngineName
	RenderingEngineVersion
	RenderingEngineDescription
	RenderingEngineMaker

	// NumFields is the number of catalogue fields.
	NumFields = int(iota)
)

var fieldNames = [NumFields]string{
	"is_master_parent",
	"is_lite_mode",
	"parent",
	"comment",
	"browser",
	"browser_type",
	"browser_bits",
	"browser_maker",
	"browser_modus",
	"browser_version",
	"browser_major_version",
	"browser_minor_version",
	"platform",
	"platform_version",
	"platform_description",
	"platform_bits",
	"platform_maker",
	"is_alpha",
	"is_beta",
	"is_win16",
	"is_win32",
	"is_win64",
	"is_iframes",
	"is_frames",
	"is_tables",
	"is_cookies",
	"is_background_sounds",
	"is_javascript",
	"is_vbscript",
	"is_java_applets",
	"is_activex_controls",
	"is_mobile_device",
	"is_tablet",
	"is_syndication_reader",
	"is_crawler",
	"is_fake",
	"is_anonymized",
	"is_modified",
	"css_version",
	"aol_version",
	"device_name",
	"device_maker",
	"device_type",
	"device_pointing_method",
	"device_code_name",
	"device_brand_name",
	"rendering_engine_name",
	"rendering_engine_version",
	"rendering_engine_description",
	"rendering_engine_maker",
}

// defaultFields are always kept, whatever a caller asks for.
var defaultFields = []Field{
	Browser,
	BrowserType,
	BrowserMajorVersion,
	Platform,
	PlatformVersion,
	DeviceType,
}

// IsDefault reports whether f is one of the six fields every parser keeps.
func (f Field) IsDefault() bool {
	switch f {
	case Browser, BrowserType, BrowserMajorVersion, Platform, PlatformVersion, DeviceType:
		return true
	default:
		return false
	}
}

// Column returns the catalogue record column holding f.
// Column 0 is the pattern, so fields start at column 1.
func (f Field) Column() int {
	return int(f) + 1
}

// Valid reports whether f names a catalogue field.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < NumFields
}

// String returns the snake-case name of the field.
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField returns the field named s.
//
// Matching ignores case and treats '-' like '_', so "Browser_Type",
// "browser-type" and "BROWSER_TYPE" all name BrowserType.
func ParseField(s string) (Field, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, &FieldError{Name: s, Err: ErrUnknownField}
}

// ParseFields parses a list of field names, stopping at the first unknown one.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		f, err := ParseField(n)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// AllFields returns every catalogue field in column order.
func AllFields() []Field {
	fields := make([]Field, NumFields)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// DefaultFields returns the six default fields in column order.
func DefaultFields() []Field {
	return append([]Field(nil), defaultFields...)
}
