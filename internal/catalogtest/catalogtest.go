// Package catalogtest renders small browscap catalogues for tests.
package catalogtest

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/coregx/browscap/capability"
)

// Entry is one catalogue row.
type Entry struct {
	Pattern string
	Values  map[capability.Field]string
}

// CSV renders entries as a complete catalogue: two version lines, the column
// header row, then one row per entry with every field column present.
func CSV(entries ...Entry) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"GJK_Browscap_Version", "GJK_Browscap_Version"})
	_ = w.Write([]string{"6001008", "Thu, 01 Jan 2026 00:00:00 +0000"})

	header := make([]string, capability.NumFields+1)
	header[0] = "PropertyName"
	for _, f := range capability.AllFields() {
		header[f.Column()] = f.String()
	}
	_ = w.Write(header)

	for _, e := range entries {
		row := make([]string, capability.NumFields+1)
		row[0] = e.Pattern
		for f, v := range e.Values {
			row[f.Column()] = v
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.String()
}

// Sample returns a small catalogue covering desktop, mobile, crawler and
// command line clients plus the catch-all rule.
func Sample() []Entry {
	return []Entry{
		{
			Pattern: "Mozilla/5.0 (*Windows NT 10.0*Win64? x64*) AppleWebKit* (KHTML, like Gecko)*Chrome/120.*Safari/*",
			Values: map[capability.Field]string{
				capability.IsLiteMode:          "true",
				capability.Browser:             "Chrome",
				capability.BrowserType:         "Browser",
				capability.BrowserMajorVersion: "120",
				capability.Platform:            "Win10",
				capability.PlatformVersion:     "10.0",
				capability.DeviceType:          "Desktop",
				capability.IsCrawler:           "false",
			},
		},
		{
			Pattern: "Mozilla/5.0 (*Windows NT 10.0*) Gecko* Firefox/121.0*",
			Values: map[capability.Field]string{
				capability.IsLiteMode:          "false",
				capability.Browser:             "Firefox",
				capability.BrowserType:         "Browser",
				capability.BrowserMajorVersion: "121",
				capability.Platform:            "Win10",
				capability.PlatformVersion:     "10.0",
				capability.DeviceType:          "Desktop",
				capability.IsCrawler:           "false",
			},
		},
		{
			Pattern: "Mozilla/5.0 (iPhone*CPU iPhone OS 17?0* like Mac OS X*)*Version/17.0*Mobile/*Safari*",
			Values: map[capability.Field]string{
				capability.IsLiteMode:          "true",
				capability.Browser:             "Safari",
				capability.BrowserType:         "Browser",
				capability.BrowserMajorVersion: "17",
				capability.Platform:            "iOS",
				capability.PlatformVersion:     "17.0",
				capability.DeviceType:          "Mobile Phone",
				capability.IsCrawler:           "false",
			},
		},
		{
			Pattern: "Mozilla/5.0 (*Linux*Android?14*) AppleWebKit* (KHTML, like Gecko)*Chrome/120.*Mobile Safari*",
			Values: map[capability.Field]string{
				capability.IsLiteMode:          "false",
				capability.Browser:             "Chrome",
				capability.BrowserType:         "Browser",
				capability.BrowserMajorVersion: "120",
				capability.Platform:            "Android",
				capability.PlatformVersion:     "14",
				capability.DeviceType:          "Mobile Phone",
				capability.IsCrawler:           "false",
			},
		},
		{
			Pattern: "Mozilla/5.0 (compatible; Googlebot/2.1*",
			Values: map[capability.Field]string{
				capability.IsLiteMode:  "false",
				capability.Browser:     "Googlebot",
				capability.BrowserType: "Bot/Crawler",
				capability.IsCrawler:   "true",
			},
		},
		{
			Pattern: "curl/*",
			Values: map[capability.Field]string{
				capability.IsLiteMode:  "false",
				capability.Browser:     " curl ",
				capability.BrowserType: "Application",
				capability.IsCrawler:   "",
			},
		},
		{
			Pattern: "*",
			Values: map[capability.Field]string{
				capability.IsLiteMode: "true",
				capability.Browser:    "Default Browser",
			},
		},
	}
}

// User agents matching the Sample rules, in Sample order.
const (
	ChromeDesktop  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	FirefoxDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0"
	SafariIPhone   = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	ChromeAndroid  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	Googlebot      = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	Curl           = "curl/8.4.0"
)

// WriteCSV writes the catalogue to a file in a test temp dir and returns its
// path.
func WriteCSV(t testing.TB, entries ...Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "browscap.csv")
	if err := os.WriteFile(path, []byte(CSV(entries...)), 0o600); err != nil {
		t.Fatalf("catalogtest: %v", err)
	}
	return path
}

// WriteZip writes the catalogue as the single entry of a zip archive and
// returns the archive path.
func WriteZip(t testing.TB, entries ...Entry) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("browscap.csv")
	if err != nil {
		t.Fatalf("catalogtest: %v", err)
	}
	if _, err := w.Write([]byte(CSV(entries...))); err != nil {
		t.Fatalf("catalogtest: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("catalogtest: %v", err)
	}

	path := filepath.Join(t.TempDir(), "browscap.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("catalogtest: %v", err)
	}
	return path
}
