package catalog

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName maps a raw dataset name to its canonical spelling.
func NormalizeName(t Tables, raw string) string {
	name := norm.NFC.String(strings.TrimSpace(raw))
	if canonical, ok := t.Aliases[name]; ok {
		return canonical
	}
	return name
}

// ResolveLogo returns the logo reference for a row: an absolute URL, a path
// under assetDir, or "" when nothing is known.
func ResolveLogo(t Tables, assetDir string, row RawRow) string {
	cell := row.Get(ColLogo)
	if cell != "" {
		if IsRemote(cell) {
			return cell
		}
		return filepath.Join(assetDir, filepath.Base(cell))
	}

	if file := t.LogoFiles[NormalizeName(t, row.Get(ColName))]; file != "" {
		return filepath.Join(assetDir, file)
	}
	return ""
}

// ResolveWebsite applies the website override table.
func ResolveWebsite(t Tables, row RawRow) string {
	if fixed, ok := t.WebsiteFixes[NormalizeName(t, row.Get(ColName))]; ok {
		return fixed
	}
	return row.Get(ColWebsite)
}

// LookupPrice returns the price range for a normalized name.
func LookupPrice(t Tables, name string) PriceRange {
	p, ok := t.Prices[name]
	if !ok {
		return PriceRange{Undisclosed: true}
	}
	return PriceRange{Low: p[0], High: p[1]}
}

// SplitList splits a comma separated cell, trimming tokens and dropping
// empty ones.
func SplitList(s string) []string {
	out := make([]string, 0)
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
