// internal/words/provider.go
//
// Vocabulary providers.
//
// Sources:
//   - EmbeddedProvider: the lists shipped in package assets (en, de).
//   - FileProvider: a plain text file or a .zip archive holding one. Lines are
//     "word [fields...]"; '#' comments and lines containing ',' are skipped, which
//     also accepts DeReWo-style frequency lists.
//
// Every provider normalizes words the same way: NFC, locale-aware lowercasing,
// and letters only.

package words

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/cthoyt/pyrdle/assets"
)

// ErrUnsupportedLocale is returned for a locale a provider cannot serve.
var ErrUnsupportedLocale = errors.New("words: unsupported locale")

// Provider returns the raw vocabulary for a locale. Repeated calls with the
// same locale must return the same words.
type Provider interface {
	Words(locale string) ([]string, error)
}

// EmbeddedProvider serves the vocabularies compiled into the binary.
type EmbeddedProvider struct{}

// Words implements Provider.
func (EmbeddedProvider) Words(locale string) ([]string, error) {
	if !slices.Contains(assets.Locales, locale) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	raw, err := assets.WordList(locale)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s list: %w", locale, err)
	}
	return Normalize(locale, raw)
}

// FileProvider reads a word list from disk. Any locale tag is accepted; it
// only drives casing rules.
type FileProvider struct {
	Path string
	// Encoding is "" / "utf-8" or "iso-8859-1" (alias "latin1").
	Encoding string
}

// Words implements Provider.
func (p FileProvider) Words(locale string) ([]string, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if strings.EqualFold(filepath.Ext(p.Path), ".zip") {
		rc, err = openZipEntry(p.Path)
	} else {
		rc, err = os.Open(p.Path)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	switch strings.ToLower(p.Encoding) {
	case "", "utf-8", "utf8":
	case "iso-8859-1", "latin1":
		r = charmap.ISO8859_1.NewDecoder().Reader(rc)
	default:
		return nil, fmt.Errorf("words: unknown encoding %q", p.Encoding)
	}

	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.Path, err)
	}
	return Normalize(locale, raw)
}

// zipEntry closes both the entry and its archive.
type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z zipEntry) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// openZipEntry opens the first .txt file inside the archive at path.
func openZipEntry(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = zr.Close()
			return nil, err
		}
		return zipEntry{ReadCloser: rc, archive: zr}, nil
	}
	_ = zr.Close()
	return nil, fmt.Errorf("words: no .txt entry in %s", path)
}

// Normalize turns raw lines into lowercase letter-only words for locale.
// Blank lines, '#' comments and lines containing ',' are dropped; only the
// first whitespace-separated field of a line is used.
func Normalize(locale string, lines []string) ([]string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	lower := cases.Lower(tag)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.Contains(line, ",") {
			continue
		}
		w := strings.Fields(line)[0]
		w = lower.String(norm.NFC.String(w))
		if isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// isAlpha reports whether s is made of letters only.
func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
