// Package assets ships the default vocabularies and the SQLite migrations.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed words_en.txt words_de.txt
var FS embed.FS

//go:embed sql/*.sql
var migrations embed.FS

// Locales lists the locales that have an embedded vocabulary.
var Locales = []string{"de", "en"}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordList returns the raw embedded word list for locale.
// Normalization (casing, letter filtering) is left to the caller.
func WordList(locale string) ([]string, error) {
	return readLines(fmt.Sprintf("words_%s.txt", locale))
}

// Migrations returns the embedded migration scripts rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return sub
}
