package schema

import (
	"context"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

// Schema names. Case schemas double as the stored appeal_type discriminator.
const (
	NameCaseHAS   = "appeal-has"
	NameCaseS78   = "appeal-s78"
	NameInspector = "inspector"
	NameEvent     = "appeal-event"
)

//go:embed schemas/*.json
var FS embed.FS

// Document is one raw schema keyed by name.
type Document struct {
	Name string
	Raw  []byte
}

// Loader supplies the full schema set. It is called once per successful cache build.
type Loader interface {
	LoadAll(ctx context.Context) ([]Document, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) ([]Document, error)

func (f LoaderFunc) LoadAll(ctx context.Context) ([]Document, error) { return f(ctx) }

// EmbeddedLoader reads the schemas compiled into the binary.
type EmbeddedLoader struct{}

func (EmbeddedLoader) LoadAll(ctx context.Context) ([]Document, error) {
	entries, err := FS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	out := make([]Document, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := FS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		out = append(out, Document{Name: strings.TrimSuffix(e.Name(), ".json"), Raw: b})
	}
	return out, nil
}

func resourceURL(name string) string {
	return "https://appealsync.local/schemas/" + name + ".json"
}
