package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var defaultLocales embed.FS

// Catalog maps a language code to its nested translation tree.
type Catalog map[string]map[string]any

// ParseYAML decodes a catalog whose top-level keys are language codes.
func ParseYAML(ctx context.Context, content []byte) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrYAMLParsingCancelled, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	out := make(Catalog, len(data))
	for lang, val := range data {
		tree, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrInvalidCatalog, lang, val)
		}
		out[normalizeLang(lang)] = tree
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no languages found", ErrInvalidCatalog)
	}
	return out, nil
}

// LoadFS reads every .yaml and .yml file in dir of fsys and merges them.
// Files are read in lexical order; later files override earlier keys.
func LoadFS(ctx context.Context, fsys fs.FS, dir string) (Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDir, err)
	}

	out := Catalog{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingCancelled, err)
		}
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}

		name := path.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, fmt.Errorf("%s: %w", name, err))
		}
		catalog, err := ParseYAML(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out.Merge(catalog)
	}
	return out, nil
}

// DefaultCatalog returns the built-in English and Spanish messages.
func DefaultCatalog(ctx context.Context) (Catalog, error) {
	return LoadFS(ctx, defaultLocales, "locales")
}

// Merge copies every translation of src into c, overriding existing leaves.
func (c Catalog) Merge(src Catalog) {
	for lang, tree := range src {
		if c[lang] == nil {
			c[lang] = map[string]any{}
		}
		mergeTree(c[lang], tree)
	}
}

func mergeTree(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeTree(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			copied := make(map[string]any, len(srcMap))
			mergeTree(copied, srcMap)
			dst[k] = copied
			continue
		}
		dst[k] = v
	}
}

// lookup walks a nested tree using a dot-separated key.
func lookup(tree map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := tree
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		current, ok = val.(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

func isYAML(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
}
