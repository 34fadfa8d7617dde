package domain

import (
	"maps"

	"go.trai.ch/zerr"
)

const (
	// ManifestPackageName is the package name every script is built under.
	ManifestPackageName = "bin"

	// ManifestPackageVersion is the package version every script is built under.
	ManifestPackageVersion = "0.0.1"

	// ManifestEdition is the language edition every script is built under.
	ManifestEdition = "2021"

	manifestPackageKey = "package"
	manifestNameKey    = "name"
	manifestVersionKey = "version"
	manifestEditionKey = "edition"
)

// Manifest is the build manifest generated for a script.
//
// Name, Version and Edition are fixed. Keys the script author sets for them are dropped.
type Manifest struct {
	Name    string
	Version string
	Edition string

	// Package holds the remaining keys of the package table.
	Package map[string]any
	// Extra holds every other top-level key (dependencies, profiles, ...).
	Extra map[string]any
}

// NewManifest builds a manifest from the decoded frontmatter mapping.
func NewManifest(config map[string]any) (*Manifest, error) {
	m := &Manifest{
		Name:    ManifestPackageName,
		Version: ManifestPackageVersion,
		Edition: ManifestEdition,
		Package: make(map[string]any),
		Extra:   make(map[string]any, len(config)),
	}

	for key, value := range config {
		if key != manifestPackageKey {
			m.Extra[key] = value
			continue
		}
		pkg, ok := value.(map[string]any)
		if !ok {
			return nil, zerr.With(zerr.Wrap(ErrManifestInvalid, "package must be a table"), "type", typeName(value))
		}
		for k, v := range pkg {
			switch k {
			case manifestNameKey, manifestVersionKey, manifestEditionKey:
			default:
				m.Package[k] = v
			}
		}
	}

	return m, nil
}

// Table returns the manifest as a nested mapping with the fixed fields applied.
func (m *Manifest) Table() map[string]any {
	out := make(map[string]any, len(m.Extra)+1)
	maps.Copy(out, m.Extra)

	pkg := make(map[string]any, len(m.Package)+3)
	maps.Copy(pkg, m.Package)
	pkg[manifestNameKey] = m.Name
	pkg[manifestVersionKey] = m.Version
	pkg[manifestEditionKey] = m.Edition
	out[manifestPackageKey] = pkg

	return out
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int64, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	default:
		return "value"
	}
}
