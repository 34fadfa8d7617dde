package workspace

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/zerr"
)

// DecodeManifest parses frontmatter as a TOML document and builds the script's manifest.
// Empty frontmatter yields a manifest with only the fixed package fields.
func DecodeManifest(frontmatter string) (*domain.Manifest, error) {
	var config map[string]any
	if strings.TrimSpace(frontmatter) != "" {
		if err := toml.Unmarshal([]byte(frontmatter), &config); err != nil {
			return nil, zerr.Wrap(err, domain.ErrManifestInvalid.Error())
		}
	}
	return domain.NewManifest(config)
}

// EncodeManifest renders m as a TOML document. Keys are emitted in sorted order.
func EncodeManifest(m *domain.Manifest) ([]byte, error) {
	data, err := toml.Marshal(m.Table())
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestRenderFailed.Error())
	}
	return data, nil
}
