package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/storyreel/storyreel/pkg/models"
)

// CatalogEntry is a scene as described in a catalog file. A zero duration
// means the duration should be probed from the source.
type CatalogEntry struct {
	Name     string  `yaml:"name"`
	URL      string  `yaml:"url"`
	Duration float64 `yaml:"duration,omitempty"`
	Color    string  `yaml:"color,omitempty"`
}

type Catalog struct {
	Scenes []CatalogEntry `yaml:"scenes"`
}

var ErrInvalidEntry = errors.New("invalid catalog entry")

// DefaultCatalog is used when no catalog file is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		Scenes: []CatalogEntry{
			{Name: "Scene 1", URL: "https://content.shuffll.com/files/background-music/1.mp4", Duration: 5},
			{Name: "Scene 2", URL: "https://content.shuffll.com/files/background-music/2.mp4", Duration: 5},
			{Name: "Scene 3", URL: "https://content.shuffll.com/files/background-music/3.mp4", Duration: 5},
		},
	}
}

// LoadCatalog reads a catalog file. If path is empty the default catalog is
// returned.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	return ReadCatalog(f)
}

func ReadCatalog(r io.Reader) (Catalog, error) {
	var ret Catalog
	if err := yaml.NewDecoder(r).Decode(&ret); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("decoding catalog: %w", err)
	}

	for i, e := range ret.Scenes {
		if err := e.validate(); err != nil {
			return Catalog{}, fmt.Errorf("scene %d: %w", i, err)
		}
	}

	return ret, nil
}

func (e CatalogEntry) validate() error {
	if e.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidEntry)
	}
	if e.Duration < 0 {
		return fmt.Errorf("%w: %s: negative duration", ErrInvalidEntry, e.URL)
	}
	if e.Color != "" {
		if _, err := NormalizeColor(e.Color); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidEntry, e.URL, err)
		}
	}
	return nil
}

func (e CatalogEntry) toScene() models.Scene {
	ret := models.NewScene()
	ret.SourceURL = e.URL
	ret.DisplayName = e.Name
	if ret.DisplayName == "" {
		ret.DisplayName = e.URL
	}
	ret.DurationSeconds = e.Duration
	ret.Color, _ = NormalizeColor(e.Color)
	return ret
}

// WriteCatalog writes scenes in catalog form.
func WriteCatalog(w io.Writer, scenes []*models.Scene) error {
	c := Catalog{}
	for _, s := range scenes {
		c.Scenes = append(c.Scenes, CatalogEntry{
			Name:     s.DisplayName,
			URL:      s.SourceURL,
			Duration: s.DurationSeconds,
			Color:    s.Color,
		})
	}

	out, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return err
}
