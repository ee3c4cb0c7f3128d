package booster

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetadataFile is the name of a booster's descriptor in a catalog.
const MetadataFile = "booster.yaml"

// descriptor is the booster.yaml document.
type descriptor struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Mission     string `yaml:"mission"`
	Runtime     struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"runtime"`
	Source struct {
		Git struct {
			URL string `yaml:"url"`
			Ref string `yaml:"ref"`
		} `yaml:"git"`
		Archive string `yaml:"archive"`
	} `yaml:"source"`
	Metadata map[string]string `yaml:"metadata"`
}

// location describes where a descriptor was found, for defaults that come
// from the catalog layout <mission>/<runtime>/booster.yaml.
type location struct {
	mission string
	runtime string

	// resolveArchive turns a relative archive reference into an absolute one.
	resolveArchive func(ref string) string
}

// locationFromPath derives mission and runtime from the two directories
// above a descriptor, using sep-separated components.
func locationFromPath(p string, slash bool) location {
	dir, base := filepath.Dir, filepath.Base
	if slash {
		dir, base = path.Dir, path.Base
	}
	runtimeDir := dir(p)
	missionDir := dir(runtimeDir)

	loc := location{}
	if b := base(runtimeDir); b != "." && b != "/" {
		loc.runtime = b
	}
	if b := base(missionDir); b != "." && b != "/" {
		loc.mission = b
	}
	return loc
}

func parseDescriptor(data []byte, loc location) (Booster, error) {
	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Booster{}, fmt.Errorf("failed to parse %s: %w", MetadataFile, err)
	}

	b := Booster{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Mission:     firstNonEmpty(d.Mission, loc.mission),
		Runtime: Runtime{
			ID:      firstNonEmpty(d.Runtime.ID, loc.runtime),
			Name:    d.Runtime.Name,
			Version: d.Runtime.Version,
		},
		Source: Source{
			GitURL:  d.Source.Git.URL,
			GitRef:  d.Source.Git.Ref,
			Archive: d.Source.Archive,
		},
		Metadata: d.Metadata,
	}
	if b.ID == "" {
		b.ID = DefaultID(b.Runtime.ID, b.Mission)
	}
	if b.Source.Archive != "" && !isAbsoluteArchive(b.Source.Archive) && loc.resolveArchive != nil {
		b.Source.Archive = loc.resolveArchive(b.Source.Archive)
	}

	if err := b.Validate(); err != nil {
		return Booster{}, err
	}
	return b, nil
}

func isAbsoluteArchive(ref string) bool {
	return strings.HasPrefix(ref, "s3://") || filepath.IsAbs(ref)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
