package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"labscore/internal/config"
)

// LabMarker is the file that identifies a directory as a Kathara lab.
const LabMarker = "lab.conf"

// LabRef names a lab and its directory.
type LabRef struct {
	// Name is the lab directory base name, also used as the results file prefix.
	Name string
	Dir  string
}

// ResolveLabs returns the labs selected by --lab or --labs.
func ResolveLabs(cfg *config.Config) ([]LabRef, error) {
	if cfg.Input.Lab != "" {
		ref, err := singleLab(cfg.Input.Lab)
		if err != nil {
			return nil, err
		}
		return []LabRef{ref}, nil
	}
	return DiscoverLabs(cfg.Input.Labs)
}

func singleLab(dir string) (LabRef, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return LabRef{}, fmt.Errorf("lab directory %q: %w", dir, err)
	}
	if !fi.IsDir() {
		return LabRef{}, fmt.Errorf("lab path %q is not a directory", dir)
	}
	return LabRef{Name: filepath.Base(filepath.Clean(dir)), Dir: dir}, nil
}

// DiscoverLabs lists the immediate sub-directories of root that contain a
// lab.conf, sorted by name.
func DiscoverLabs(root string) ([]LabRef, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read labs directory %q: %w", root, err)
	}

	var refs []LabRef
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		_, err := os.Stat(filepath.Join(dir, LabMarker))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("inspect %q: %w", dir, err)
		}
		refs = append(refs, LabRef{Name: e.Name(), Dir: dir})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func labNames(refs []LabRef) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}
