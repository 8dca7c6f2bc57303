package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

// ValidateDir validates migration filenames and goose headers on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateEmbedded validates the migrations compiled into the binary and checks
// that every dialect ships the same set of versions.
func ValidateEmbedded() error {
	var reference map[string]string
	var referenceDriver string
	for _, driver := range Dialects {
		dir, err := embeddedDir(driver)
		if err != nil {
			return err
		}
		if err := ValidateFS(embedded, dir); err != nil {
			return fmt.Errorf("%s: %w", driver, err)
		}
		versions, err := versionsIn(embedded, dir)
		if err != nil {
			return err
		}
		if reference == nil {
			reference, referenceDriver = versions, driver
			continue
		}
		for version, name := range reference {
			if _, ok := versions[version]; !ok {
				return fmt.Errorf("migration %s present for %s but missing for %s", name, referenceDriver, driver)
			}
		}
		for version, name := range versions {
			if _, ok := reference[version]; !ok {
				return fmt.Errorf("migration %s present for %s but missing for %s", name, driver, referenceDriver)
			}
		}
	}
	return nil
}

// ValidateFS validates migration filenames + basic SQL headers inside fsys.
func ValidateFS(fsys fs.FS, dir string) error {
	versions, err := versionsIn(fsys, dir)
	if err != nil {
		return err
	}

	for _, name := range versions {
		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}
	return nil
}

func versionsIn(fsys fs.FS, dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name
	}
	return seen, nil
}
