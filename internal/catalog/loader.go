// Package catalog reads department catalog documents from disk.
//
// Each directory is scanned (not recursively) for *.json, *.yaml and *.yml
// files. Files are decoded concurrently but always assembled in directory
// order, then name order, so the resulting set does not depend on scheduling.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/prereqs/prereqs-server/internal/domain"
	domainerrors "github.com/prereqs/prereqs-server/internal/errors"
	"github.com/prereqs/prereqs-server/internal/normalize"
	"github.com/prereqs/prereqs-server/internal/validation"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Loader turns catalog directories into a domain.CatalogSet.
type Loader struct {
	logger      *slog.Logger
	validator   *validation.Validator
	concurrency int
}

// NewLoader creates a loader that decodes up to GOMAXPROCS files at once.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:      logger,
		validator:   validation.New(),
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// Load reads every catalog document under dirs.
//
// A missing directory, an unreadable or malformed document, or an empty
// result is an error. When two documents share a slug the later one wins and
// a warning is logged.
func (l *Loader) Load(ctx context.Context, dirs ...string) (*domain.CatalogSet, error) {
	var paths []string
	for _, dir := range dirs {
		found, err := discover(dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, domainerrors.Internal(fmt.Sprintf("no course catalogs found in %s", strings.Join(dirs, ", ")))
	}

	catalogs := make([]*domain.Catalog, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := l.LoadFile(path)
			if err != nil {
				return err
			}
			catalogs[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owners := make(map[string]string, len(catalogs))
	for i, c := range catalogs {
		if prev, dup := owners[c.Slug]; dup {
			l.logger.Warn("duplicate catalog slug, later file wins",
				"slug", c.Slug,
				"previous", prev,
				"file", paths[i],
			)
		}
		owners[c.Slug] = paths[i]
	}

	set := domain.NewCatalogSet(catalogs...)
	l.logger.Info("course catalogs loaded",
		"files", len(paths),
		"catalogs", set.Len(),
		"courses", set.CourseCount(),
	)
	return set, nil
}

// LoadFile decodes and validates a single catalog document. An empty slug is
// replaced by the slug form of the file name without its extension.
func (l *Loader) LoadFile(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- catalog paths come from operator configuration
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "read catalog %s", path)
	}

	c, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeValidation, "malformed catalog %s", path)
	}

	if c.Slug == "" {
		c.Slug = fileStem(path)
	}

	if err := l.validator.Validate(c); err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeValidation, "invalid catalog %s", path)
	}

	return c, nil
}

// Decode parses a catalog document. ext selects the format: ".yaml" and
// ".yml" are YAML, anything else is JSON. Missing course lists and
// prerequisite groups decode as empty slices.
func Decode(data []byte, ext string) (*domain.Catalog, error) {
	var c domain.Catalog

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&c); err != nil {
			return nil, err
		}
	}

	if c.Courses == nil {
		c.Courses = []domain.Course{}
	}
	for i := range c.Courses {
		if c.Courses[i].PrereqGroups == nil {
			c.Courses[i].PrereqGroups = [][]string{}
		}
	}

	return &c, nil
}

// discover lists catalog documents directly under dir, sorted by name.
// Hidden files are skipped.
func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "course directory %s unavailable", dir)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !isCatalogFile(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	slices.Sort(paths)
	return paths, nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return normalize.Slug(strings.TrimSuffix(base, filepath.Ext(base)))
}
