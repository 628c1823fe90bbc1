package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Company is one immutable record from the startup catalog. The name
// doubles as the foreign key every other part of the workspace uses
// (lists, notes, saved markers), so it must be unique.
type Company struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Stage    string `json:"stage"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// Catalog is the fixed, read-only company directory loaded once at
// startup. It is never mutated after New returns.
type Catalog struct {
	companies []Company
	byName    map[string]Company
}

func New(companies []Company) (*Catalog, error) {
	byName := make(map[string]Company, len(companies))
	for i, c := range companies {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d has an empty name", i)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("catalog has duplicate company name %q", name)
		}
		byName[name] = c
	}
	return &Catalog{companies: companies, byName: byName}, nil
}

func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var companies []Company
	if err := json.Unmarshal(b, &companies); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return New(companies)
}

// EnsureUserCatalog copies the default catalog into the data dir on
// first run, same as the config bootstrap. The user copy wins once it
// exists.
func EnsureUserCatalog(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "catalog.json")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// Companies returns the records in catalog order. Callers get a copy;
// the catalog itself stays immutable.
func (c *Catalog) Companies() []Company {
	out := make([]Company, len(c.companies))
	copy(out, c.companies)
	return out
}

func (c *Catalog) Len() int { return len(c.companies) }

// FindByName resolves a company-name reference. List entries can
// legitimately point at names the catalog no longer carries; callers
// decide what a miss means (blank export row, null JSON entry, ...).
func (c *Catalog) FindByName(name string) (Company, bool) {
	co, ok := c.byName[name]
	return co, ok
}

// Industries returns the distinct industry values, sorted. Used to
// populate the filter dropdowns.
func (c *Catalog) Industries() []string {
	return c.distinct(func(co Company) string { return co.Industry })
}

// Stages returns the distinct stage values, sorted.
func (c *Catalog) Stages() []string {
	return c.distinct(func(co Company) string { return co.Stage })
}

func (c *Catalog) distinct(field func(Company) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, co := range c.companies {
		v := field(co)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
