// Package catalog holds the static reference data of the simulation: the
// known users and the per-category pools of plausible transaction
// descriptions. The catalog is read-only for the lifetime of the process.
package catalog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"etp/internal/core"
)

type Catalog struct {
	users  []core.User
	byName map[string]core.User
	pools  map[core.Category][]string
}

// New builds a catalog from explicit users and description pools. Users with
// duplicate names are dropped (first occurrence wins); categories outside
// the enumerated set are ignored. Empty pools fall back to the defaults.
func New(users []core.User, pools map[core.Category][]string) *Catalog {
	c := &Catalog{byName: make(map[string]core.User), pools: make(map[core.Category][]string)}
	for _, u := range users {
		u.Name = strings.TrimSpace(u.Name)
		u.Email = strings.TrimSpace(u.Email)
		if u.Validate() != nil {
			continue
		}
		if _, ok := c.byName[u.Name]; ok {
			continue
		}
		c.byName[u.Name] = u
		c.users = append(c.users, u)
	}
	for cat, descs := range pools {
		if !cat.IsValid() {
			continue
		}
		c.pools[cat] = dedupe(descs)
	}
	// Every category must have a non-empty pool.
	for _, cat := range core.Categories {
		if len(c.pools[cat]) == 0 {
			c.pools[cat] = append([]string(nil), defaultPools[cat]...)
		}
	}
	if len(c.users) == 0 {
		c.users = append([]core.User(nil), defaultUsers...)
		for _, u := range c.users {
			c.byName[u.Name] = u
		}
	}
	return c
}

// NewFromFiles seeds the catalog from optional text files under base
// (seed_users.txt with "Name|email" lines, seed_descriptions.txt with
// "Category|description" lines). Missing or empty files fall back to the
// compiled-in defaults.
func NewFromFiles(base string) *Catalog {
	var users []core.User
	for _, line := range readLines(filepath.Join(base, "seed_users.txt")) {
		name, email, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		users = append(users, core.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)})
	}

	pools := make(map[core.Category][]string)
	for _, line := range readLines(filepath.Join(base, "seed_descriptions.txt")) {
		cat, desc, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		pools[core.Category(strings.TrimSpace(cat))] = append(pools[core.Category(strings.TrimSpace(cat))], strings.TrimSpace(desc))
	}

	return New(users, pools)
}

// Users returns the ordered list of known users.
func (c *Catalog) Users() []core.User {
	out := make([]core.User, len(c.users))
	copy(out, c.users)
	return out
}

// UserCount returns the number of known users.
func (c *Catalog) UserCount() int {
	return len(c.users)
}

// Lookup resolves a user by display name.
func (c *Catalog) Lookup(name string) (core.User, bool) {
	u, ok := c.byName[name]
	return u, ok
}

// Descriptions returns the ordered description pool for a category.
func (c *Catalog) Descriptions(cat core.Category) []string {
	pool := c.pools[cat]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
