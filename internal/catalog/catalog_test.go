package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"etp/internal/core"
)

func TestDefaultsWhenEmpty(t *testing.T) {
	c := New(nil, nil)
	if c.UserCount() != 3 {
		t.Fatalf("expected 3 default users, got %d", c.UserCount())
	}
	for _, cat := range core.Categories {
		if len(c.Descriptions(cat)) == 0 {
			t.Fatalf("expected non-empty pool for %s", cat)
		}
	}
	u, ok := c.Lookup("John Smith")
	if !ok || u.Email != "john.smith@company.com" {
		t.Fatalf("unexpected lookup result: %+v ok=%v", u, ok)
	}
	if _, ok := c.Lookup("Nobody"); ok {
		t.Fatalf("expected miss for unknown user")
	}
}

func TestNewDedupesAndPreservesOrder(t *testing.T) {
	users := []core.User{
		{Name: "A", Email: "a@x"},
		{Name: "B", Email: "b@x"},
		{Name: "A", Email: "dup@x"},
		{Name: "", Email: "blank@x"},
	}
	pools := map[core.Category][]string{
		core.Food:              {"one", "two", "one", ""},
		core.Category("Bogus"): {"ignored"},
		core.Transportation:    nil, // falls back to defaults
	}
	c := New(users, pools)

	got := c.Users()
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("unexpected users: %+v", got)
	}
	if got[0].Email != "a@x" {
		t.Fatalf("first occurrence should win, got %q", got[0].Email)
	}

	food := c.Descriptions(core.Food)
	if len(food) != 2 || food[0] != "one" || food[1] != "two" {
		t.Fatalf("unexpected food pool: %v", food)
	}
	if len(c.Descriptions(core.Transportation)) == 0 {
		t.Fatalf("expected default pool for Transportation")
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_users.txt", "# people\nAda Lovelace|ada@company.com\nbad line without separator\n")
	mustWrite("seed_descriptions.txt", "Food|Canteen\nFood|Canteen\nUtilities|Heating Bill\n")

	c := NewFromFiles(dir)
	if c.UserCount() != 1 {
		t.Fatalf("expected 1 user, got %d", c.UserCount())
	}
	food := c.Descriptions(core.Food)
	if len(food) != 1 || food[0] != "Canteen" {
		t.Fatalf("unexpected food pool: %v", food)
	}
	// Categories with no seeded lines keep defaults.
	if len(c.Descriptions(core.Shopping)) != 5 {
		t.Fatalf("expected default shopping pool")
	}

	// Missing directory -> all defaults.
	c = NewFromFiles(filepath.Join(dir, "missing"))
	if c.UserCount() != 3 {
		t.Fatalf("expected defaults when files missing")
	}
}
