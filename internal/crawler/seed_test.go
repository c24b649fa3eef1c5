package crawler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/woodspider/internal/model"
)

func TestSeederSeed(t *testing.T) {
	t.Parallel()

	t.Run("stores external links and rejects mail links", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openTestStore(t, t.TempDir())
		file := filepath.Join(t.TempDir(), "seed.html")
		content := `<html><body>
			<a href="http://www.lumberyard.com/glulam">Glulam</a>
			<a href="http://www.lumberyard.com/clt/">CLT</a>
			<a href="mailto:info@lumberyard.com">Contact</a>
		</body></html>`
		if err := os.WriteFile(file, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write seed file: %v", err)
		}

		seeder := NewSeeder(testCatalogs(), discardLogger)
		n, err := seeder.SeedFile(ctx, db, file)
		if err != nil {
			t.Fatalf("SeedFile() error = %v", err)
		}
		if n != 2 {
			t.Errorf("seeded = %d, want 2", n)
		}
		if total, _ := db.CountLinks(ctx); total != 2 {
			t.Errorf("CountLinks() = %d, want 2", total)
		}
		for _, u := range []string{"http://www.lumberyard.com/glulam", "http://www.lumberyard.com/clt"} {
			rec := mustGetLink(t, db, u)
			if rec.Status != model.StatusUnexplored || rec.Level != 1 || rec.ReferrerID != model.NoLinkID {
				t.Errorf("record = %+v, want unexplored seed at level 1", rec)
			}
		}
	})

	t.Run("skips excluded sites and duplicates", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openTestStore(t, t.TempDir())
		content := `<a href="http://www.spam.com/x">spam</a>
			<a href="http://www.timber.com/a">a</a>
			<a href="http://www.timber.com/a/">a again</a>`

		seeder := NewSeeder(testCatalogs(), discardLogger)
		n, err := seeder.Seed(ctx, db, strings.NewReader(content))
		if err != nil {
			t.Fatalf("Seed() error = %v", err)
		}
		if n != 1 {
			t.Errorf("seeded = %d, want 1", n)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		seeder := NewSeeder(testCatalogs(), discardLogger)
		db := openTestStore(t, t.TempDir())
		if _, err := seeder.SeedFile(context.Background(), db, filepath.Join(t.TempDir(), "none.html")); err == nil {
			t.Error("SeedFile() error = nil, want error")
		}
	})
}
