// internal/storage/catalog_store.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/solidwrite/pseo/internal/models"
	_ "modernc.org/sqlite"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS catalog_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pages (
	slug            TEXT PRIMARY KEY,
	playbook        TEXT NOT NULL,
	url             TEXT NOT NULL,
	title           TEXT NOT NULL DEFAULT '',
	primary_keyword TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	reason          TEXT NOT NULL DEFAULT '',
	document        TEXT,
	generated_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS page_keywords (
	keyword TEXT NOT NULL,
	slug    TEXT NOT NULL REFERENCES pages(slug) ON DELETE CASCADE,
	primary_kw INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (keyword, slug)
);

CREATE INDEX IF NOT EXISTS idx_page_keywords_keyword ON page_keywords(keyword);
`

// Page statuses stored in the catalog.
const (
	PageStatusPublished = "PUBLISHED"
	PageStatusSkipped   = models.StatusSkipped
)

// ErrPageNotFound is returned when a slug has no catalog row.
var ErrPageNotFound = errors.New("page not found in catalog")

// CatalogStore persists exported pages and their keywords in SQLite so the
// catalog can be queried after a static export.
type CatalogStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenCatalog opens or creates the catalog database at path. ":memory:"
// gives a private in-memory catalog.
func OpenCatalog(path string) (*CatalogStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// one connection: keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}

	return &CatalogStore{db: db, path: path, now: time.Now}, nil
}

// Path returns the database location.
func (c *CatalogStore) Path() string {
	return c.path
}

// Close closes the database.
func (c *CatalogStore) Close() error {
	return c.db.Close()
}

// Reset clears all pages and records the fingerprint of the dimension
// config the following writes belong to.
func (c *CatalogStore) Reset(ctx context.Context, fingerprint string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM page_keywords", "DELETE FROM pages"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset catalog: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_meta (key, value) VALUES ('fingerprint', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, fingerprint); err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}

	return tx.Commit()
}

// Fingerprint returns the fingerprint recorded by the last Reset, or "".
func (c *CatalogStore) Fingerprint(ctx context.Context) (string, error) {
	var fp string
	err := c.db.QueryRowContext(ctx, "SELECT value FROM catalog_meta WHERE key = 'fingerprint'").Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read fingerprint: %w", err)
	}
	return fp, nil
}

// SavePage stores a published page and indexes its primary and secondary keywords.
func (c *CatalogStore) SavePage(ctx context.Context, route models.Route, page *models.Page) error {
	doc, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode page %s: %w", route.Slug, err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", route.Slug, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := c.upsertPage(ctx, tx, route, PageStatusPublished, "", page.SEO.PrimaryKeyword, string(doc)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM page_keywords WHERE slug = ?", route.Slug); err != nil {
		return fmt.Errorf("clear keywords %s: %w", route.Slug, err)
	}
	if err := insertKeyword(ctx, tx, page.SEO.PrimaryKeyword, route.Slug, true); err != nil {
		return err
	}
	for _, kw := range page.SEO.SecondaryKeywords {
		if kw == page.SEO.PrimaryKeyword {
			continue
		}
		if err := insertKeyword(ctx, tx, kw, route.Slug, false); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveSkipped records a route refused by the content-depth gate.
func (c *CatalogStore) SaveSkipped(ctx context.Context, route models.Route, reason string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin skip %s: %w", route.Slug, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := c.upsertPage(ctx, tx, route, PageStatusSkipped, reason, "", ""); err != nil {
		return err
	}
	return tx.Commit()
}

func (c *CatalogStore) upsertPage(ctx context.Context, tx *sql.Tx, route models.Route, status, reason, keyword, doc string) error {
	var document interface{}
	if doc != "" {
		document = doc
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO pages (slug, playbook, url, title, primary_keyword, status, reason, document, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			playbook = excluded.playbook,
			url = excluded.url,
			title = excluded.title,
			primary_keyword = excluded.primary_keyword,
			status = excluded.status,
			reason = excluded.reason,
			document = excluded.document,
			generated_at = excluded.generated_at
	`, route.Slug, string(route.Playbook), route.URL(), route.Title, keyword, status, reason, document, c.now().UTC())
	if err != nil {
		return fmt.Errorf("upsert page %s: %w", route.Slug, err)
	}
	return nil
}

func insertKeyword(ctx context.Context, tx *sql.Tx, keyword, slug string, primary bool) error {
	if keyword == "" {
		return nil
	}
	flag := 0
	if primary {
		flag = 1
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO page_keywords (keyword, slug, primary_kw) VALUES (?, ?, ?)
		ON CONFLICT(keyword, slug) DO UPDATE SET primary_kw = MAX(primary_kw, excluded.primary_kw)
	`, keyword, slug, flag)
	if err != nil {
		return fmt.Errorf("index keyword %q for %s: %w", keyword, slug, err)
	}
	return nil
}

// LoadPage returns the stored document for a published slug.
func (c *CatalogStore) LoadPage(ctx context.Context, slug string) (*models.Page, error) {
	var status string
	var doc sql.NullString
	err := c.db.QueryRowContext(ctx, "SELECT status, document FROM pages WHERE slug = ?", slug).Scan(&status, &doc)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && status != PageStatusPublished) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", slug, err)
	}

	var page models.Page
	if err := json.Unmarshal([]byte(doc.String), &page); err != nil {
		return nil, fmt.Errorf("decode page %s: %w", slug, err)
	}
	return &page, nil
}

// CountByStatus returns the number of rows per page status.
func (c *CatalogStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM pages GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// PrimaryKeywordCollisions returns every primary keyword claimed by more
// than one published page, with the slugs in slug order.
func (c *CatalogStore) PrimaryKeywordCollisions(ctx context.Context) (map[string][]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT keyword, slug FROM page_keywords
		WHERE primary_kw = 1 AND keyword IN (
			SELECT keyword FROM page_keywords WHERE primary_kw = 1
			GROUP BY keyword HAVING COUNT(*) > 1
		)
		ORDER BY keyword, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("query collisions: %w", err)
	}
	defer rows.Close()

	collisions := make(map[string][]string)
	for rows.Next() {
		var keyword, slug string
		if err := rows.Scan(&keyword, &slug); err != nil {
			return nil, fmt.Errorf("scan collision: %w", err)
		}
		collisions[keyword] = append(collisions[keyword], slug)
	}
	return collisions, rows.Err()
}
