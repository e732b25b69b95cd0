package sqlite

// Schema DDL. SQLite is rebuilt from links.jsonl on every Attach, so the
// schema carries no migrations.
const (
	createLinks = `CREATE TABLE links (
    link_id TEXT PRIMARY KEY,
    from_dataset TEXT NOT NULL,
    to_dataset TEXT NOT NULL,
    link_type TEXT NOT NULL,
    link_columns TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxLinksFrom = `CREATE INDEX idx_links_from ON links(from_dataset);`
	idxLinksTo   = `CREATE INDEX idx_links_to ON links(to_dataset);`
	idxLinksType = `CREATE INDEX idx_links_type ON links(link_type);`
)

// schemaDDL lists all statements executed on a fresh database, tables first.
var schemaDDL = []string{
	createLinks,
	idxLinksFrom,
	idxLinksTo,
	idxLinksType,
}

// linkColumnsSQL is the column list shared by every links query.
const linkColumnsSQL = "link_id, from_dataset, to_dataset, link_type, link_columns, created_at, updated_at"
