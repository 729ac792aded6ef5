package db

const createExportsTable = `
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    format TEXT NOT NULL,
    row_count INTEGER NOT NULL,
    query TEXT,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at);
`

const createImportsTable = `
CREATE TABLE IF NOT EXISTS imports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    files TEXT NOT NULL,
    succeeded INTEGER NOT NULL DEFAULT 0,
    message TEXT,
    created_at TEXT NOT NULL
);
`

const insertExport = `
INSERT OR REPLACE INTO exports (id, filename, format, row_count, query, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectExports = `
SELECT id, filename, format, row_count, COALESCE(query, ''), created_at
FROM exports
ORDER BY created_at DESC, id
LIMIT ?
`

const insertImport = `
INSERT INTO imports (files, succeeded, message, created_at)
VALUES (?, ?, ?, ?)
`

const selectImports = `
SELECT id, files, succeeded, COALESCE(message, ''), created_at
FROM imports
ORDER BY id DESC
LIMIT ?
`
