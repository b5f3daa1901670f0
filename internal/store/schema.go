package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS quotes (
    pair        TEXT PRIMARY KEY,
    bid         REAL,
    ask         REAL NOT NULL,
    rate        REAL NOT NULL,
    quoted_at   TEXT,
    fetched_at  TEXT NOT NULL
);
`
