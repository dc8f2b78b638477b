package database

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
    user_id TEXT NOT NULL,
    filename TEXT NOT NULL,
    id TEXT NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    content_type TEXT NOT NULL DEFAULT '',
    format TEXT NOT NULL DEFAULT '',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    uploaded DATETIME NOT NULL,
    PRIMARY KEY (user_id, filename)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_uploads_id ON uploads (id);
CREATE INDEX IF NOT EXISTS idx_uploads_uploaded ON uploads (user_id, uploaded);
`
