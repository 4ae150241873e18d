// ABOUTME: SQLite database schema for the study record store
// ABOUTME: One table per entity kind plus a secondary index per parent relationship
package sqlite

// Schema contains all SQL statements for database initialization.
// Parent id columns carry no FOREIGN KEY enforcement: referential integrity
// is checked at write time above the store, never by the engine.
const Schema = `
CREATE TABLE IF NOT EXISTS subjects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    icon TEXT,
    color TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS chapters (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    chapter_id TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    type TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

-- Questions ride inside the quiz record as an ordered JSON sequence so a
-- single save replaces the whole quiz atomically.
CREATE TABLE IF NOT EXISTS quizzes (
    id TEXT PRIMARY KEY,
    chapter_id TEXT,
    title TEXT NOT NULL,
    questions_json TEXT NOT NULL,
    source TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    quiz_id TEXT NOT NULL,
    score INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    answers_json TEXT NOT NULL,
    completed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS chats (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    role TEXT NOT NULL,
    text TEXT NOT NULL,
    timestamp INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Indexes for parent-lookup queries
CREATE INDEX IF NOT EXISTS idx_chapters_subject ON chapters(subject_id);
CREATE INDEX IF NOT EXISTS idx_notes_chapter ON notes(chapter_id);
CREATE INDEX IF NOT EXISTS idx_quizzes_chapter ON quizzes(chapter_id);
CREATE INDEX IF NOT EXISTS idx_results_quiz ON results(quiz_id);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
