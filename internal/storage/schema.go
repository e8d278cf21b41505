package storage

const schema = `
-- Root entity; one row per fetched problem, never updated.
CREATE TABLE IF NOT EXISTS questions (
    id              INTEGER PRIMARY KEY,
    titleSlug       TEXT UNIQUE,
    title           TEXT,
    content         TEXT,
    difficulty      TEXT CHECK (difficulty IN ('Easy', 'Medium', 'Hard')),
    likes           INTEGER,
    dislikes        INTEGER,
    totalAccepted   INTEGER,
    totalSubmission INTEGER
);

CREATE TABLE IF NOT EXISTS topicTags (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    questionId INTEGER NOT NULL,
    tag        TEXT
);

CREATE TABLE IF NOT EXISTS codeSnippets (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    questionId INTEGER NOT NULL,
    lang       TEXT,
    code       TEXT
);

-- questionId is UNIQUE: a question has at most one solution article.
CREATE TABLE IF NOT EXISTS solutions (
    id            INTEGER PRIMARY KEY,
    questionId    INTEGER NOT NULL UNIQUE,
    content       TEXT,
    averageRating REAL,
    votes         INTEGER
);
`
