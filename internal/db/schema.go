package db

// SchemaSQL contains the social graph schema initialization SQL.
// The graph is populated out-of-band by the Slack export loader; this
// service only reads it. User and channel names are unique by loader
// invariant, keyword words are stored lowercased.
const SchemaSQL = `
    -- ==========================================================================
    -- VERTEX TABLES
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS user SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON user TYPE string;
    DEFINE FIELD IF NOT EXISTS slack_id ON user TYPE string;
    DEFINE INDEX IF NOT EXISTS user_name ON user FIELDS name UNIQUE;

    DEFINE TABLE IF NOT EXISTS channel SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON channel TYPE string;
    DEFINE FIELD IF NOT EXISTS slack_id ON channel TYPE string;
    DEFINE INDEX IF NOT EXISTS channel_name ON channel FIELDS name UNIQUE;

    DEFINE TABLE IF NOT EXISTS keyword SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS word ON keyword TYPE string;
    DEFINE INDEX IF NOT EXISTS keyword_word ON keyword FIELDS word;

    -- ==========================================================================
    -- RELATION TABLES
    -- ==========================================================================
    -- Channel membership; message_count is the per-membership activity metric.
    DEFINE TABLE IF NOT EXISTS member_of TYPE RELATION IN user OUT channel SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS message_count ON member_of TYPE int DEFAULT 0;

    -- Channel-to-channel mentions; IN mentions OUT. Several edges may exist
    -- per pair (one per export batch), statistics sum mention_count per name.
    DEFINE TABLE IF NOT EXISTS mentions TYPE RELATION IN channel OUT channel SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS mention_count ON mentions TYPE int DEFAULT 1;

    -- Keyword references: the user that mentioned a keyword, and the channel
    -- a keyword appeared in.
    DEFINE TABLE IF NOT EXISTS mentions_keyword TYPE RELATION IN user OUT keyword SCHEMAFULL;
    DEFINE TABLE IF NOT EXISTS used_in TYPE RELATION IN keyword OUT channel SCHEMAFULL;
`
