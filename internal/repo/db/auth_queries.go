package db

const tokenCreateQ = `
INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
VALUES ($1, $2, $3)
`

const tokenDeleteReturningQ = `
DELETE FROM refresh_tokens
WHERE token_hash = $1
RETURNING user_id, expires_at
`

const tokenDeleteQ = `
DELETE FROM refresh_tokens
WHERE token_hash = $1
`

const tokenDeleteExpiredQ = `
DELETE FROM refresh_tokens
WHERE expires_at < NOW()
`
