package db

const userCountQ = `
SELECT COUNT(u.id)
FROM users u
`

const userListQ = `
SELECT
	u.id,
	u.username,
	u.role,
	u.failed_login_attempts,
	u.is_disabled,
	u.force_password_change,
	u.last_login_at,
	u.created_at,
	u.updated_at
FROM users u
ORDER BY u.username ASC
LIMIT $1 OFFSET $2
`

const userGetByIDQ = `
SELECT
	u.id,
	u.username,
	u.password,
	u.role,
	u.failed_login_attempts,
	u.is_disabled,
	u.force_password_change,
	u.last_login_at,
	u.created_at,
	u.updated_at
FROM users u
WHERE u.id = $1
`

const userGetByUsernameQ = `
SELECT
	u.id,
	u.username,
	u.password,
	u.role,
	u.failed_login_attempts,
	u.is_disabled,
	u.force_password_change,
	u.last_login_at,
	u.created_at,
	u.updated_at
FROM users u
WHERE u.username = $1
`

const userCreateQ = `
INSERT INTO users (username, password, role, force_password_change)
VALUES ($1, $2, $3, TRUE)
RETURNING id
`

const userUpdateRoleQ = `
UPDATE users
SET role = $1,
	updated_at = NOW()
WHERE id = $2
`

const userUpdatePasswordQ = `
UPDATE users
SET password = $1,
    failed_login_attempts = 0,
	force_password_change = FALSE,
	updated_at = NOW()
WHERE id = $2
`

const userDeleteQ = `
DELETE FROM users
WHERE id = $1
`

const userFailedLoginQ = `
UPDATE users
SET failed_login_attempts = failed_login_attempts + 1,
	updated_at = NOW()
WHERE id = $1
`

const userLoginSuccessQ = `
UPDATE users
SET failed_login_attempts = 0,
    last_login_at = NOW(),
	updated_at = NOW()
WHERE id = $1
`
