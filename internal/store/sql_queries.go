package store

const userColumns = `id, name, email, photo, role, password_hash, active, password_changed_at,
	password_reset_token_hash, password_reset_expires_at, created_at`

const (
	createUser = `INSERT INTO users (name, email, photo, role, password_hash)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + userColumns + `;`

	findUserByEmail = `SELECT ` + userColumns + `
	FROM users
	WHERE email = $1 AND active;`

	findUserByID = `SELECT ` + userColumns + `
	FROM users
	WHERE id = $1 AND active;`

	updateUserPassword = `UPDATE users
	SET password_hash = $2, password_changed_at = $3
	WHERE id = $1 AND active
	RETURNING ` + userColumns + `;`

	deactivateUser = `UPDATE users
	SET active = FALSE
	WHERE id = $1 AND active;`

	setPasswordResetToken = `UPDATE users
	SET password_reset_token_hash = $2, password_reset_expires_at = $3
	WHERE id = $1 AND active;`

	clearPasswordResetToken = `UPDATE users
	SET password_reset_token_hash = NULL, password_reset_expires_at = NULL
	WHERE id = $1;`

	// resetPassword consumes the token in the same statement that checks it.
	resetPassword = `UPDATE users
	SET password_hash = $2,
		password_changed_at = $3,
		password_reset_token_hash = NULL,
		password_reset_expires_at = NULL
	WHERE password_reset_token_hash = $1
		AND password_reset_expires_at > $3
		AND active
	RETURNING ` + userColumns + `;`

	clearExpiredResetTokens = `UPDATE users
	SET password_reset_token_hash = NULL, password_reset_expires_at = NULL
	WHERE password_reset_expires_at <= $1;`
)
