package repositories

import (
	"database/sql"
	"time"

	"codedrill/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)

	// token lookups: digest match AND expiry strictly in the future
	FindByVerificationToken(tokenHash string, now time.Time) (*models.User, error)
	FindByResetToken(tokenHash string, now time.Time) (*models.User, error)

	// a token digest and its expiry are always written together
	SetVerificationToken(userID int, tokenHash string, expiresAt time.Time) error
	SetResetToken(userID int, tokenHash string, expiresAt time.Time) error

	MarkEmailVerified(userID int) error
	UpdatePassword(userID int, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, name, password_hash, role, is_email_verified,
	verification_token_hash, verification_token_expires_at,
	reset_token_hash, reset_token_expires_at,
	created_at
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			email, name, password_hash, role, is_email_verified,
			verification_token_hash, verification_token_expires_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.IsEmailVerified,
		user.VerificationTokenHash,
		user.VerificationTokenExpires,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.queryOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.queryOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) FindByVerificationToken(tokenHash string, now time.Time) (*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE verification_token_hash = $1 AND verification_token_expires_at > $2
	`
	return r.queryOne(q, tokenHash, now)
}

func (r *userRepository) FindByResetToken(tokenHash string, now time.Time) (*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1 AND reset_token_expires_at > $2
	`
	return r.queryOne(q, tokenHash, now)
}

func (r *userRepository) SetVerificationToken(userID int, tokenHash string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET verification_token_hash=$1, verification_token_expires_at=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, tokenHash, expiresAt, userID)
	return err
}

func (r *userRepository) SetResetToken(userID int, tokenHash string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET reset_token_hash=$1, reset_token_expires_at=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, tokenHash, expiresAt, userID)
	return err
}

func (r *userRepository) MarkEmailVerified(userID int) error {
	const q = `
		UPDATE users
		SET is_email_verified=TRUE,
		    verification_token_hash=NULL, verification_token_expires_at=NULL
		WHERE id=$1
	`
	_, err := r.DB.Exec(q, userID)
	return err
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	const q = `
		UPDATE users
		SET password_hash=$1,
		    reset_token_hash=NULL, reset_token_expires_at=NULL
		WHERE id=$2
	`
	_, err := r.DB.Exec(q, passwordHash, userID)
	return err
}

// queryOne scans a single user row; a missing row is (nil, nil) so callers can
// treat absence as a business condition, not a storage failure.
func (r *userRepository) queryOne(q string, args ...interface{}) (*models.User, error) {
	u := &models.User{}
	var (
		vtHash sql.NullString
		vtExp  sql.NullTime
		rtHash sql.NullString
		rtExp  sql.NullTime
	)
	err := r.DB.QueryRow(q, args...).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsEmailVerified,
		&vtHash, &vtExp,
		&rtHash, &rtExp,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if vtHash.Valid {
		s := vtHash.String
		u.VerificationTokenHash = &s
	}
	if vtExp.Valid {
		t := vtExp.Time
		u.VerificationTokenExpires = &t
	}
	if rtHash.Valid {
		s := rtHash.String
		u.ResetTokenHash = &s
	}
	if rtExp.Valid {
		t := rtExp.Time
		u.ResetTokenExpires = &t
	}
	return u, nil
}
