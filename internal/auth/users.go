package auth

import (
	"context"
	"time"

	"farmbasket_back_end/internal/database"
	"farmbasket_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// UpsertUserByPhone returns the user for a verified phone number, creating
// the account on first sign-in. Runs on the prepared-statement hot path.
func UpsertUserByPhone(ctx context.Context, phone string) (models.User, error) {
	var userUUID gocql.UUID
	err := database.GetPreparedGetUserByPhone().Bind(phone).WithContext(ctx).Scan(&userUUID)
	if err == nil {
		return getUserByID(ctx, userUUID)
	}
	if err != gocql.ErrNotFound {
		return models.User{}, err
	}

	// First sign-in: create the account.
	now := time.Now().UTC()
	newID := gocql.UUID(uuid.New())

	if err := database.GetPreparedInsertUser().
		Bind(newID, phone, "", "", "phone", now, now).
		WithContext(ctx).Exec(); err != nil {
		return models.User{}, err
	}
	if err := database.GetPreparedInsertUserByPhone().
		Bind(phone, newID).
		WithContext(ctx).Exec(); err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:        newID.String(),
		Phone:     phone,
		Provider:  "phone",
		CreatedAt: now,
	}, nil
}

// UpsertUserByEmail backs the social sign-in path. Accounts created here
// have no phone until the user adds one from their profile.
func UpsertUserByEmail(ctx context.Context, email, name, provider string) (models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	var userUUID gocql.UUID
	err = session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&userUUID)
	if err == nil {
		return getUserByID(ctx, userUUID)
	}
	if err != gocql.ErrNotFound {
		return models.User{}, err
	}

	now := time.Now().UTC()
	newID := gocql.UUID(uuid.New())

	if err := database.GetPreparedInsertUser().
		Bind(newID, "", name, email, provider, now, now).
		WithContext(ctx).Exec(); err != nil {
		return models.User{}, err
	}
	if err := session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, email, newID).
		WithContext(ctx).Exec(); err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:        newID.String(),
		Name:      name,
		Email:     email,
		Provider:  provider,
		CreatedAt: now,
	}, nil
}

func getUserByID(ctx context.Context, id gocql.UUID) (models.User, error) {
	var user models.User
	var createdAt time.Time
	err := database.GetPreparedGetUserByID().Bind(id).WithContext(ctx).
		Scan(&user.Phone, &user.Name, &user.Email, &user.Provider, &createdAt)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id.String()
	user.CreatedAt = createdAt
	return user, nil
}

// GetUser loads a user by their string id.
func GetUser(ctx context.Context, userID string) (models.User, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return models.User{}, err
	}
	return getUserByID(ctx, gocql.UUID(uid))
}

// UpdateProfile sets the mutable profile fields.
func UpdateProfile(ctx context.Context, userID, name, email string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	return database.GetPreparedUpdateUser().
		Bind(name, email, time.Now().UTC(), gocql.UUID(uid)).
		WithContext(ctx).Exec()
}
