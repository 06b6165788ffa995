package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements for the auth hot path (every OTP verify hits these)
	stmtGetUserByPhone    *gocql.Query
	stmtGetUserByID       *gocql.Query
	stmtInsertUser        *gocql.Query
	stmtInsertUserByPhone *gocql.Query
	stmtUpdateUser        *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements builds the reusable queries once at startup
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Could not initialise prepared statements: %v", err)
			return
		}

		stmtGetUserByPhone = session.Query("SELECT user_id FROM users_by_phone WHERE phone = ?")

		stmtGetUserByID = session.Query(`SELECT phone, name, email, provider, created_at
			FROM users WHERE user_id = ?`)

		stmtInsertUser = session.Query(`INSERT INTO users (user_id, phone, name, email, provider, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)

		stmtInsertUserByPhone = session.Query("INSERT INTO users_by_phone (phone, user_id) VALUES (?, ?)")

		stmtUpdateUser = session.Query("UPDATE users SET name = ?, email = ?, updated_at = ? WHERE user_id = ?")

		log.Println("✅ Prepared statements initialised")
	})
}

func GetPreparedGetUserByPhone() *gocql.Query {
	return stmtGetUserByPhone
}

func GetPreparedGetUserByID() *gocql.Query {
	return stmtGetUserByID
}

func GetPreparedInsertUser() *gocql.Query {
	return stmtInsertUser
}

func GetPreparedInsertUserByPhone() *gocql.Query {
	return stmtInsertUserByPhone
}

func GetPreparedUpdateUser() *gocql.Query {
	return stmtUpdateUser
}
