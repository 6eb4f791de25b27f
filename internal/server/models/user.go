package models

import "time"

// AccessLevel controls what a signed-in account may do elsewhere in the
// system. The auth service carries it through without interpreting it.
type AccessLevel string

const (
	AccessUser    AccessLevel = "USER"
	AccessTeacher AccessLevel = "TEACHER"
	AccessAdmin   AccessLevel = "ADMIN"
)

// Valid reports whether the value is one of the known levels.
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessUser, AccessTeacher, AccessAdmin:
		return true
	}
	return false
}

// User is one registrant. The username is unique and immutable after
// creation. Passwords are never stored: only a per-user random salt and an
// argon2id digest. Strikes counts consecutive failed logins; accounts with
// strikes at or above the lockout threshold cannot log in until an admin
// resets the counter.
type User struct {
	Username     string      `json:"username"`
	PasswordHash []byte      `json:"-"`
	Salt         []byte      `json:"-"`
	DateOfBirth  time.Time   `json:"date_of_birth"`
	AccessLevel  AccessLevel `json:"access_level"`
	Strikes      int         `json:"strikes"`
}
