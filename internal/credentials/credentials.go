package credentials

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

const (
	EnvUserID   = "ATTENDANCE_USER_ID"
	EnvPassword = "ATTENDANCE_PASSWORD"
)

// Credentials are the portal login. The zero value means none were found,
// in which case login is skipped.
type Credentials struct {
	UserID   string
	Password string
}

func (c Credentials) Valid() bool {
	return c.UserID != "" && c.Password != ""
}

var (
	userIDRegex   = regexp.MustCompile(`user id:"(.*?)"`)
	passwordRegex = regexp.MustCompile(`password:"(.*?)"`)
)

var ErrNotFound = errors.New("credentials not found")

// Parse extracts `user id:"..."` and `password:"..."` from anywhere in contents.
func Parse(contents string) (Credentials, error) {
	userID := userIDRegex.FindStringSubmatch(contents)
	if userID == nil {
		return Credentials{}, fmt.Errorf("%w: no `user id:\"...\"` entry", ErrNotFound)
	}
	password := passwordRegex.FindStringSubmatch(contents)
	if password == nil {
		return Credentials{}, fmt.Errorf("%w: no `password:\"...\"` entry", ErrNotFound)
	}
	return Credentials{
		UserID:   userID[1],
		Password: password[1],
	}, nil
}

// Load reads and parses the credentials file at path. On any failure it
// returns the zero Credentials and the cause.
func Load(path string) (Credentials, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("load %s: %w", path, err)
	}
	creds, err := Parse(string(contents))
	if err != nil {
		return Credentials{}, fmt.Errorf("load %s: %w", path, err)
	}
	return creds, nil
}

// FromEnv reads credentials from ATTENDANCE_USER_ID and ATTENDANCE_PASSWORD.
func FromEnv() Credentials {
	return Credentials{
		UserID:   os.Getenv(EnvUserID),
		Password: os.Getenv(EnvPassword),
	}
}
