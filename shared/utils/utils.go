package utils

import (
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/bcrypt"
)

// ID prefixes per entity.
const (
	UserPrefix     = "usr"
	RolePrefix     = "rol"
	CategoryPrefix = "cat"
	ProductPrefix  = "prd"
	ChatPrefix     = "cht"
	MessagePrefix  = "msg"
)

// GenerateID generates a time ordered unique ID with the given prefix
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, ksuid.New().String())
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// SplitCSV splits a comma separated query value, dropping blanks.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
