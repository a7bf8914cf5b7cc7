package models

import (
	"errors"

	"gorm.io/gorm"
)

// AnonymousName is the reserved name of the placeholder user that absorbs
// references left behind by deleted accounts.
const AnonymousName = "anonymous"

var (
	// ErrAnonymousUserImmutable is returned when a delete targets the
	// placeholder user itself.
	ErrAnonymousUserImmutable = errors.New("the anonymous user cannot be deleted")

	ErrSelfFriendship = errors.New("cannot befriend yourself")
	ErrAlreadyFriends = errors.New("users are already friends")
)

// Anonymize returns the shared anonymous user, creating it on first use.
// Idempotent: repeated calls return the same record.
func Anonymize(db *gorm.DB) (*User, error) {
	var anon User
	err := db.Where("name = ?", AnonymousName).
		Attrs(User{Name: AnonymousName, Alias: AnonymousName}).
		FirstOrCreate(&anon).Error
	if err != nil {
		return nil, err
	}
	return &anon, nil
}
