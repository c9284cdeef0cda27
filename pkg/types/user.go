package types

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// User owns places and writes reviews. Password holds a bcrypt hash; it
// is persisted but never emitted by ToMap(true).
type User struct {
	Base      `mapstructure:",squash"`
	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
}

// NewUser returns a fresh User whose password is hashed with SetPassword.
func NewUser(email, password string) (*User, error) {
	u := &User{Base: newBase(), Email: email}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash with the bcrypt hash of plain.
// Assigning Password directly stores the value as is.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// Kind returns KindUser.
func (u *User) Kind() Kind { return KindUser }

// ToMap implements Entity.
func (u *User) ToMap(redactSecret bool) map[string]any { return toMap(u, redactSecret) }

func (u *User) fields() map[string]any {
	return map[string]any{
		"email":      u.Email,
		"password":   u.Password,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}
