package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Keys used by the login and signup flows.
const (
	KeyRememberMe = "rememberMe"
	KeyUserEmail  = "userEmail"
	KeyUserData   = "userData"
)

// RememberedCredential is the login identifier kept across sessions.
type RememberedCredential struct {
	RememberMe bool
	Email      string
}

// SaveRemembered writes both remember-me keys.
func SaveRemembered(ctx context.Context, s Store, email string) error {
	if err := s.Set(ctx, KeyRememberMe, "true"); err != nil {
		return err
	}
	return s.Set(ctx, KeyUserEmail, email)
}

// ClearRemembered removes both remember-me keys.
func ClearRemembered(ctx context.Context, s Store) error {
	return s.Delete(ctx, KeyRememberMe, KeyUserEmail)
}

// LoadRemembered returns the remembered credential. ok is false unless
// rememberMe is exactly "true" and the email is non-empty.
func LoadRemembered(ctx context.Context, s Store) (RememberedCredential, bool, error) {
	flag, _, err := s.Get(ctx, KeyRememberMe)
	if err != nil {
		return RememberedCredential{}, false, err
	}
	email, _, err := s.Get(ctx, KeyUserEmail)
	if err != nil {
		return RememberedCredential{}, false, err
	}
	if flag != "true" || email == "" {
		return RememberedCredential{}, false, nil
	}
	return RememberedCredential{RememberMe: true, Email: email}, true, nil
}

// createdAtLayout matches JavaScript's Date.toISOString output.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

// Profile is the record written after a successful signup.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// NewProfile stamps a profile with createdAt in UTC ISO-8601 form.
func NewProfile(firstName, lastName, email string, createdAt time.Time) Profile {
	return Profile{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: createdAt.UTC().Format(createdAtLayout),
	}
}

// SaveProfile writes the profile under userData, replacing any previous one.
func SaveProfile(ctx context.Context, s Store, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("storage: encode profile: %w", err)
	}
	return s.Set(ctx, KeyUserData, string(data))
}

// LoadProfile reads userData. ok is false when the key is absent.
func LoadProfile(ctx context.Context, s Store) (Profile, bool, error) {
	raw, ok, err := s.Get(ctx, KeyUserData)
	if err != nil || !ok {
		return Profile{}, false, err
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, false, fmt.Errorf("storage: decode profile: %w", err)
	}
	return p, true, nil
}
