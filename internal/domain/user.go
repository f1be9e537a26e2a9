package domain

import (
	"strings"
	"time"
)

// Gender of a registered user.
type Gender int

const (
	GenderMale Gender = iota
	GenderFemale
)

// String returns the persisted spelling of the gender.
func (g Gender) String() string {
	if g == GenderFemale {
		return "Female"
	}
	return "Male"
}

// ParseGender accepts "male" or "female" in any case.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	default:
		return 0, &ValidationError{Field: "gender", Reason: "must be Male or Female"}
	}
}

// User is a registered customer. Passwords are kept in clear text.
type User struct {
	ID        string
	Username  string
	Password  string
	Email     string
	Name      string
	Surname   string
	Phone     string
	Gender    Gender
	Birthdate time.Time
	Card      string
}

// Age returns the user's age in whole years at now.
func (u *User) Age(now time.Time) int {
	age := now.Year() - u.Birthdate.Year()
	if now.Month() < u.Birthdate.Month() ||
		(now.Month() == u.Birthdate.Month() && now.Day() < u.Birthdate.Day()) {
		age--
	}
	return age
}
