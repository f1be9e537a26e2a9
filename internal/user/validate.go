package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
)

var (
	idPattern    = regexp.MustCompile(`^[A-Z0-9]{7}$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@(gmail|mail|outlook|yahoo)\.(com|ru|az)$`)
	phonePattern = regexp.MustCompile(`^\+994(50|51|55|70|77|10|99)[0-9]{7}$`)
)

// Field limits.
const (
	MinUsername = 8
	MinPassword = 8
	MinName     = 2
	MinSurname  = 4
	MinAge      = 18
	MinYear     = 1900
)

// Form is the raw sign-up input.
type Form struct {
	ID       string
	Username string
	Password string
	Email    string
	Name     string
	Surname  string
	Phone    string
	Gender   string
	Day      int
	Month    int
	Year     int
	Card     string
}

// NewUser validates a form field by field and builds the user. The first
// failing field is reported.
func NewUser(f Form, now time.Time) (*domain.User, error) {
	u := &domain.User{
		ID:       strings.TrimSpace(f.ID),
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
		Email:    strings.TrimSpace(f.Email),
		Name:     strings.TrimSpace(f.Name),
		Surname:  strings.TrimSpace(f.Surname),
		Phone:    strings.TrimSpace(f.Phone),
		Card:     strings.TrimSpace(f.Card),
	}
	if err := validateFields(u); err != nil {
		return nil, err
	}

	var err error
	if u.Gender, err = domain.ParseGender(f.Gender); err != nil {
		return nil, err
	}
	if u.Birthdate, err = Birthdate(f.Day, f.Month, f.Year, now); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks every format and range rule on u.
func Validate(u *domain.User, now time.Time) error {
	if err := validateFields(u); err != nil {
		return err
	}
	if u.Gender != domain.GenderMale && u.Gender != domain.GenderFemale {
		return invalid("gender", "must be Male or Female")
	}
	b := u.Birthdate
	if _, err := Birthdate(b.Day(), int(b.Month()), b.Year(), now); err != nil {
		return err
	}
	return nil
}

func validateFields(u *domain.User) error {
	switch {
	case !idPattern.MatchString(u.ID):
		return invalid("id", "must be 7 uppercase letters or digits")
	case len(u.Username) < MinUsername:
		return invalid("username", fmt.Sprintf("must be at least %d characters", MinUsername))
	case len(u.Password) < MinPassword:
		return invalid("password", fmt.Sprintf("must be at least %d characters", MinPassword))
	case !emailPattern.MatchString(u.Email):
		return invalid("email", "must be a gmail, mail, outlook or yahoo address ending in .com, .ru or .az")
	case len(u.Name) < MinName:
		return invalid("name", fmt.Sprintf("must be at least %d characters", MinName))
	case len(u.Surname) < MinSurname:
		return invalid("surname", fmt.Sprintf("must be at least %d characters", MinSurname))
	case !phonePattern.MatchString(u.Phone):
		return invalid("phone", "must look like +99450XXXXXXX")
	}
	return nil
}

// Birthdate checks a calendar date and the minimum age at now.
func Birthdate(day, month, year int, now time.Time) (time.Time, error) {
	if year < MinYear || year > now.Year() {
		return time.Time{}, invalid("birth year", fmt.Sprintf("must be between %d and %d", MinYear, now.Year()))
	}
	if month < 1 || month > 12 {
		return time.Time{}, invalid("birth month", "must be between 1 and 12")
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || d.Day() != day {
		return time.Time{}, invalid("birth day", "does not exist in that month")
	}
	u := domain.User{Birthdate: d}
	if u.Age(now) < MinAge {
		return time.Time{}, invalid("birthdate", fmt.Sprintf("user must be at least %d", MinAge))
	}
	return d, nil
}

func invalid(field, reason string) error {
	return &domain.ValidationError{Field: field, Reason: reason}
}
