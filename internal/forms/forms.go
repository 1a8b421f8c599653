// Package forms validates submitted form data before anything reaches the
// remote directory.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/userdeck/userdeck/internal/directory"
)

// DefaultAge pre-fills a blank create form.
const DefaultAge = 25

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

// newValidator names fields by their `field` tag and adds the rules the
// built-in tags lack: a blank-aware required check for passwords, the
// user@host.tld address shape and integer age text.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	rules := map[string]validator.Func{
		"nonblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"emailaddr": func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		},
		"wholenumber": func(fl validator.FieldLevel) bool {
			_, err := strconv.Atoi(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("forms: register %s: %v", tag, err))
		}
	}
	return v
}

// ValidationError maps field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for name, or "".
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// messages holds the text shown per field and failed tag. The "*" field
// applies to every field without its own entry; {param} is the tag argument.
type messages map[string]map[string]string

func (m messages) text(fe validator.FieldError) string {
	msg, ok := m[fe.Field()][fe.Tag()]
	if !ok {
		msg, ok = m["*"][fe.Tag()]
	}
	if !ok {
		return "Invalid"
	}
	return strings.ReplaceAll(msg, "{param}", fe.Param())
}

// check validates rules and keeps the first failure of each field.
func check(rules any, m messages) error {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	var failed validator.ValidationErrors
	if !errors.As(err, &failed) {
		return err
	}
	fields := make(map[string]string, len(failed))
	for _, fe := range failed {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = m.text(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

// SignIn is the sign-in form.
type SignIn struct {
	Username string
	Password string
}

var signInMessages = messages{
	"username": {"required": "Username is required"},
	"password": {"nonblank": "Password is required"},
}

func (f SignIn) Validate() error {
	return check(struct {
		Username string `field:"username" validate:"required"`
		Password string `field:"password" validate:"nonblank"`
	}{strings.TrimSpace(f.Username), f.Password}, signInMessages)
}

// SignUp is the registration form.
type SignUp struct {
	FirstName       string
	LastName        string
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

type signUpRules struct {
	FirstName       string `field:"firstName" validate:"required"`
	LastName        string `field:"lastName" validate:"required"`
	Email           string `field:"email" validate:"required,emailaddr"`
	Username        string `field:"username" validate:"required,min=3"`
	Password        string `field:"password" validate:"nonblank,min=6"`
	ConfirmPassword string `field:"confirmPassword" validate:"nonblank,eqfield=Password"`
}

var signUpMessages = messages{
	"firstName":       {"required": "First name is required"},
	"lastName":        {"required": "Last name is required"},
	"email":           {"required": "Email is required", "emailaddr": "Invalid email address"},
	"username":        {"required": "Username is required", "min": "Username must be at least {param} characters"},
	"password":        {"nonblank": "Password is required", "min": "Password must be at least {param} characters"},
	"confirmPassword": {"nonblank": "Please confirm your password", "eqfield": "Passwords do not match"},
}

// Validate checks trimmed names and the raw passwords.
func (f SignUp) Validate() error {
	return check(signUpRules{
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		Email:           strings.TrimSpace(f.Email),
		Username:        strings.TrimSpace(f.Username),
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}, signUpMessages)
}

// Registration converts a validated form into the directory payload.
func (f SignUp) Registration() directory.Registration {
	return directory.Registration{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Username:  strings.TrimSpace(f.Username),
		Password:  f.Password,
	}
}

// User is the create/edit form for a managed user. Age is kept as submitted
// text so an invalid value can be echoed back.
type User struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Age         string
	CompanyName string
	Department  string
	Title       string
}

// BlankUser is the initial state of the create form.
func BlankUser() User {
	return User{Age: strconv.Itoa(DefaultAge)}
}

// UserFromRecord pre-fills the edit form.
func UserFromRecord(r directory.Record) User {
	return User{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Age:         strconv.Itoa(r.Age),
		CompanyName: r.Company.Name,
		Department:  r.Company.Department,
		Title:       r.Company.Title,
	}
}

// userRules checks the age text before its value; both report as "age".
type userRules struct {
	FirstName   string `field:"firstName" validate:"required"`
	LastName    string `field:"lastName" validate:"required"`
	Email       string `field:"email" validate:"required,emailaddr"`
	Phone       string `field:"phone" validate:"required"`
	Age         string `field:"age" validate:"required,wholenumber"`
	Years       int    `field:"age" validate:"gte=18,lte=120"`
	CompanyName string `field:"companyName" validate:"required"`
	Department  string `field:"department" validate:"required"`
	Title       string `field:"title" validate:"required"`
}

var userMessages = messages{
	"*": {
		"required":    "Required",
		"emailaddr":   "Invalid email",
		"wholenumber": "Must be a whole number",
		"gte":         "Min {param}",
		"lte":         "Max {param}",
	},
}

func (f User) Validate() error {
	age := strings.TrimSpace(f.Age)
	years, _ := strconv.Atoi(age)
	return check(userRules{
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Email:       strings.TrimSpace(f.Email),
		Phone:       strings.TrimSpace(f.Phone),
		Age:         age,
		Years:       years,
		CompanyName: strings.TrimSpace(f.CompanyName),
		Department:  strings.TrimSpace(f.Department),
		Title:       strings.TrimSpace(f.Title),
	}, userMessages)
}

// Input converts a validated form into the directory payload.
func (f User) Input() directory.RecordInput {
	age, _ := strconv.Atoi(strings.TrimSpace(f.Age))
	return directory.RecordInput{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
		Age:       age,
		Company: directory.Company{
			Name:       strings.TrimSpace(f.CompanyName),
			Department: strings.TrimSpace(f.Department),
			Title:      strings.TrimSpace(f.Title),
		},
	}
}
