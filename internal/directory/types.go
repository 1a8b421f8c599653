package directory

// Company is the organization reference embedded in a managed user.
type Company struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Title      string `json:"title"`
}

// Record is a managed user as returned by the remote directory.
type Record struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Age       int     `json:"age"`
	Image     string  `json:"image"`
	Company   Company `json:"company"`
}

// IsLocal reports whether the record carries a client-generated identifier.
// Remote identifiers are always positive; local ones are negative.
func (r Record) IsLocal() bool {
	return r.ID < 0
}

// FullName joins first and last name.
func (r Record) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}

// Profile is the signed-in principal kept in the session.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Image     string `json:"image"`
}

// Page is a raw page of records from the listing endpoint.
type Page struct {
	Records []Record `json:"users"`
	Total   int      `json:"total"`
	Skip    int      `json:"skip"`
	Limit   int      `json:"limit"`
}

// AuthResult is the outcome of a sign-in or registration.
type AuthResult struct {
	Profile      Profile
	AccessToken  string
	RefreshToken string
}

// RecordInput carries the writable fields of a managed user.
type RecordInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Age       int     `json:"age"`
	Company   Company `json:"company"`
}

// Registration is the payload for creating a new account.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// RecordFields is the projection requested when listing users.
var RecordFields = []string{"id", "firstName", "lastName", "email", "phone", "age", "image", "company"}
