package viewmodels

type SignInViewData struct {
	Layout       LayoutData
	Username     string
	Errors       map[string]string
	ErrorMessage string
}

type SignUpViewData struct {
	Layout       LayoutData
	FirstName    string
	LastName     string
	Email        string
	Username     string
	Errors       map[string]string
	ErrorMessage string
}

type WelcomeViewData struct {
	Layout    LayoutData
	FirstName string
	LastName  string
	Username  string
	Email     string
	Image     string
}
