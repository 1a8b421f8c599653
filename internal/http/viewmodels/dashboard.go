package viewmodels

const (
	DialogAdd    = "add"
	DialogEdit   = "edit"
	DialogDelete = "delete"
)

type DashboardViewData struct {
	Layout  LayoutData
	Results DashboardResultsData
	Dialog  *UserDialogData
}

type DashboardResultsData struct {
	Users        []UserCardItem
	Page         int
	TotalPages   int
	Total        int
	ShowingFrom  int
	ShowingTo    int
	Pages        []PageLink
	PrevHref     string
	NextHref     string
	AddHref      string
	ErrorMessage string
	// Short marks a page that came back with fewer records than the total
	// implies, because deletions fell outside the fetched window.
	Short bool
}

type PageLink struct {
	Number  int
	Href    string
	Current bool
}

type UserCardItem struct {
	ID         int64
	FullName   string
	Initials   string
	Email      string
	Phone      string
	Age        int
	Image      string
	Title      string
	Department string
	Company    string
	Local      bool
	EditHref   string
	DeleteHref string
}

type UserDialogData struct {
	Mode         string
	ID           int64
	Action       string
	CloseHref    string
	CSRFToken    string
	FullName     string
	Form         UserFormFields
	Errors       map[string]string
	ErrorMessage string
	Page         int
}

type UserFormFields struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Age         string
	CompanyName string
	Department  string
	Title       string
}
