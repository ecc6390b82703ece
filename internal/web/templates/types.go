package templates

// Page carries what the layout needs on every page.
type Page struct {
	Title    string
	Username string // empty when not logged in
	Error    string
	Notice   string
}

type LandingView struct {
	Page
	ExperimentName string
	VariantName    string
	Reason         string
	ButtonColor    string // red, blue or default
	ButtonText     string
}

type AuthFormView struct {
	Page
	Action   string
	Heading  string
	Submit   string
	Username string
	Hint     string
}

type PersonalView struct {
	Page
	SessionID string
	Events    []FunnelEventRow
}

type FunnelEventRow struct {
	Step       string
	OccurredAt string
}

type ExperimentRow struct {
	ID          string
	Name        string
	Description string
	Status      string
	Variants    int
	StartDate   string
	EndDate     string
}

type ExperimentListView struct {
	Page
	Experiments     []ExperimentRow
	FormName        string
	FormDescription string
}

type VariantRow struct {
	ID             string
	Name           string
	Description    string
	Allocation     int
	AllocationPct  string
	Participants   int
	ParticipantPct string
}

type ExperimentView struct {
	Page
	ID                string
	Name              string
	Description       string
	Status            string
	StartDate         string
	EndDate           string
	Actions           []string // lifecycle actions valid from Status
	Variants          []VariantRow
	TotalAllocation   int
	TotalParticipants int
}

type FunnelRow struct {
	Step    string
	Count   int64
	Percent string // share of landed sessions
}

type FunnelView struct {
	Page
	Steps []FunnelRow
}

type ErrorView struct {
	Page
	Status     int
	StatusText string
	Message    string
}
