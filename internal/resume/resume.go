// Package resume defines the validated document-data structure handed to the
// renderer, and the transform that derives it from a session's context tree.
// The structure is rebuilt from scratch on every generation request and never
// persisted as a source of truth.
package resume

// Personal carries the contact block of the résumé. Only FullName is
// mandatory; everything else renders as absent when empty.
type Personal struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Handle      string `json:"handle,omitempty"`
	Summary     string `json:"summary,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`
}

// Experience is one finished work-experience record. StartDate holds the
// period exactly as the user typed it; EndDate stays nil unless a record ever
// carries one.
type Experience struct {
	JobTitle    string   `json:"job_title"`
	Company     string   `json:"company"`
	StartDate   string   `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Description []string `json:"description"`
}

// Education is one finished education record. YearFinished is kept verbatim.
type Education struct {
	Degree       string `json:"degree"`
	Institution  string `json:"institution"`
	City         string `json:"city,omitempty"`
	YearFinished string `json:"year_finished"`
}

// Data is the complete rendering-ready résumé.
type Data struct {
	Personal     Personal     `json:"personal"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []string     `json:"skills"`
	TemplateName string       `json:"template_name"`
	Language     string       `json:"language"`
}
