package contracts

import "errors"

// ErrNotFound is returned by stores when a row addressed by id does not exist
var ErrNotFound = errors.New("not found")

// Analyst is one row of the analyst directory
type Analyst struct {
	ID                   int64  `json:"analyst_id"`
	FirstInitial         string `json:"first_initial"`
	LastName             string `json:"last_name"`
	FirstInitialLastName string `json:"first_initial_last_name"`
	FullName             string `json:"full_name"`
	LinkedInURL          string `json:"linkedin,omitempty"`
}

// LinkedInInfo is the optional scraped profile of an analyst
type LinkedInInfo struct {
	AnalystID          int64  `json:"analyst_id"`
	FullName           string `json:"full_name"`
	City               string `json:"city,omitempty"`
	CountryCode        string `json:"country_code,omitempty"`
	About              string `json:"about,omitempty"`
	CurrentCompanyName string `json:"current_company_name,omitempty"`
	Experience         string `json:"experience,omitempty"`
	LinkedInURL        string `json:"linkedin,omitempty"`
	EducationsDetails  string `json:"educations_details,omitempty"`
	Languages          string `json:"languages,omitempty"`
	Certifications     string `json:"certifications,omitempty"`
	Recommendations    string `json:"recommendations,omitempty"`
	Followers          *int   `json:"followers"`
	Connections        *int   `json:"connections"`
	Activity           string `json:"activity,omitempty"`
	HonorsAndAwards    string `json:"honors_and_awards,omitempty"`
	DefaultAvatar      string `json:"default_avatar,omitempty"`
}

// AnalystProfile is the header + profile box of the dashboard.
// LinkedIn is nil when no profile was scraped.
type AnalystProfile struct {
	Analyst  Analyst       `json:"analyst"`
	LinkedIn *LinkedInInfo `json:"linkedin"`
}
