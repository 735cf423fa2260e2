package contracts

import "time"

// EarningsQuestion is one question an analyst asked on an earnings call
type EarningsQuestion struct {
	ID        int64      `json:"question_id"`
	AnalystID int64      `json:"analyst_id"`
	CompanyID *int64     `json:"company_id"`
	Ticker    string     `json:"ticker"`
	AskedAt   *time.Time `json:"mostimportantdateutc"`
	FullName  string     `json:"full_name"`
	Text      string     `json:"componenttextpreview"`
	WordCount *int       `json:"word_count"`
}
