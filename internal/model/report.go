package model

import "time"

// Report statuses, in moderation order.
const (
	ReportPending  = "pending"
	ReportReviewed = "reviewed"
	ReportResolved = "resolved"
)

// Report is an anonymous community incident report.
type Report struct {
	ID          string    `json:"_id"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Photos      []string  `json:"photos"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ForumQuery filters, sorts and pages the report feed.
type ForumQuery struct {
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
	Status   string
	Location string
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

type ForumPage struct {
	Reports    []Report
	Pagination Pagination
}
