package models

import "time"

// Categories is the fixed set a posting's category must belong to.
var Categories = []string{
	"Graphics & Design",
	"Mobile App Development",
	"Frontend Web Development",
	"MERN Stack Development",
	"Account & Finance",
	"Artificial Intelligence",
	"Video Animation",
	"MEAN Stack Development",
	"MEVN Stack Development",
	"Data Entry Operator",
}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Job is an Employer-authored posting. Exactly one salary form is set:
// FixedSalary, or the SalaryFrom/SalaryTo range.
type Job struct {
	ID          string    `json:"id"`
	EmployerID  string    `json:"employerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Location    string    `json:"location"`
	FixedSalary *int64    `json:"fixedSalary,omitempty"`
	SalaryFrom  *int64    `json:"salaryFrom,omitempty"`
	SalaryTo    *int64    `json:"salaryTo,omitempty"`
	PostedOn    time.Time `json:"postedOn"`
	Expired     bool      `json:"expired"`
}

// JobInput carries the fields of a new posting.
type JobInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Location    string `json:"location"`
	FixedSalary *int64 `json:"fixedSalary"`
	SalaryFrom  *int64 `json:"salaryFrom"`
	SalaryTo    *int64 `json:"salaryTo"`
}

// JobPatch is a partial update; nil fields are left unchanged. When any
// salary field is present the patch replaces the salary form as a whole.
type JobPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	Location    *string `json:"location"`
	FixedSalary *int64  `json:"fixedSalary"`
	SalaryFrom  *int64  `json:"salaryFrom"`
	SalaryTo    *int64  `json:"salaryTo"`
	Expired     *bool   `json:"expired"`
}

// HasSalary reports whether the patch touches the salary form.
func (p JobPatch) HasSalary() bool {
	return p.FixedSalary != nil || p.SalaryFrom != nil || p.SalaryTo != nil
}

// JobFilter narrows the public listing.
type JobFilter struct {
	Category       string
	City           string
	Country        string
	Search         string
	IncludeExpired bool
	Limit          int
	Offset         int
}
