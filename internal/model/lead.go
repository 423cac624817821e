package model

import "time"

// Lead is a reconciled, contactable person record with exactly one retained
// phone number. Immutable once created except for removal; de-duplicated by
// ID (the provider person id) before insertion.
type Lead struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	RoleTitle   string    `json:"role_title"`
	CompanyName string    `json:"company_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email,omitempty"`
	LinkedinURL string    `json:"linkedin_url,omitempty"`
	Location    string    `json:"location,omitempty"`
	Headline    string    `json:"headline,omitempty"`
	Source      Source    `json:"source"`
	AddedAt     time.Time `json:"added_at"`
}

// ContactRecord is the persistence-boundary row. The conflict key is the
// phone number: later writes for the same number overwrite earlier ones.
type ContactRecord struct {
	ID          string         `json:"id,omitempty"`
	PhoneNumber string         `json:"phone_number"`
	FullName    string         `json:"full_name,omitempty"`
	FirstName   string         `json:"first_name,omitempty"`
	LastName    string         `json:"last_name,omitempty"`
	Role        string         `json:"role,omitempty"`
	Company     string         `json:"company,omitempty"`
	Headline    string         `json:"headline,omitempty"`
	Location    string         `json:"location,omitempty"`
	LinkedinURL string         `json:"linkedin_url,omitempty"`
	Source      string         `json:"source"`
	SourceID    string         `json:"source_id,omitempty"`
	RawData     map[string]any `json:"raw_data,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}
