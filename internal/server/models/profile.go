package models

import "time"

// Profile is a Job Seeker's reusable data, one per user.
type Profile struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Address            string    `json:"address"`
	Bio                string    `json:"bio"`
	Education          string    `json:"education"`
	Skills             []string  `json:"skills"`
	ExperienceYears    *int      `json:"experienceYears,omitempty"`
	DefaultCoverLetter string    `json:"defaultCoverLetter"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProfileFields is an upsert request; nil fields keep their stored value.
// Skills is the raw comma-separated input and ExperienceYears the raw text.
type ProfileFields struct {
	Address            *string
	Bio                *string
	Education          *string
	Skills             *string
	ExperienceYears    *string
	DefaultCoverLetter *string
}
