package models

// User is a public user record as served by the backend's
// /auth/public-profiles/ endpoints. The backend strips email from these.
type User struct {
	ID            int     `json:"id,omitempty"`
	PK            int     `json:"pk,omitempty"`
	UUID          string  `json:"uuid,omitempty" validate:"omitempty,uuid"`
	Username      string  `json:"username,omitempty"`
	Name          string  `json:"name,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	DateJoined    *string `json:"date_joined,omitempty"`
	IsStaff       bool    `json:"is_staff,omitempty"`
	ProfilePic    *string `json:"profile_pic,omitempty" validate:"omitempty,url"`
	PublicProfile bool    `json:"public_profile,omitempty"`
}

// DisplayName picks the best human-readable name for templates
func (u User) DisplayName() string {
	first, last := deref(u.FirstName), deref(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	}
	return "Anonymous"
}

// Key returns the identifier used in profile URLs
func (u User) Key() string {
	if u.UUID != "" {
		return u.UUID
	}
	return u.Username
}

// Adventure is the public subset of an adventure attached to a profile
type Adventure struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Location *string  `json:"location,omitempty"`
	Rating   *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	IsPublic bool     `json:"is_public"`
}

// Collection is the public subset of a collection attached to a profile
type Collection struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	IsPublic    bool    `json:"is_public"`
}

// PublicProfile is the detail view of a single public user
type PublicProfile struct {
	User        `validate:"-"`
	Adventures  []Adventure  `json:"adventures" validate:"dive"`
	Collections []Collection `json:"collections" validate:"dive"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
