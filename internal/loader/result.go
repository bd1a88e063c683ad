package loader

import (
	"net/http"

	"github.com/adventurelog/web/internal/backend"
	"github.com/adventurelog/web/internal/models"
)

// Result is the outcome of a page load. It is one of *Redirect, *Failure,
// *UsersPage or *ProfilePage.
type Result interface {
	// Status is the HTTP status the page should be served with
	Status() int
	// Envelope is the serializable form sent to data requests
	Envelope() Envelope
}

// Envelope is the JSON shape of a Result
type Envelope struct {
	Type     string `json:"type"` // redirect, failure, data
	Status   int    `json:"status"`
	Location string `json:"location,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// Redirect sends the browser elsewhere without rendering
type Redirect struct {
	Code     int
	Location string
}

func (r *Redirect) Status() int { return r.Code }

func (r *Redirect) Envelope() Envelope {
	return Envelope{Type: "redirect", Status: r.Code, Location: r.Location}
}

// FailureData is the payload a failed page exposes to its template
type FailureData struct {
	Message string `json:"message"`
}

// Failure is a handled load error. Kind and Err are for logs and never
// rendered.
type Failure struct {
	Code int
	Data FailureData
	Kind backend.Kind
	Err  error
}

func (f *Failure) Status() int { return f.Code }

func (f *Failure) Envelope() Envelope {
	return Envelope{Type: "failure", Status: f.Code, Data: f.Data}
}

// UsersProps are the props handed to the users page
type UsersProps struct {
	Users []models.User `json:"users"`
}

// UsersPage is a successful load of the public profile list
type UsersPage struct {
	Props UsersProps `json:"props"`
}

func (p *UsersPage) Status() int { return http.StatusOK }

func (p *UsersPage) Envelope() Envelope {
	return Envelope{Type: "data", Status: http.StatusOK, Data: p}
}

// ProfilePage is a successful load of one public profile
type ProfilePage struct {
	Profile *models.PublicProfile `json:"profile"`
}

func (p *ProfilePage) Status() int { return http.StatusOK }

func (p *ProfilePage) Envelope() Envelope {
	return Envelope{Type: "data", Status: http.StatusOK, Data: p}
}
