package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adventurelog/web/internal/loader"
)

func (s *Server) indexPage(c *gin.Context) {
	session, _ := GetSessionData(c)
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Session": session,
	})
}

// usersPage renders the public profile directory
func (s *Server) usersPage(c *gin.Context) {
	result := s.loader.LoadUsers(ginEvent{c})
	s.render(c, result, func(r loader.Result) (string, gin.H) {
		page := r.(*loader.UsersPage)
		return "users.tmpl", gin.H{"Users": page.Props.Users}
	})
}

// profilePage renders a single public profile
func (s *Server) profilePage(c *gin.Context) {
	result := s.loader.LoadProfile(ginEvent{c}, c.Param("key"))
	s.render(c, result, func(r loader.Result) (string, gin.H) {
		page := r.(*loader.ProfilePage)
		return "profile.tmpl", gin.H{"Profile": page.Profile}
	})
}

// usersData serves the users load result as JSON
func (s *Server) usersData(c *gin.Context) {
	c.JSON(http.StatusOK, s.loader.LoadUsers(ginEvent{c}).Envelope())
}

// profileData serves the profile load result as JSON
func (s *Server) profileData(c *gin.Context) {
	c.JSON(http.StatusOK, s.loader.LoadProfile(ginEvent{c}, c.Param("key")).Envelope())
}

// render turns a load result into a response. Redirects and failures are
// handled here; data results go through page.
func (s *Server) render(c *gin.Context, result loader.Result, page func(loader.Result) (string, gin.H)) {
	switch r := result.(type) {
	case *loader.Redirect:
		c.Redirect(r.Code, r.Location)
	case *loader.Failure:
		c.HTML(r.Code, "error.tmpl", gin.H{
			"Status":    r.Code,
			"Message":   r.Data.Message,
			"RequestID": c.GetString(requestIDKey),
		})
	default:
		name, data := page(result)
		session, _ := GetSessionData(c)
		data["Session"] = session
		c.HTML(result.Status(), name, data)
	}
}
