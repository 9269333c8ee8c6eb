package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todolist/internal/controller"
	"todolist/internal/store"
	"todolist/internal/view"
)

const maxTextSize = 10 << 10 // 10KB

// Page handlers

func (s *Server) handleIndex(c *gin.Context) {
	page := view.NewPage(s.ctrl.Snapshot(), s.notices.Drain())
	c.HTML(http.StatusOK, view.IndexTemplate, page)
}

func (s *Server) handleAdd(c *gin.Context) {
	text := c.PostForm("text")
	if len(text) > maxTextSize {
		c.String(http.StatusRequestEntityTooLarge, "task text exceeds maximum size of 10KB")
		return
	}
	// A failure is queued as a notice and the draft is kept for the next page.
	_ = s.ctrl.Submit(c.Request.Context(), text)
	redirectHome(c)
}

func (s *Server) handleToggle(c *gin.Context) {
	_ = s.ctrl.ToggleComplete(c.Request.Context(), c.Param("id"))
	redirectHome(c)
}

func (s *Server) handleDelete(c *gin.Context) {
	_ = s.ctrl.DeleteTask(c.Request.Context(), c.Param("id"))
	redirectHome(c)
}

func (s *Server) handleFilter(c *gin.Context) {
	f, err := controller.ParseFilter(c.Param("filter"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	s.ctrl.SetFilter(f)
	redirectHome(c)
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// API handlers

type apiState struct {
	Tasks   []controller.Task `json:"tasks"`
	Visible []controller.Task `json:"visible"`
	Filter  controller.Filter `json:"filter"`
	Loading bool              `json:"loading"`
	Notices []string          `json:"notices"`
}

type addRequest struct {
	Text string `json:"text"`
}

type filterRequest struct {
	Filter string `json:"filter"`
}

func (s *Server) state() apiState {
	snap := s.ctrl.Snapshot()
	notices := s.notices.Drain()
	if notices == nil {
		notices = []string{}
	}
	return apiState{
		Tasks:   snap.Tasks,
		Visible: snap.Visible(),
		Filter:  snap.Filter,
		Loading: snap.Loading,
		Notices: notices,
	}
}

func (s *Server) handleAPIList(c *gin.Context) {
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleAPIAdd(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Text) > maxTextSize {
		apiError(c, http.StatusRequestEntityTooLarge, "task text exceeds maximum size of 10KB")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		apiError(c, http.StatusBadRequest, "text is required")
		return
	}

	if err := s.ctrl.Submit(c.Request.Context(), req.Text); err != nil {
		s.remoteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.state())
}

func (s *Server) handleAPIToggle(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.ctrl.Find(id); !ok {
		apiError(c, http.StatusNotFound, "task not found")
		return
	}

	if err := s.ctrl.ToggleComplete(c.Request.Context(), id); err != nil {
		s.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleAPIDelete(c *gin.Context) {
	if err := s.ctrl.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleAPIFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	f, err := controller.ParseFilter(req.Filter)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.ctrl.SetFilter(f)
	c.JSON(http.StatusOK, s.state())
}

// remoteError answers a failed store call. The notice stays queued for the page.
func (s *Server) remoteError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		apiError(c, http.StatusNotFound, err.Error())
		return
	}
	apiError(c, http.StatusBadGateway, err.Error())
}

func apiError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
