package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/tubevibes/internal/auth"
	"github.com/user/tubevibes/internal/catalog"
	"github.com/user/tubevibes/internal/media"
	"github.com/user/tubevibes/internal/settings"
)

type loginRequest struct {
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type settingsRequest struct {
	SiteName       *string `json:"siteName"`
	GTMID          *string `json:"gtmId"`
	CustomHeadCode *string `json:"customHeadCode"`
}

type publicSettings struct {
	Site settings.Site          `json:"site"`
	Head settings.HeadFragments `json:"head"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "password is required")
		return
	}

	token, expiresAt, err := s.auth.Login(req.Password, req.RememberMe)
	if errors.Is(err, auth.ErrInvalidPassword) {
		fail(c, http.StatusUnauthorized, "invalid password")
		return
	}
	if err != nil {
		internalError(c, "auth", err)
		return
	}

	ok(c, loginResponse{Token: token, ExpiresAt: expiresAt})
}

// handleUpdateVideo edits title, description and thumbnail of a video
func (s *Server) handleUpdateVideo(c *gin.Context) {
	if err := s.parseMultipart(c); err != nil {
		replyError(c, "admin", err)
		return
	}

	ctx := c.Request.Context()
	current, err := s.catalog.GetByID(ctx, c.Param("id"))
	if err != nil {
		internalError(c, "catalog", err)
		return
	}
	if current == nil {
		fail(c, http.StatusNotFound, "video not found")
		return
	}

	next := current.Clone()
	if title, exists := c.GetPostForm("title"); exists {
		title = strings.TrimSpace(title)
		if title == "" {
			fail(c, http.StatusBadRequest, "title is required")
			return
		}
		next.Title = title
	}
	if description, exists := c.GetPostForm("description"); exists {
		next.Description = strings.TrimSpace(description)
	}

	thumbnail, err := s.formMedia(c, "thumbnail", "image")
	if err != nil {
		replyError(c, "admin", err)
		return
	}
	if thumbnail != nil {
		url, err := s.media.CreateObjectURL(*thumbnail)
		if errors.Is(err, media.ErrTooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		if err != nil {
			internalError(c, "media", err)
			return
		}
		next.ThumbnailURL = url
	}

	updated, err := s.catalog.Replace(ctx, next)
	if err != nil {
		if thumbnail != nil {
			s.media.Revoke(next.ThumbnailURL)
		}
		if errors.Is(err, catalog.ErrNotFound) {
			fail(c, http.StatusNotFound, "video not found")
			return
		}
		internalError(c, "catalog", err)
		return
	}

	if updated.ThumbnailURL != current.ThumbnailURL {
		s.media.Revoke(current.ThumbnailURL)
	}
	ok(c, newVideoView(updated, s.now()))
}

func (s *Server) handleDeleteVideo(c *gin.Context) {
	ctx := c.Request.Context()
	deleted, err := s.catalog.Delete(ctx, c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		fail(c, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		internalError(c, "catalog", err)
		return
	}

	s.media.Revoke(deleted.VideoURL)
	s.media.Revoke(deleted.ThumbnailURL)
	s.RefreshVideoCount(ctx)
	ok(c, gin.H{"id": deleted.ID})
}

// handlePublicSettings returns site settings with the rendered head markup
func (s *Server) handlePublicSettings(c *gin.Context) {
	site, head, err := s.settings.Head(c.Request.Context())
	if err != nil {
		internalError(c, "settings", err)
		return
	}
	ok(c, publicSettings{Site: site, Head: head})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	site, err := s.settings.Site(c.Request.Context())
	if err != nil {
		internalError(c, "settings", err)
		return
	}
	ok(c, site)
}

// handleUpdateSettings applies the fields present in the body
func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid settings body")
		return
	}

	ctx := c.Request.Context()
	if req.GTMID != nil {
		err := s.settings.SetGTM(ctx, *req.GTMID)
		if errors.Is(err, settings.ErrInvalidGTMID) {
			fail(c, http.StatusBadRequest, "gtmId must look like GTM-XXXXXX")
			return
		}
		if err != nil {
			internalError(c, "settings", err)
			return
		}
	}
	if req.SiteName != nil {
		if err := s.settings.SetSiteName(ctx, *req.SiteName); err != nil {
			internalError(c, "settings", err)
			return
		}
	}
	if req.CustomHeadCode != nil {
		if _, err := s.settings.SetHeadCode(ctx, *req.CustomHeadCode); err != nil {
			internalError(c, "settings", err)
			return
		}
	}

	s.handleGetSettings(c)
}

func (s *Server) handleUploadLogo(c *gin.Context) {
	if err := s.parseMultipart(c); err != nil {
		replyError(c, "admin", err)
		return
	}
	logo, err := s.formMedia(c, "logo", "image")
	if err != nil {
		replyError(c, "admin", err)
		return
	}
	if logo == nil {
		fail(c, http.StatusBadRequest, "logo file is required")
		return
	}

	url, err := s.media.Register(*logo)
	if errors.Is(err, media.ErrTooLarge) {
		fail(c, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}
	if err != nil {
		internalError(c, "media", err)
		return
	}

	prev, err := s.settings.SetLogo(c.Request.Context(), url)
	if err != nil {
		s.media.Revoke(url)
		internalError(c, "settings", err)
		return
	}
	if prev != "" {
		s.media.Revoke(prev)
	}
	ok(c, gin.H{"customLogo": url})
}

func (s *Server) handleRemoveLogo(c *gin.Context) {
	prev, err := s.settings.RemoveLogo(c.Request.Context())
	if err != nil {
		internalError(c, "settings", err)
		return
	}
	if prev != "" {
		s.media.Revoke(prev)
	}
	ok(c, gin.H{"customLogo": ""})
}
