package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/tubevibes/internal/format"
	"github.com/user/tubevibes/internal/media"
	"github.com/user/tubevibes/internal/model"
)

// videoView is a catalog record with its display strings
type videoView struct {
	model.Video
	ViewsText    string `json:"viewsText"`
	UploadedText string `json:"uploadedText"`
}

func newVideoView(v *model.Video, now time.Time) videoView {
	return videoView{
		Video:        *v,
		ViewsText:    format.ViewCount(v.Views),
		UploadedText: format.UploadDate(v.UploadDate, now),
	}
}

// handleListVideos returns the catalog; order=newest lists the latest upload first
func (s *Server) handleListVideos(c *gin.Context) {
	order := c.DefaultQuery("order", "store")
	if order != "store" && order != "newest" {
		fail(c, http.StatusBadRequest, "order must be store or newest")
		return
	}

	videos, err := s.catalog.List(c.Request.Context())
	if err != nil {
		internalError(c, "catalog", err)
		return
	}

	now := s.now()
	views := make([]videoView, len(videos))
	for i, v := range videos {
		j := i
		if order == "newest" {
			j = len(videos) - 1 - i
		}
		views[j] = newVideoView(v, now)
	}

	ok(c, gin.H{
		"list":  views,
		"total": len(views),
	})
}

func (s *Server) handleGetVideo(c *gin.Context) {
	video, err := s.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "catalog", err)
		return
	}
	if video == nil {
		fail(c, http.StatusNotFound, "video not found")
		return
	}
	ok(c, newVideoView(video, s.now()))
}

// handleCreateVideo accepts a multipart upload with title, description, video and optional thumbnail
func (s *Server) handleCreateVideo(c *gin.Context) {
	in, err := s.uploadInput(c)
	if err != nil {
		RecordUpload("rejected")
		replyError(c, "upload", err)
		return
	}

	ctx := c.Request.Context()
	video, err := s.catalog.Create(ctx, *in)
	if err != nil {
		if errors.Is(err, media.ErrTooLarge) {
			RecordUpload("rejected")
			fail(c, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		RecordUpload("failed")
		internalError(c, "upload", err)
		return
	}

	RecordUpload("success")
	s.RefreshVideoCount(ctx)
	created(c, newVideoView(video, s.now()))
}

func (s *Server) uploadInput(c *gin.Context) (*model.UploadInput, error) {
	if err := s.parseMultipart(c); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		return nil, badRequest("title is required")
	}

	video, err := s.formMedia(c, "video", "video")
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, badRequest("video file is required")
	}

	thumbnail, err := s.formMedia(c, "thumbnail", "image")
	if err != nil {
		return nil, err
	}

	return &model.UploadInput{
		Title:       title,
		Description: strings.TrimSpace(c.PostForm("description")),
		Video:       *video,
		Thumbnail:   thumbnail,
	}, nil
}

// handleMedia serves registered bytes with range support
func (s *Server) handleMedia(c *gin.Context) {
	obj, found := s.media.Open(c.Param("token"))
	if !found {
		fail(c, http.StatusNotFound, "media not found")
		return
	}

	if obj.ContentType != "" {
		c.Header("Content-Type", obj.ContentType)
	}
	c.Header("Cache-Control", "private, max-age=3600")
	http.ServeContent(c.Writer, c.Request, obj.Name, obj.CreatedAt, bytes.NewReader(obj.Data))
}
