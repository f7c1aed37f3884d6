package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/tubevibes/internal/model"
)

// formSlack covers multipart framing and text fields on top of the file limit
const formSlack = 1 << 20

// requestError is a client error carrying its HTTP status
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...interface{}) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func tooLarge() error {
	return &requestError{status: http.StatusRequestEntityTooLarge, msg: "upload exceeds size limit"}
}

// replyError answers a requestError with its status and anything else with 500
func replyError(c *gin.Context, errType string, err error) {
	var re *requestError
	if errors.As(err, &re) {
		fail(c, re.status, re.msg)
		return
	}
	internalError(c, errType, err)
}

// parseMultipart bounds the request body and parses the form
func (s *Server) parseMultipart(c *gin.Context) error {
	if s.maxUpload > 0 {
		// video and thumbnail may both be at the limit
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*s.maxUpload+formSlack)
	}
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return tooLarge()
		}
		return badRequest("invalid multipart form")
	}
	return nil
}

// formMedia reads an optional file field whose content type must be kind/*.
// A missing field yields nil, nil.
func (s *Server) formMedia(c *gin.Context, field, kind string) (*model.MediaSource, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("invalid %s upload", field)
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, kind+"/") {
		return nil, badRequest("%s must be a %s file", field, kind)
	}
	if s.maxUpload > 0 && fh.Size > s.maxUpload {
		return nil, tooLarge()
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s upload: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s upload: %w", field, err)
	}

	return &model.MediaSource{
		Name:        fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
