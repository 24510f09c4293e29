package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-md2wechat"
)

type documentRequest struct {
	Markdown string `json:"markdown"`
	Style    string `json:"style" binding:"max=64"`
}

type renderResponse struct {
	HTML  string `json:"html"`
	Style string `json:"style"`
}

type exportResponse struct {
	HTML          string                   `json:"html"`
	Text          string                   `json:"text"`
	Total         int                      `json:"total"`
	Succeeded     int                      `json:"succeeded"`
	Failed        int                      `json:"failed"`
	Notifications []md2wechat.Notification `json:"notifications"`
}

type pasteRequest struct {
	md2wechat.PastePayload
	Buffer string `json:"buffer"`
	Cursor int    `json:"cursor" binding:"gte=0"`
}

type bufferResponse struct {
	Decision      string                   `json:"decision,omitempty"`
	Buffer        string                   `json:"buffer"`
	Inserted      string                   `json:"inserted,omitempty"`
	Source        string                   `json:"source,omitempty"`
	URL           string                   `json:"url,omitempty"`
	Notifications []md2wechat.Notification `json:"notifications"`
}

type stylesResponse struct {
	Default string                `json:"default"`
	Styles  []md2wechat.StyleInfo `json:"styles"`
}

type starResponse struct {
	Key           string                   `json:"key"`
	Starred       bool                     `json:"starred"`
	Persisted     bool                     `json:"persisted"`
	Notifications []md2wechat.Notification `json:"notifications"`
}

type errorResponse struct {
	Error         string                   `json:"error"`
	Notifications []md2wechat.Notification `json:"notifications,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) render(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err, nil)
		return
	}
	res, err := s.backend.Render(c.Request.Context(), md2wechat.Input{Markdown: req.Markdown, Style: req.Style})
	if err != nil {
		s.fail(c, statusFor(err), err, nil)
		return
	}
	c.JSON(http.StatusOK, renderResponse{HTML: res.HTML, Style: res.Style})
}

func (s *Server) export(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err, nil)
		return
	}
	res, err := s.backend.Export(c.Request.Context(), md2wechat.Input{Markdown: req.Markdown, Style: req.Style})
	if err != nil {
		var notes []md2wechat.Notification
		if res != nil {
			notes = res.Notifications
		}
		s.fail(c, statusFor(err), err, notes)
		return
	}
	c.JSON(http.StatusOK, exportResponse{
		HTML:          res.HTML,
		Text:          res.Text,
		Total:         res.Images.Total,
		Succeeded:     res.Images.Succeeded,
		Failed:        res.Images.Failed,
		Notifications: nonNil(res.Notifications),
	})
}

func (s *Server) paste(c *gin.Context) {
	var req pasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err, nil)
		return
	}
	buf := md2wechat.NewBuffer(req.Buffer)
	res, err := s.backend.HandlePaste(c.Request.Context(), buf, req.Cursor, req.PastePayload)
	if err != nil {
		var notes []md2wechat.Notification
		if res != nil {
			notes = res.Notifications
		}
		s.fail(c, statusFor(err), err, notes)
		return
	}
	out := bufferResponse{
		Decision:      res.Classification.Decision.String(),
		Buffer:        buf.String(),
		Inserted:      res.Inserted,
		Notifications: nonNil(res.Notifications),
	}
	if res.Upload != nil {
		out.Source, out.URL = res.Upload.Source, res.Upload.URL
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		s.fail(c, http.StatusBadRequest, err, nil)
		return
	}
	cursor := 0
	if v := c.PostForm("cursor"); v != "" {
		if cursor, err = strconv.Atoi(v); err != nil || cursor < 0 {
			s.fail(c, http.StatusBadRequest, errors.New("cursor must be a non-negative integer"), nil)
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, http.StatusBadRequest, err, nil)
		return
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err, nil)
		return
	}

	buf := md2wechat.NewBuffer(c.PostForm("buffer"))
	img := md2wechat.Image{Name: fh.Filename, Type: fh.Header.Get("Content-Type"), Data: data}
	res, err := s.backend.Upload(c.Request.Context(), buf, cursor, img)
	if err != nil {
		var notes []md2wechat.Notification
		if res != nil {
			notes = res.Notifications
		}
		s.fail(c, statusFor(err), err, notes)
		return
	}
	c.JSON(http.StatusOK, bufferResponse{
		Buffer:        buf.String(),
		Inserted:      res.Markdown,
		Source:        res.Source,
		URL:           res.URL,
		Notifications: nonNil(res.Notifications),
	})
}

func (s *Server) styles(c *gin.Context) {
	c.JSON(http.StatusOK, stylesResponse{
		Default: s.backend.DefaultStyleKey(),
		Styles:  s.backend.Styles(c.Request.Context()),
	})
}

func (s *Server) toggleStar(c *gin.Context) {
	key := c.Param("key")
	starred, notes, err := s.backend.ToggleStar(c.Request.Context(), key)
	if err != nil && errors.Is(err, md2wechat.ErrProfileNotFound) {
		s.fail(c, http.StatusNotFound, err, notes)
		return
	}
	// Starred is the requested state. When the store write fails nothing was
	// saved, so a later listing still shows the old state.
	c.JSON(http.StatusOK, starResponse{Key: key, Starred: starred, Persisted: err == nil, Notifications: nonNil(notes)})
}

func (s *Server) fail(c *gin.Context, status int, err error, notes []md2wechat.Notification) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err.Error())
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), Notifications: notes})
}

// statusFor maps validation errors to 400 and network errors to 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, md2wechat.ErrNothingToCopy),
		errors.Is(err, md2wechat.ErrProfileNotFound),
		errors.Is(err, md2wechat.ErrUnsupportedImageType),
		errors.Is(err, md2wechat.ErrImageTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, md2wechat.ErrFetchImage),
		errors.Is(err, md2wechat.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func nonNil(notes []md2wechat.Notification) []md2wechat.Notification {
	if notes == nil {
		return []md2wechat.Notification{}
	}
	return notes
}
