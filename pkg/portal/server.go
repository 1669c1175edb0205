package portal

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pebble-dev/devportal/config/configkey"
	"github.com/pebble-dev/devportal/pkg/middleware"
	"github.com/pebble-dev/devportal/pkg/portal/requests"
	"github.com/pebble-dev/devportal/pkg/portal/responses"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Server struct {
	engine  *gin.Engine
	handler IPortalHandler
	port    int
}

func New(useRequestLogger bool, handler IPortalHandler, port int) *Server {
	r := gin.Default()
	if useRequestLogger {
		logrus.Info("Request logger enabled")
		r.Use(middleware.RequestLoggerMiddleware())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"code": "DEV PORTAL: PAGE_NOT_FOUND", "message": "Page not found"})
	})

	s := &Server{engine: r, handler: handler, port: port}
	s.SetupEndpoints()

	return s
}

func (s *Server) Run() {
	_ = s.engine.Run(fmt.Sprintf(":%d", s.port))
}

// Engine exposes the underlying router, mostly for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) heartbeat(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) onboard(c *gin.Context) {
	var req requests.Onboard
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		writeError(c, NewError(http.StatusBadRequest, "Invalid POST body. Expected JSON", "body.invalid"))
		return
	}

	resp, portalErr := s.handler.Onboard(c.GetHeader("Authorization"), &req)
	if portalErr != nil {
		writeError(c, portalErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) submitApp(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		writeError(c, NewError(http.StatusBadRequest, "Invalid POST body. Expected multipart form data", "body.invalid"))
		return
	}

	submissionForm, err := readSubmissionForm(form)
	if err != nil {
		logrus.Error(err)
		writeError(c, NewError(http.StatusBadRequest, "Invalid POST body. Expected multipart form data", "body.invalid"))
		return
	}

	resp, portalErr := s.handler.SubmitApp(c.GetHeader("Authorization"), submissionForm)
	if portalErr != nil {
		writeError(c, portalErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) updateApp(c *gin.Context) {
	var patch map[string]interface{}
	if err := json.NewDecoder(c.Request.Body).Decode(&patch); err != nil || patch == nil {
		writeError(c, NewError(http.StatusBadRequest, "Invalid POST body. Expected JSON", "body.invalid"))
		return
	}

	resp, portalErr := s.handler.UpdateApp(c.GetHeader("Authorization"), c.Param("id"), patch)
	if portalErr != nil {
		writeError(c, portalErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getApp sends readers to the public read API; the portal itself has no
// browse surface.
func (s *Server) getApp(c *gin.Context) {
	c.Redirect(http.StatusFound, viper.GetString(configkey.AppsAPIURL)+"/id/"+c.Param("id"))
}

func writeError(c *gin.Context, portalErr *Error) {
	c.JSON(portalErr.Status, &responses.Error{Error: portalErr.Message, Code: portalErr.Code})
}

// readSubmissionForm pulls every field and file of the multipart request
// into memory; pbw files and screenshots are small enough for that.
func readSubmissionForm(form *multipart.Form) (*SubmissionForm, error) {
	fields := map[string]string{}
	for name, values := range form.Value {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	files := map[string]*File{}
	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}

		file, err := headers[0].Open()
		if err != nil {
			return nil, err
		}

		data, err := ioutil.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, err
		}

		files[name] = &File{Data: data, ContentType: headers[0].Header.Get("Content-Type")}
	}

	return &SubmissionForm{Fields: fields, Files: files}, nil
}
