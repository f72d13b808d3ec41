package httpapi

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/todovault/todovault/internal/common"
	"github.com/todovault/todovault/internal/server/users"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createTaskRequest struct {
	Text string `json:"text"`
}

type updateTaskRequest struct {
	Completed *bool `json:"completed"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

func (s *HTTPServer) handleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	user, err := s.users.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *HTTPServer) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	token, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) handleMe(c echo.Context) error {
	user, err := s.users.GetByID(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) handleListTasks(c echo.Context) error {
	list, err := s.tasks.List(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) handleSearchTasks(c echo.Context) error {
	found, err := s.tasks.Search(c.Request().Context(), userIDFromContext(c), c.QueryParam("q"))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, found)
}

func (s *HTTPServer) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	task, err := s.tasks.Create(c.Request().Context(), userIDFromContext(c), req.Text)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (s *HTTPServer) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil || req.Completed == nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	task, err := s.tasks.SetCompleted(c.Request().Context(), userIDFromContext(c), c.Param("id"), *req.Completed)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) handleDeleteTask(c echo.Context) error {
	if err := s.tasks.Delete(c.Request().Context(), userIDFromContext(c), c.Param("id")); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "deleted"})
}

func (s *HTTPServer) handleDownload(c echo.Context) error {
	path, err := s.files.Resolve(c.QueryParam("file"))
	if err != nil {
		// missing and escaping names get the same response
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrInvalidPath) {
			return writeError(c, http.StatusNotFound, "file not found")
		}
		return s.respondError(c, err)
	}

	return c.File(path)
}

func (s *HTTPServer) handleResizePNG(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}
	defer src.Close()

	outPath, err := s.files.ResizePNG(c.Request().Context(), src)
	if err != nil {
		return s.respondError(c, err)
	}
	defer os.Remove(outPath)

	return c.File(outPath)
}
