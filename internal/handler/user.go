package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/imagestore"
	"carpool/internal/service"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	userService    *service.UserService
	images         imagestore.Store
	maxUploadBytes int64
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, images imagestore.Store, maxUploadBytes int64) *UserHandler {
	return &UserHandler{
		userService:    userService,
		images:         images,
		maxUploadBytes: maxUploadBytes,
	}
}

// LoginRequest is the HTTP request body for authentication.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// UpdateUserRequest is the user document sent with a profile update.
// LegacyID accepts the "_id" key older clients send.
type UpdateUserRequest struct {
	ID       string  `json:"id"`
	LegacyID string  `json:"_id"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Car      *string `json:"car"`
}

func (r UpdateUserRequest) userID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.LegacyID
}

// Login handles POST /login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			respondErrorWithStatus(c, http.StatusNotAcceptable, err)
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, user.Public())
}

// Register handles POST /register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), service.RegisterRequest{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondErrorWithStatus(c, http.StatusNotAcceptable, err)
		case errors.Is(err, service.ErrPhoneTaken):
			respondErrorWithStatus(c, http.StatusPaymentRequired, err)
		default:
			respondError(c, err)
		}
		return
	}

	slog.InfoContext(c.Request.Context(), "user registered", "user_id", user.ID, "role", user.Role)
	respondJSON(c, http.StatusOK, user.Public())
}

// GetByPhoneNumber handles GET /users/:phonenumber
func (h *UserHandler) GetByPhoneNumber(c *gin.Context) {
	profile, err := h.userService.GetByPhoneNumber(c.Request.Context(), c.Param("phonenumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /users
//
// The body is either JSON or multipart/form-data with the user document in the
// "user" field and an optional "carImage" file.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var req UpdateUserRequest
	var file multipart.File
	var contentType string

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := json.Unmarshal([]byte(c.PostForm("user")), &req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user document"})
			return
		}

		f, header, err := c.Request.FormFile("carImage")
		switch {
		case err == nil:
			defer f.Close()
			file = f
			contentType = header.Header.Get("Content-Type")
		case errors.Is(err, http.ErrMissingFile):
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid car image upload"})
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.userID() == "" {
		respondErrorWithStatus(c, http.StatusNotAcceptable, service.ErrMissingFields)
		return
	}

	var imageRef string
	if file != nil {
		ref, err := h.images.Save(ctx, file, contentType)
		if err != nil {
			respondError(c, err)
			return
		}
		imageRef = ref
	}

	user, err := h.userService.UpdateProfile(ctx, service.UpdateProfileRequest{
		UserID: req.userID(),
		Changes: domain.ProfileChanges{
			Name: req.Name,
			Role: req.Role,
			Car:  req.Car,
		},
		CarImage: imageRef,
	})
	if err != nil {
		if imageRef != "" {
			if delErr := h.images.Delete(ctx, imageRef); delErr != nil {
				slog.WarnContext(ctx, "failed to remove orphaned car image", "ref", imageRef, "error", delErr)
			}
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, user)
}
