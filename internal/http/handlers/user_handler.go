// User HTTP handlers.
//
// This file exposes REST endpoints for user resources:
//   - POST /users/   (register)
//   - GET  /users/   (list)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// DTOs
//

// CreateUserRequest is the JSON payload for registering a user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// CreateUserResponse acknowledges a registration.
type CreateUserResponse struct {
	Message string `json:"message" example:"User created successfully"`
	UserID  uint   `json:"user_id" example:"1"`
}

// UserResponse is the public view of a user; the credential hash is never
// returned.
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}

//
// Handlers
//

// CreateUser godoc
// @ID          createUser
// @Summary     Register a user
// @Description Stores a user with a bcrypt-hashed password. Username and email are case-folded and must be unique.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateUserRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.CreateUserResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Username or email taken"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/ [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username, email and password are required")
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, CreateUserResponse{Message: "User created successfully", UserID: u.ID})
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Returns every registered user ordered by id.
// @Tags        Users
// @Produce     json
//
// @Success     200  {array}   handlers.UserResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/ [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	ok(c, http.StatusOK, out)
}
