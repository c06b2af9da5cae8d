package api

import (
	"net/http"

	"vpaura/backend/internal/interfaces"
	"vpaura/backend/internal/model"
)

const defaultUserPage = 100

type UserHandler struct {
	users interfaces.UserService
}

func NewUserHandler(users interfaces.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleCreateUser godoc
// @Summary      Create user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request  body      CreateUserRequest  true  "User"
// @Success      201      {object}  model.User
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /v1/users [post]
func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	user, err := h.users.Create(r.Context(), &model.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// HandleListUsers godoc
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Param        offset  query     int  false  "Offset"
// @Param        limit   query     int  false  "Page size"
// @Success      200     {array}   model.User
// @Failure      400     {object}  ErrorResponse
// @Router       /v1/users [get]
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pageParams(r, defaultUserPage)
	if err != nil {
		respondWithError(w, err)
		return
	}
	users, err := h.users.List(r.Context(), offset, limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get user
// @Tags         Users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  model.User
// @Failure      404     {object}  ErrorResponse
// @Router       /v1/users/{userID} [get]
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "userID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
