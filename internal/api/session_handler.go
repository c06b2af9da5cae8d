package api

import (
	"net/http"

	"vpaura/backend/internal/interfaces"
	"vpaura/backend/internal/model"
)

const (
	defaultSessionPage = 100
	defaultMessagePage = 50
	maxPageSize        = 1000
)

type SessionHandler struct {
	sessions interfaces.SessionService
	messages interfaces.MessageService
}

func NewSessionHandler(sessions interfaces.SessionService, messages interfaces.MessageService) *SessionHandler {
	return &SessionHandler{sessions: sessions, messages: messages}
}

func pageParams(r *http.Request, defLimit int) (offset, limit int, err error) {
	if offset, err = intQuery(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = intQuery(r, "limit", defLimit); err != nil {
		return 0, 0, err
	}
	if limit == 0 || limit > maxPageSize {
		limit = defLimit
	}
	return offset, limit, nil
}

// HandleCreateSession godoc
// @Summary      Create session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSessionRequest  true  "Session"
// @Success      201      {object}  model.Session
// @Failure      400      {object}  ErrorResponse
// @Router       /v1/sessions [post]
func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.sessions.Create(r.Context(), req.UserID, req.Name)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

// HandleListUserSessions godoc
// @Summary      List a user's sessions
// @Description  Lists sessions newest first, or grouped by creation day with grouped=true.
// @Tags         Sessions
// @Produce      json
// @Param        userID   path   int   true   "User ID"
// @Param        grouped  query  bool  false  "Group by day"
// @Param        offset   query  int   false  "Offset"
// @Param        limit    query  int   false  "Page size, or per-group size when grouped"
// @Success      200      {array}   model.Session
// @Failure      500      {object}  ErrorResponse
// @Router       /v1/users/{userID}/sessions [get]
func (h *SessionHandler) HandleListUserSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondWithError(w, err)
		return
	}

	if r.URL.Query().Get("grouped") == "true" {
		limit, err := intQuery(r, "limit", 0)
		if err != nil {
			respondWithError(w, err)
			return
		}
		grouped, err := h.sessions.ListGrouped(r.Context(), userID, limit)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, grouped)
		return
	}

	offset, limit, err := pageParams(r, defaultSessionPage)
	if err != nil {
		respondWithError(w, err)
		return
	}
	sessions, err := h.sessions.ListByUser(r.Context(), userID, offset, limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessions)
}

// HandleGetSession godoc
// @Summary      Get session
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  model.Session
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [get]
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "sessionID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// HandleRenameSession godoc
// @Summary      Rename session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                         true  "Session ID"
// @Param        request    body      model.RenameSessionRequest  true  "New name"
// @Success      200        {object}  model.Session
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [patch]
func (h *SessionHandler) HandleRenameSession(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "sessionID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req model.RenameSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.sessions.Rename(r.Context(), id, req.Name)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// HandleDeleteSession godoc
// @Summary      Delete session
// @Description  Deletes the session, its messages and its workflow checkpoints.
// @Tags         Sessions
// @Param        sessionID  path  int  true  "Session ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [delete]
func (h *SessionHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "sessionID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListMessages godoc
// @Summary      List session messages
// @Description  Without offset, returns the latest messages oldest first. With offset, returns a page newest first.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path   int  true   "Session ID"
// @Param        offset     query  int  false  "Offset (newest-first pagination)"
// @Param        limit      query  int  false  "Page size"
// @Success      200        {array}   model.Message
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/messages [get]
func (h *SessionHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "sessionID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	offset, limit, err := pageParams(r, defaultMessagePage)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var msgs []*model.Message
	if r.URL.Query().Has("offset") {
		msgs, err = h.messages.ListPaginated(r.Context(), id, offset, limit)
	} else {
		msgs, err = h.messages.ListBySession(r.Context(), id, limit)
	}
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, msgs)
}

// HandleListCheckpoints godoc
// @Summary      List session checkpoints
// @Description  Returns the workflow checkpoints retained for the session, oldest first.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {array}   model.Checkpoint
// @Failure      404        {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/checkpoints [get]
func (h *SessionHandler) HandleListCheckpoints(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "sessionID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	checkpoints, err := h.sessions.Checkpoints(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, checkpoints)
}
