package api

import (
	"net/http"

	"vpaura/backend/internal/interfaces"
	"vpaura/backend/internal/model"
)

const defaultDocumentPage = 100

type DocumentHandler struct {
	documents interfaces.DocumentService
}

func NewDocumentHandler(documents interfaces.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// HandleCreateDocument godoc
// @Summary      Create document
// @Description  Stores a reference document that the retrieval workflow can search for its owner.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      CreateDocumentRequest  true  "Document"
// @Success      201      {object}  model.Document
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /v1/documents [post]
func (h *DocumentHandler) HandleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	doc, err := h.documents.Create(r.Context(), &model.Document{
		UserID:  req.UserID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, doc)
}

// HandleGetDocument godoc
// @Summary      Get document
// @Tags         Documents
// @Produce      json
// @Param        documentID  path      int  true  "Document ID"
// @Success      200         {object}  model.Document
// @Failure      404         {object}  ErrorResponse
// @Router       /v1/documents/{documentID} [get]
func (h *DocumentHandler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "documentID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

// HandleListUserDocuments godoc
// @Summary      List a user's documents
// @Tags         Documents
// @Produce      json
// @Param        userID  path      int  true   "User ID"
// @Param        offset  query     int  false  "Offset"
// @Param        limit   query     int  false  "Page size"
// @Success      200     {array}   model.Document
// @Failure      400     {object}  ErrorResponse
// @Router       /v1/users/{userID}/documents [get]
func (h *DocumentHandler) HandleListUserDocuments(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	offset, limit, err := pageParams(r, defaultDocumentPage)
	if err != nil {
		respondWithError(w, err)
		return
	}
	docs, err := h.documents.ListByUser(r.Context(), userID, offset, limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, docs)
}

// HandleDeleteDocument godoc
// @Summary      Delete document
// @Tags         Documents
// @Param        documentID  path  int  true  "Document ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/documents/{documentID} [delete]
func (h *DocumentHandler) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "documentID")
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.documents.Delete(r.Context(), id); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
