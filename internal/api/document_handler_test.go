package api_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vpaura/backend/internal/api"
	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/interfaces/mocks"
	"vpaura/backend/internal/model"
)

func TestDocumentHandler(t *testing.T) {
	t.Run("Success - Create", func(t *testing.T) {
		// ARRANGE
		mockDocSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockDocSvc)
		mockDocSvc.On("Create", mock.Anything, &model.Document{UserID: 2, Title: "Policy", Content: "Text"}).
			Return(&model.Document{ID: 8, UserID: 2, Title: "Policy", Content: "Text"}, nil).Once()

		// ACT
		req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(`{"user_id":2,"title":"Policy","content":"Text"}`))
		rr := httptest.NewRecorder()
		handler.HandleCreateDocument(rr, req)

		// ASSERT
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":8`)
	})

	t.Run("Failure - Create for unknown user", func(t *testing.T) {
		mockDocSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockDocSvc)
		mockDocSvc.On("Create", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: user 2", app_errors.ErrNotFound)).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(`{"user_id":2,"title":"Policy","content":"Text"}`))
		rr := httptest.NewRecorder()
		handler.HandleCreateDocument(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Create without title", func(t *testing.T) {
		handler := api.NewDocumentHandler(mocks.NewMockDocumentService(t))

		req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(`{"user_id":2,"content":"Text"}`))
		rr := httptest.NewRecorder()
		handler.HandleCreateDocument(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "title")
	})

	t.Run("Success - Get, list and delete", func(t *testing.T) {
		mockDocSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockDocSvc)
		mockDocSvc.On("Get", mock.Anything, int64(8)).Return(&model.Document{ID: 8}, nil).Once()
		mockDocSvc.On("ListByUser", mock.Anything, int64(2), 5, 10).Return([]*model.Document{{ID: 8}}, nil).Once()
		mockDocSvc.On("Delete", mock.Anything, int64(8)).Return(nil).Once()

		rr := httptest.NewRecorder()
		handler.HandleGetDocument(rr, addChiURLParams(httptest.NewRequest(http.MethodGet, "/v1/documents/8", nil), map[string]string{"documentID": "8"}))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		handler.HandleListUserDocuments(rr, addChiURLParams(httptest.NewRequest(http.MethodGet, "/v1/users/2/documents?offset=5&limit=10", nil), map[string]string{"userID": "2"}))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		handler.HandleDeleteDocument(rr, addChiURLParams(httptest.NewRequest(http.MethodDelete, "/v1/documents/8", nil), map[string]string{"documentID": "8"}))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Failure - Delete not found", func(t *testing.T) {
		mockDocSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockDocSvc)
		mockDocSvc.On("Delete", mock.Anything, int64(8)).Return(fmt.Errorf("%w: document 8", app_errors.ErrNotFound)).Once()

		rr := httptest.NewRecorder()
		handler.HandleDeleteDocument(rr, addChiURLParams(httptest.NewRequest(http.MethodDelete, "/v1/documents/8", nil), map[string]string{"documentID": "8"}))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
