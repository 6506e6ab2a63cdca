package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"reclaim/internal/items/service"
	"reclaim/internal/items/store/found"
	"reclaim/internal/items/store/lost"
	audit "reclaim/pkg/platform/audit"
	auditmemory "reclaim/pkg/platform/audit/store/memory"
	"reclaim/pkg/requestcontext"
)

type ItemHandlerSuite struct {
	suite.Suite

	router *chi.Mux
}

func TestItemHandlerSuite(t *testing.T) {
	suite.Run(t, new(ItemHandlerSuite))
}

func (s *ItemHandlerSuite) SetupTest() {
	trail := audit.NewTrail(auditmemory.NewInMemoryStore())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(found.NewInMemory(), lost.NewInMemory(), nil, trail, logger, nil)

	handler := New(svc, logger)
	s.router = chi.NewRouter()
	handler.Register(s.router)
	s.router.Route("/admin", handler.RegisterAdmin)
}

func (s *ItemHandlerSuite) do(method, path string, body any, actor requestcontext.Actor) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if !actor.IsZero() {
		req = req.WithContext(requestcontext.WithActor(req.Context(), actor))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ItemHandlerSuite) finder() requestcontext.Actor {
	return requestcontext.Actor{ID: "finder-1"}
}

func (s *ItemHandlerSuite) admin() requestcontext.Actor {
	return requestcontext.Actor{ID: "staff-1", Role: requestcontext.RoleAdmin}
}

func (s *ItemHandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *ItemHandlerSuite) reportFound() {
	w := s.do(http.MethodPost, "/items/found", map[string]any{
		"category":           "Electronics",
		"item_type":          "Laptop",
		"found_location":     "Reading room",
		"found_datetime":     "2026-03-10T14:00:00Z",
		"public_description": "Silver laptop with stickers",
	}, s.finder())
	s.Require().Equal(http.StatusCreated, w.Code)
}

func (s *ItemHandlerSuite) TestReportFound() {
	w := s.do(http.MethodPost, "/items/found", map[string]any{
		"category":       "Electronics",
		"found_location": "Reading room",
		"found_datetime": "2026-03-10T14:00:00Z",
	}, s.finder())

	s.Equal(http.StatusCreated, w.Code)
	resp := s.decode(w)
	s.Equal("published", resp["status"])
	s.Equal("Unknown", resp["item_type"])
	s.NotZero(resp["id"])
}

func (s *ItemHandlerSuite) TestReportFoundMissingFields() {
	w := s.do(http.MethodPost, "/items/found", map[string]any{
		"item_type": "Laptop",
	}, s.finder())

	s.Equal(http.StatusBadRequest, w.Code)
	resp := s.decode(w)
	s.Equal("missing required fields: category, found_location, found_datetime", resp["error_description"])
}

func (s *ItemHandlerSuite) TestReportFoundBadDatetime() {
	w := s.do(http.MethodPost, "/items/found", map[string]any{
		"category":       "Electronics",
		"found_location": "Reading room",
		"found_datetime": "yesterday afternoon",
	}, s.finder())

	s.Equal(http.StatusBadRequest, w.Code)
	resp := s.decode(w)
	s.Equal("invalid found_datetime, expected RFC 3339", resp["error_description"])
}

func (s *ItemHandlerSuite) TestReportFoundUnauthenticated() {
	w := s.do(http.MethodPost, "/items/found", map[string]any{
		"category":       "Electronics",
		"found_location": "Reading room",
		"found_datetime": "2026-03-10T14:00:00Z",
	}, requestcontext.Actor{})

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ItemHandlerSuite) TestReportLost() {
	w := s.do(http.MethodPost, "/items/lost", map[string]any{
		"category":           "Bags",
		"last_seen_location": "Bus 42",
		"last_seen_datetime": "2026-03-09T18:30:00Z",
		"private_details":    "Name tag inside",
	}, s.finder())

	s.Equal(http.StatusCreated, w.Code)
	resp := s.decode(w)
	s.NotZero(resp["id"])
}

func (s *ItemHandlerSuite) TestListingIsPublic() {
	s.reportFound()

	w := s.do(http.MethodGet, "/items/found", nil, requestcontext.Actor{})

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.Equal(float64(1), resp["count"])
	items := resp["items"].([]any)
	first := items[0].(map[string]any)
	s.Equal("Electronics", first["category"])
	// Listing rows expose public fields only.
	s.NotContains(first, "private_details")
	s.NotContains(first, "status")
}

func (s *ItemHandlerSuite) TestWithdrawRemovesFromListing() {
	s.reportFound()

	w := s.do(http.MethodPost, "/admin/items/found/1/withdraw", nil, s.admin())
	s.Equal(http.StatusOK, w.Code)

	listing := s.decode(s.do(http.MethodGet, "/items/found", nil, requestcontext.Actor{}))
	s.Equal(float64(0), listing["count"])
}

func (s *ItemHandlerSuite) TestWithdrawTwice() {
	s.reportFound()
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/admin/items/found/1/withdraw", nil, s.admin()).Code)

	w := s.do(http.MethodPost, "/admin/items/found/1/withdraw", nil, s.admin())

	s.Equal(http.StatusConflict, w.Code)
	resp := s.decode(w)
	s.Equal("found item already withdrawn", resp["error_description"])
}

func (s *ItemHandlerSuite) TestWithdrawUnknownItem() {
	w := s.do(http.MethodPost, "/admin/items/found/99/withdraw", nil, s.admin())
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ItemHandlerSuite) TestAuditTrail() {
	s.reportFound()
	s.do(http.MethodPost, "/admin/items/found/1/withdraw", nil, s.admin())

	w := s.do(http.MethodGet, "/admin/items/found/1/audit", nil, s.admin())

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.Equal(float64(2), resp["count"])
	entries := resp["entries"].([]any)
	last := entries[1].(map[string]any)
	s.Equal("withdrawn", last["action"])
	s.Equal("staff-1", last["performed_by"])
}

func (s *ItemHandlerSuite) TestAuditTrailBadKind() {
	w := s.do(http.MethodGet, "/admin/items/stolen/1/audit", nil, s.admin())
	s.Equal(http.StatusBadRequest, w.Code)
}
