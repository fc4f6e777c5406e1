package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain/mocks"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func voteRouter(svc domain.VoteUsecase) *gin.Engine {
	r := gin.New()
	h := rest.NewVoteHandler(svc)
	r.GET("/novels/:id/votes", h.GetVoteStats)
	authorized := r.Group("/")
	authorized.Use(middleware.UserIdentity())
	authorized.POST("/novels/:id/votes/toggle", h.ToggleVote)
	authorized.GET("/novels/:id/votes/status", h.GetVoteStatus)
	return r
}

func do(r http.Handler, method, target string, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestToggleVote(t *testing.T) {
	svc := &mocks.VoteUsecase{}
	svc.On("ToggleVote", mock.Anything, int64(3), int64(12)).
		Return(domain.VoteResult{NovelID: 12, VoteCount: 1, IsActive: true}, nil).Once()

	rec := do(voteRouter(svc), http.MethodPost, "/novels/12/votes/toggle", "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(12), body["novelId"])
	assert.Equal(t, float64(1), body["voteCount"])
	assert.Equal(t, true, body["isActive"])
	svc.AssertExpectations(t)
}

func TestToggleVoteWithoutUser(t *testing.T) {
	svc := &mocks.VoteUsecase{}
	rec := do(voteRouter(svc), http.MethodPost, "/novels/12/votes/toggle", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "ToggleVote", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleVoteErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      int
		retryable bool
	}{
		{"novel not found", domain.ErrNovelNotFound, http.StatusNotFound, false},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, false},
		{"transient", domain.ErrTransient, http.StatusServiceUnavailable, true},
		{"storage", domain.ErrStorageUnavailable, http.StatusServiceUnavailable, true},
		{"timeout", domain.ErrTimeout, http.StatusGatewayTimeout, true},
		{"throttled", domain.ErrTooManyRequests, http.StatusTooManyRequests, true},
		{"unknown", domain.ErrInternalServerError, http.StatusInternalServerError, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.VoteUsecase{}
			svc.On("ToggleVote", mock.Anything, int64(1), int64(2)).Return(domain.VoteResult{}, tc.err).Once()

			rec := do(voteRouter(svc), http.MethodPost, "/novels/2/votes/toggle", "1")
			assert.Equal(t, tc.code, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.err.Error(), body["message"])
			if tc.retryable {
				assert.Equal(t, true, body["retryable"])
			} else {
				assert.NotContains(t, body, "retryable")
			}
		})
	}
}

func TestToggleVoteBadNovelID(t *testing.T) {
	svc := &mocks.VoteUsecase{}
	rec := do(voteRouter(svc), http.MethodPost, "/novels/abc/votes/toggle", "1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVoteStats(t *testing.T) {
	svc := &mocks.VoteUsecase{}
	svc.On("GetVoteStats", mock.Anything, int64(4)).Return(domain.VoteStats{NovelID: 4, VoteCount: 9}, nil).Once()

	rec := do(voteRouter(svc), http.MethodGet, "/novels/4/votes", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(9), body["voteCount"])
}

func TestGetVoteStatus(t *testing.T) {
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := &mocks.VoteUsecase{}
	svc.On("GetVoteStatus", mock.Anything, int64(5), int64(4)).
		Return(domain.VoteStatus{NovelID: 4, HasVoted: true, VotedAt: &at}, nil).Once()
	svc.On("GetVoteStatus", mock.Anything, int64(6), int64(4)).
		Return(domain.VoteStatus{NovelID: 4}, nil).Once()

	rec := do(voteRouter(svc), http.MethodGet, "/novels/4/votes/status", "5")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["hasVoted"])
	assert.Equal(t, "2024-06-01 08:00:00", body["votedAt"])

	rec = do(voteRouter(svc), http.MethodGet, "/novels/4/votes/status", "6")
	body = decode(t, rec)
	assert.Equal(t, false, body["hasVoted"])
	assert.Nil(t, body["votedAt"])
}
