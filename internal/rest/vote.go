package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest/middleware"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest/response"
)

// VoteHandler represent the httphandler for novel votes
type VoteHandler struct {
	Service domain.VoteUsecase
}

func NewVoteHandler(svc domain.VoteUsecase) *VoteHandler {
	return &VoteHandler{
		Service: svc,
	}
}

func novelIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNovelNotFound.Error()})
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: "user not authenticated"})
		return 0, false
	}
	return v.(int64), true
}

// ToggleVote flips the current user's vote on the novel
func (h *VoteHandler) ToggleVote(c *gin.Context) {
	nid, ok := novelIDParam(c)
	if !ok {
		return
	}
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	res, err := h.Service.ToggleVote(c.Request.Context(), uid, nid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewVoteResultFromDomain(res))
}

// GetVoteStats returns the committed vote count of the novel
func (h *VoteHandler) GetVoteStats(c *gin.Context) {
	nid, ok := novelIDParam(c)
	if !ok {
		return
	}

	stats, err := h.Service.GetVoteStats(c.Request.Context(), nid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewVoteStatsFromDomain(stats))
}

// GetVoteStatus tells whether the current user has an active vote on the novel
func (h *VoteHandler) GetVoteStatus(c *gin.Context) {
	nid, ok := novelIDParam(c)
	if !ok {
		return
	}
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.Service.GetVoteStatus(c.Request.Context(), uid, nid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewVoteStatusFromDomain(status))
}
