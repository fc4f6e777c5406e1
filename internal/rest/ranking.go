package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest/request"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest/response"
)

// RankingHandler represent the httphandler for rankings
type RankingHandler struct {
	Service domain.RankingUsecase
}

func NewRankingHandler(svc domain.RankingUsecase) *RankingHandler {
	return &RankingHandler{
		Service: svc,
	}
}

func bindRankingQuery(c *gin.Context) (domain.RankingQuery, bool) {
	var req request.RankingQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, domain.NewInvalidQueryError("query", err.Error()))
		return domain.RankingQuery{}, false
	}
	q, err := req.ToDomain()
	if err != nil {
		respondError(c, err)
		return domain.RankingQuery{}, false
	}
	return q, true
}

// RankNovels GET /rankings/novels
func (h *RankingHandler) RankNovels(c *gin.Context) {
	q, ok := bindRankingQuery(c)
	if !ok {
		return
	}
	page, err := h.Service.RankNovels(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewRankingPage(page, response.NewNovelRankItem))
}

// RankAuthors GET /rankings/authors
func (h *RankingHandler) RankAuthors(c *gin.Context) {
	q, ok := bindRankingQuery(c)
	if !ok {
		return
	}
	page, err := h.Service.RankAuthors(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewRankingPage(page, response.NewAuthorRankItem))
}

// RankUsers GET /rankings/users
func (h *RankingHandler) RankUsers(c *gin.Context) {
	q, ok := bindRankingQuery(c)
	if !ok {
		return
	}
	page, err := h.Service.RankUsers(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewRankingPage(page, response.NewUserRankItem))
}
