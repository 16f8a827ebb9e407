package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// BidHandler предоставляет HTTP слой для откликов и найма.
type BidHandler struct {
	bids   *service.BidService
	gigs   *service.GigService
	hiring *service.HiringService
}

// NewBidHandler создаёт хэндлер.
func NewBidHandler(bids *service.BidService, gigs *service.GigService, hiring *service.HiringService) *BidHandler {
	return &BidHandler{bids: bids, gigs: gigs, hiring: hiring}
}

// Submit обрабатывает POST /bids.
func (h *BidHandler) Submit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		common.RespondBadRequest(c, "gig_id должен быть валидным UUID")
		return
	}

	bid, err := h.bids.Submit(c.Request.Context(), service.SubmitBidInput{
		GigID:         gigID,
		FreelancerID:  userID,
		Message:       req.Message,
		ProposedPrice: req.ProposedPrice,
		DeliveryDays:  req.DeliveryDays,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bid": bid})
}

// ListForGig обрабатывает GET /bids/:gigId — отклики на задание, только его владельцу.
func (h *BidHandler) ListForGig(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	gigID, err := common.ParseUUIDParam(c, "gigId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bids, err := h.bids.ListForGig(c.Request.Context(), gigID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

// ListMy обрабатывает GET /bids/my-bids. К каждому отклику прикладывается
// краткий срез его задания, чтобы фронту не ходить за каждым отдельно.
func (h *BidHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bids, err := h.bids.ListMy(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	enriched := make([]dto.BidWithGig, 0, len(bids))
	gigCache := make(map[uuid.UUID]*models.Gig)
	for _, bid := range bids {
		item := dto.BidWithGig{Bid: bid}

		gig, ok := gigCache[bid.GigID]
		if !ok {
			gig, err = h.gigs.Get(c.Request.Context(), bid.GigID)
			if err != nil {
				gig = nil
			}
			gigCache[bid.GigID] = gig
		}
		if gig != nil {
			item.Gig = &dto.GigShort{
				ID:     gig.ID.String(),
				Title:  gig.Title,
				Budget: gig.Budget,
				Status: gig.Status,
			}
		}

		enriched = append(enriched, item)
	}

	c.JSON(http.StatusOK, gin.H{"bids": enriched})
}

// Update обрабатывает PATCH /bids/:bidId.
func (h *BidHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bidID, err := common.ParseUUIDParam(c, "bidId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bid, err := h.bids.Update(c.Request.Context(), bidID, userID, service.UpdateBidInput{
		Message:       req.Message,
		ProposedPrice: req.ProposedPrice,
		DeliveryDays:  req.DeliveryDays,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bid": bid})
}

// Withdraw обрабатывает DELETE /bids/:bidId.
func (h *BidHandler) Withdraw(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bidID, err := common.ParseUUIDParam(c, "bidId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.bids.Withdraw(c.Request.Context(), bidID, userID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "отклик отозван"})
}

// Hire обрабатывает PATCH /bids/:bidId/hire — назначение исполнителя.
func (h *BidHandler) Hire(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	bidID, err := common.ParseUUIDParam(c, "bidId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bid, err := h.hiring.Hire(c.Request.Context(), bidID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bid": bid})
}
