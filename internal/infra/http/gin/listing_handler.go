package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"deskhub/internal/app/commands"
	"deskhub/internal/app/dto"
	listingapp "deskhub/internal/app/handlers/listings"
	"deskhub/internal/app/queries"
	"deskhub/internal/domain/directory"
)

// ListingHandler wires directory queries and commands to HTTP.
type ListingHandler struct {
	Queries  queries.Bus
	Commands commands.Bus
}

// Search responds with a ranked, paginated collection of listings. Malformed
// numeric params degrade to "filter absent" instead of rejecting the request.
func (h ListingHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	query := listingapp.SearchListingsQuery{
		OwnerID:       parseOptionalInt64(c.Query("owner_id")),
		ParticipantID: parseOptionalInt64(c.Query("visitor_id")),
		Lat:           parseOptionalFloat(c.Query("lat")),
		Lng:           parseOptionalFloat(c.Query("lng")),
		Page:          parseInt(c.Query("page")),
		PageSize:      parseInt(c.Query("per_page")),
	}
	result, err := queries.Ask[listingapp.SearchListingsQuery, dto.ListingPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := queries.Ask[listingapp.GetListingQuery, dto.ListingEntry](c.Request.Context(), h.Queries, listingapp.GetListingQuery{ListingID: id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

type submitListingRequest struct {
	OwnerID          int64   `json:"owner_id" binding:"required"`
	Title            string  `json:"title" binding:"required"`
	Description      string  `json:"description"`
	AddressLine      string  `json:"address_line"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	PricePerDayCents int64   `json:"price_per_day_cents"`
	MonthlyDiscount  int     `json:"monthly_discount"`
	TagIDs           []int64 `json:"tag_ids"`
}

func (h ListingHandler) Submit(c *gin.Context) {
	var req submitListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.SubmitListingCommand{
		OwnerID:          req.OwnerID,
		Title:            req.Title,
		Description:      req.Description,
		AddressLine:      req.AddressLine,
		Lat:              req.Lat,
		Lng:              req.Lng,
		PricePerDayCents: req.PricePerDayCents,
		MonthlyDiscount:  req.MonthlyDiscount,
		TagIDs:           req.TagIDs,
	}
	result, err := commands.Dispatch[listingapp.SubmitListingCommand, *listingapp.SubmitListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateListingRequest struct {
	Title            string  `json:"title" binding:"required"`
	Description      string  `json:"description"`
	AddressLine      string  `json:"address_line"`
	PricePerDayCents int64   `json:"price_per_day_cents"`
	MonthlyDiscount  int     `json:"monthly_discount"`
	TagIDs           []int64 `json:"tag_ids"`
}

func (h ListingHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.UpdateListingCommand{
		ListingID:        id,
		Title:            req.Title,
		Description:      req.Description,
		AddressLine:      req.AddressLine,
		PricePerDayCents: req.PricePerDayCents,
		MonthlyDiscount:  req.MonthlyDiscount,
		TagIDs:           req.TagIDs,
	}
	if _, err := commands.Dispatch[listingapp.UpdateListingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ListingHandler) Approve(c *gin.Context) {
	h.moderate(c, listingapp.DecisionApprove)
}

func (h ListingHandler) Reject(c *gin.Context) {
	h.moderate(c, listingapp.DecisionReject)
}

func (h ListingHandler) moderate(c *gin.Context, decision listingapp.ModerationDecision) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cmd := listingapp.ModerateListingCommand{
		ListingID: id,
		Decision:  decision,
		Reason:    c.Query("reason"),
	}
	if _, err := commands.Dispatch[listingapp.ModerateListingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ ListingHTTP = ListingHandler{}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directory.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, directory.ErrTitleRequired),
		errors.Is(err, directory.ErrOwnerRequired),
		errors.Is(err, directory.ErrPriceNegative),
		errors.Is(err, directory.ErrDiscountRange),
		errors.Is(err, directory.ErrCoordinateRange),
		errors.Is(err, directory.ErrInvalidState),
		errors.Is(err, listingapp.ErrUnknownDecision):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseOptionalInt64(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}

func parseOptionalFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}
