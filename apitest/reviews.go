package apitest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FarhanAlam-Official/SewaBazaar-sub009/api"
)

// createReview handles POST /api/reviews/.
func (s *Server) createReview(c *gin.Context) {
	var req api.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextReviewID++
	review := api.Review{
		ID:        s.nextReviewID,
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	s.reviews = append(s.reviews, review)
	c.JSON(http.StatusCreated, review)
}
