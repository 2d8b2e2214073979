package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

var reviewValidator = validator.New()

// ReviewInput is a customer review of a completed booking. Validation runs
// client-side before any request is made.
type ReviewInput struct {
	BookingID int64  `json:"booking_id" validate:"required,min=1"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,min=10,max=1000"`
}

// Review is a stored review.
type Review struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReview submits a review. Invalid input fails locally with a
// validation error and never reaches the network.
func (c *Client) CreateReview(ctx context.Context, in ReviewInput) (Review, error) {
	if err := reviewValidator.Struct(in); err != nil {
		return Review{}, &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("invalid review: %v", err),
			cause:   err,
		}
	}
	var review Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews/", in, &review); err != nil {
		return Review{}, err
	}
	return review, nil
}
