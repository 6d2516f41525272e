package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the moderation state of a review
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending_review"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review is customer feedback on a completed order
type Review struct {
	ID        uuid.UUID    `json:"id"`
	OrderID   uuid.UUID    `json:"orderId"`
	Content   string       `json:"content"`
	Status    ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SubmitReviewInput represents input for reviewing an order
type SubmitReviewInput struct {
	Content string `json:"content" binding:"required"`
}

// ModerateReviewInput represents an admin decision on a review
type ModerateReviewInput struct {
	Status ReviewStatus `json:"status" binding:"required,oneof=approved rejected"`
}
