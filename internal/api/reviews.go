package api

import (
	"context"
	"net/url"
	"strings"
)

// ReviewAuthor identifies who wrote a review and when.
type ReviewAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// Review is a customer review of a product. ReviewContent is Markdown.
type Review struct {
	ProductID     string       `json:"productId"`
	ReviewID      string       `json:"reviewId"`
	ReviewInfo    ReviewAuthor `json:"reviewInfo"`
	ReviewContent string       `json:"reviewContent"`
}

// FetchProductReviews returns the reviews for productID.
func (c *Client) FetchProductReviews(ctx context.Context, productID string) ([]Review, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrProductIDRequired
	}

	var reviews []Review
	query := url.Values{"productId": {productID}}
	if err := c.getJSON(ctx, query, &reviews, "reviews"); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}
