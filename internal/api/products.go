package api

import (
	"context"
	"net/url"
	"strings"
)

// rootParentValue is the query value the service uses for "no parent".
const rootParentValue = "null"

// Product is one node of the product hierarchy.
type Product struct {
	ProductID       string  `json:"productId"`
	ParentProductID *string `json:"parentProductId"`
	Name            string  `json:"name"`
	AvailableFrom   string  `json:"availableFrom"`
}

// ParentID returns the parent id or "" for a root product.
func (p Product) ParentID() string {
	if p.ParentProductID == nil {
		return ""
	}
	return *p.ParentProductID
}

// ProductDetail is the full record shown on a product page.
type ProductDetail struct {
	ProductID   string   `json:"productId"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	LastUpdated string   `json:"lastUpdated"`
	Overview    string   `json:"overview"`
	Categories  []string `json:"categories"`
}

// FetchRootProducts returns the products that have no parent.
func (c *Client) FetchRootProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	query := url.Values{"parentProductId": {rootParentValue}}
	if err := c.getJSON(ctx, query, &products, "products"); err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// FetchChildProducts returns the direct children of parentID.
//
// The service may answer with a superset; only items whose parent reference
// equals parentID are returned, in response order.
func (c *Client) FetchChildProducts(ctx context.Context, parentID string) ([]Product, error) {
	if strings.TrimSpace(parentID) == "" {
		return nil, ErrProductIDRequired
	}

	var products []Product
	query := url.Values{"parentProductId": {parentID}}
	if err := c.getJSON(ctx, query, &products, "products"); err != nil {
		return nil, err
	}
	return FilterChildren(products, parentID), nil
}

// FilterChildren keeps the products whose parent is parentID.
func FilterChildren(products []Product, parentID string) []Product {
	children := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ParentID() == parentID {
			children = append(children, p)
		}
	}
	return children
}

// FetchProductDetail returns the detail record for productID, or nil when the
// service reports it does not exist.
func (c *Client) FetchProductDetail(ctx context.Context, productID string) (*ProductDetail, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrProductIDRequired
	}

	var detail ProductDetail
	if err := c.getJSON(ctx, nil, &detail, "products", productID); err != nil {
		if IsNotFound(err) {
			return nil, nil //nolint:nilnil // Not found is a valid empty result.
		}
		return nil, err
	}
	if detail.ProductID == "" {
		detail.ProductID = productID
	}
	return &detail, nil
}
