package domain

// Product is the canonical catalog record. Upstream payloads carry
// alternate field spellings (title/name, thumbnail/image); those are
// collapsed into this shape at the upstream boundary and nowhere else.
type Product struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images,omitempty"`
}

// Category is a product grouping as reported by the shop service.
type Category struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
	Image        string `json:"image,omitempty"`
}

// District is a deliverable region offered at checkout.
type District struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ContactMessage is a customer inquiry forwarded to the shop service.
type ContactMessage struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Details string `json:"details"`
}
