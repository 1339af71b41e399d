package domain

// Profile holds the identity fields of an authenticated customer.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Session is the authentication state of one browser session.
// Profile is non-nil exactly when Authenticated is true: the last
// check succeeded with a verified or freshly refreshed access token.
type Session struct {
	Authenticated bool     `json:"authenticated"`
	Profile       *Profile `json:"profile,omitempty"`
}

// TokenPair bundles the two opaque bearer credentials issued by the
// remote authority. RefreshToken may be empty when the authority did
// not rotate it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
