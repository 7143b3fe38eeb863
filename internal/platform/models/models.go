package models

// Profile is the application-side user record stored in the owning brand's
// schema. The identity provider owns the account itself; this row only
// carries what the app needs for display and scoping.
type Profile struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	BrandID     string `json:"brand_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}
