package models

type Tier string

const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

var tierLevels = map[Tier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
}

// AtLeast reports whether t ranks at or above required. Unknown tiers rank
// below free.
func (t Tier) AtLeast(required Tier) bool {
	have, ok := tierLevels[t]
	if !ok {
		return false
	}
	return have >= tierLevels[required]
}

type User struct {
	OwnerID          int    `json:"owner_id,omitempty"`
	Email            string `json:"email,omitempty"`
	Name             string `json:"name,omitempty"`
	CompanyName      string `json:"company_name,omitempty"`
	SubscriptionTier Tier   `json:"subscription_tier,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	CitizenshipNo   string `json:"citizenship_no" validate:"min=10,max=20"`
	ContactNo       string `json:"contact_no" validate:"len=10,numeric"`
	Password        string `json:"password" validate:"min=6,mixedcase"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

type TokenResponse struct {
	Message          string `json:"message"`
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	OwnerID          int    `json:"owner_id"`
	Email            string `json:"email"`
	Name             string `json:"name,omitempty"`
	SubscriptionTier Tier   `json:"subscription_tier"`
}
