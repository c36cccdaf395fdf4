package domain

import "time"

// Actor identifies the staff member performing an operation. Identity
// verification is delegated to the auth layer; the core only attributes
// activity records to it.
type Actor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

type Staff struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Token         string    `json:"-"`
	ReferralCodes int       `json:"activeReferralCodes"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ReferralCode struct {
	Code      string    `json:"code"`
	Role      string    `json:"role"`
	IssuedBy  string    `json:"issuedBy"`
	Used      bool      `json:"used"`
	UsedBy    *string   `json:"usedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ActivityRecord struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ActorID     string    `json:"actorId"`
	ActorName   string    `json:"actorName,omitempty"`
	OrderID     *string   `json:"orderId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
