package dto

// IdentityWebhookEvent is the provisioning payload pushed by the hosted
// identity provider. Signature verification is handled upstream and is out
// of scope here.
type IdentityWebhookEvent struct {
	Type string              `json:"type" binding:"required"`
	Data IdentityWebhookUser `json:"data"`
}

type IdentityWebhookUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}
