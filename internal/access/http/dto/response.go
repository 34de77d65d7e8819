package dto

// Access values reported by the check_key endpoint.
const (
	AccessGranted = "granted"
	AccessDenied  = "denied"
)

// CheckKeyResponse reports whether an access secret is valid.
type CheckKeyResponse struct {
	Access string `json:"access"`
}

// GenerateTokenResponse returns a newly issued playback token.
type GenerateTokenResponse struct {
	Token string `json:"token"`
}

// ReloadKeysResponse reports how many access secrets are loaded after a reload.
type ReloadKeysResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}
