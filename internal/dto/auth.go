package dto

type LoginRequest struct {
	Username   string `json:"username"   validate:"required"`
	Password   string `json:"password"   validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// ChangePasswordRequest authenticates with the current password instead
// of a session, so freshly created accounts can replace their initial
// password before they are able to log in.
type ChangePasswordRequest struct {
	Username    string `json:"username"    validate:"required"`
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
