package dto

// SendOTPResponse acknowledges an OTP request. The code itself is included
// only in non-production environments.
type SendOTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn"`
	OTP       string `json:"otp,omitempty"`
}

// VerifyOTPResponse carries freshly minted credentials and the resolved user.
type VerifyOTPResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// TokenPairResponse is returned by the refresh endpoint.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
