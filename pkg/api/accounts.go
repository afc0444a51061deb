package api

// SiteAccountRequest creates or updates one stored site credential.
type SiteAccountRequest struct {
	Site     string `json:"site" validate:"required,max=255"`
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=255"`
	Image    string `json:"image" validate:"omitempty,max=512"`
}

// SiteAccount is one stored credential as returned to its owner.
type SiteAccount struct {
	ID       string `json:"id"`
	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

// CreateAccountResponse is returned after a successful create.
type CreateAccountResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	AccountID string `json:"accountId"`
}

// AccountsResponse lists every credential owned by the caller.
type AccountsResponse struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message,omitempty"`
	Accounts []SiteAccount `json:"accounts"`
}
