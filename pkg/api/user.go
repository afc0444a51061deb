package api

// UserInfo is the profile as returned to its owner.
type UserInfo struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstname"`
	MiddleName     string `json:"middlename"`
	LastName       string `json:"lastname"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

// UserInfoResponse wraps the profile in the reply envelope.
type UserInfoResponse struct {
	Success bool     `json:"success"`
	User    UserInfo `json:"user"`
}

// UpdateUserRequest changes the profile fields of the authenticated user.
type UpdateUserRequest struct {
	FirstName  string `json:"firstname" validate:"required,max=50"`
	MiddleName string `json:"middlename" validate:"omitempty,max=50"`
	LastName   string `json:"lastname" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
}

// VerifyPasswordRequest re-checks the current password of the
// authenticated user.
type VerifyPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
}

// ChangePasswordRequest rotates the password of the authenticated user.
// The response carries a fresh token; any other live session is superseded.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}
