package models

type CreateUserRequest struct {
	Username          string `json:"username"`
	EmailAddress      string `json:"emailAddress"`
	Password          string `json:"password"`
	RoleID            int64  `json:"roleId"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

// UpdateUserRequest is a patch: empty fields leave stored values untouched.
type UpdateUserRequest struct {
	Username          string `json:"username"`
	EmailAddress      string `json:"emailAddress"`
	Password          string `json:"password"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

type UpdateUserPasswordRequest struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// LoginRequest carries a username or an email address in Login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreateQuestionRequest and UpdateQuestionRequest are validated here and
// persisted by the quiz service.
type CreateQuestionRequest struct {
	QuestionContent string `json:"questionContent"`
	ImageURL        string `json:"imageUrl"`
	A               string `json:"a"`
	B               string `json:"b"`
	C               string `json:"c"`
	D               string `json:"d"`
	CorrectAnswer   string `json:"correctAnswer"`
	Level           int    `json:"level"`
}

type UpdateQuestionRequest CreateQuestionRequest
