package validation

import "github.com/dmitrijs2005/learnhub/internal/server/models"

// Bounds shared by the user rule sets.
const (
	UsernameMinLength          = 3
	UsernameMaxLength          = 25
	EmailMaxLength             = 255
	PasswordMinLength          = 6
	PasswordMaxLength          = 40
	ProfilePictureURLMaxLength = 400
)

func CreateUser(r models.CreateUserRequest) Errors {
	var c checker

	c.notEmpty("Username", r.Username)
	c.lengthBetween("Username", r.Username, UsernameMinLength, UsernameMaxLength)

	c.notEmpty("EmailAddress", r.EmailAddress)
	c.maxLen("EmailAddress", r.EmailAddress, EmailMaxLength)
	c.email("EmailAddress", r.EmailAddress)

	c.notEmpty("Password", r.Password)
	c.lengthBetween("Password", r.Password, PasswordMinLength, PasswordMaxLength)

	c.positive("RoleID", r.RoleID)

	c.maxLen("ProfilePictureURL", r.ProfilePictureURL, ProfilePictureURLMaxLength)
	c.urlOrEmpty("ProfilePictureURL", r.ProfilePictureURL)

	return c.errs
}

// UpdateUser only checks the fields that are set; empty fields mean "keep".
func UpdateUser(r models.UpdateUserRequest) Errors {
	var c checker

	if r.Username != "" {
		c.notEmpty("Username", r.Username)
		c.lengthBetween("Username", r.Username, UsernameMinLength, UsernameMaxLength)
	}
	if r.EmailAddress != "" {
		c.maxLen("EmailAddress", r.EmailAddress, EmailMaxLength)
		c.email("EmailAddress", r.EmailAddress)
	}
	if r.Password != "" {
		c.notEmpty("Password", r.Password)
		c.lengthBetween("Password", r.Password, PasswordMinLength, PasswordMaxLength)
	}
	if r.ProfilePictureURL != "" {
		c.maxLen("ProfilePictureURL", r.ProfilePictureURL, ProfilePictureURLMaxLength)
		c.urlOrEmpty("ProfilePictureURL", r.ProfilePictureURL)
	}

	return c.errs
}

func UpdateUserPassword(r models.UpdateUserPasswordRequest) Errors {
	var c checker

	c.notEmpty("OldPassword", r.OldPassword)
	c.lengthBetween("OldPassword", r.OldPassword, PasswordMinLength, PasswordMaxLength)

	c.notEmpty("NewPassword", r.NewPassword)
	c.lengthBetween("NewPassword", r.NewPassword, PasswordMinLength, PasswordMaxLength)

	c.equal("ConfirmNewPassword", r.ConfirmNewPassword, "NewPassword", r.NewPassword)

	return c.errs
}

// Login only rejects blank input; anything else is left to credential
// verification so that bad logins all look the same.
func Login(r models.LoginRequest) Errors {
	var c checker

	c.notEmpty("Login", r.Login)
	c.notEmpty("Password", r.Password)

	return c.errs
}
