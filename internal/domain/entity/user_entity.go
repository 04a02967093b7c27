package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// ID is zero until the first successful Save.
// Password holds the opaque credential and must never leave the store boundary,
// so it is excluded from every serialized view.
type User struct {
	ID             int64
	Username       string
	Name           string
	Bio            *string
	Role           Role
	Email          string
	Password       string `json:"-"`
	ProfileImageID *int64
	ProfileImage   *File
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserDetail is the public-detail representation of a User.
type UserDetail struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	Bio            *string    `json:"bio"`
	Role           Role       `json:"role"`
	Email          string     `json:"email"`
	ProfileImageID *int64     `json:"profileImageId"`
	ProfileImage   FileDetail `json:"profileImage"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// UserAttribution is the minimal view used when a user is referenced from other content.
type UserAttribution struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

const createdAtLayout = "January 2, 2006"

// NewRegisteredUser builds an unsaved user from registration input.
func NewRegisteredUser(name, username, email, password string) *User {
	return &User{
		Username: username,
		Name:     name,
		Role:     RoleUser,
		Email:    email,
		Password: password,
	}
}

// IsPersisted reports whether the user has been assigned an id by the store.
func (u *User) IsPersisted() bool { return u.ID != 0 }

// Detail returns the public-detail view. The profile image falls back to the placeholder.
func (u *User) Detail() UserDetail {
	img := PlaceholderImage()
	if u.ProfileImage != nil {
		img = u.ProfileImage.Detail()
	}
	created := ""
	if !u.CreatedAt.IsZero() {
		created = u.CreatedAt.Format(createdAtLayout)
	}
	return UserDetail{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Bio:            u.Bio,
		Role:           u.Role,
		Email:          u.Email,
		ProfileImageID: u.ProfileImageID,
		ProfileImage:   img,
		CreatedAt:      created,
		UpdatedAt:      u.UpdatedAt,
	}
}

// Attribution returns the minimal view.
func (u *User) Attribution() UserAttribution {
	return UserAttribution{ID: u.ID, Username: u.Username}
}
