package domain

import "time"

type User struct {
	ID                 uint
	Email              string
	Name               string
	EmailNotifications bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

func (u *User) WantsEmail() bool {
	return u.EmailNotifications && u.Email != ""
}
