package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Profile struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username,omitempty"`
	FIO      string `json:"fio"`
	Age      *int   `json:"age"`
	Photo    string `json:"photo"`
	Married  bool   `json:"married"`
	License  bool   `json:"license"`
}

// ProfileUpdate carries only the fields the user submitted. Nil pointers keep
// the stored value.
type ProfileUpdate struct {
	FIO      *string
	Age      *int
	ClearAge bool
	Photo    *string // "" removes the photo
	Married  *bool
	License  *bool
}

func (p Profile) Apply(u ProfileUpdate) Profile {
	if u.FIO != nil {
		p.FIO = *u.FIO
	}
	if u.ClearAge {
		p.Age = nil
	} else if u.Age != nil {
		age := *u.Age
		p.Age = &age
	}
	if u.Photo != nil {
		p.Photo = *u.Photo
	}
	if u.Married != nil {
		p.Married = *u.Married
	}
	if u.License != nil {
		p.License = *u.License
	}

	return p
}

type ProfileFilter struct {
	Search  string
	Married *bool
	License *bool
}
