package domain

import "time"

// User is the account an order may be linked to. Only the fields the order
// workflow touches live here.
type User struct {
	ID    uint64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string   `json:"name" gorm:"type:varchar(255);not null"`
	Email string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Roles []string `json:"roles" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (u *User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}
