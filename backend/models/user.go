package models

import "gorm.io/gorm"

const (
	TierFree    = "free"
	TierPremium = "premium"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Tier         string `gorm:"default:free" json:"tier"` // free, premium
}

func (u *User) IsPremium() bool {
	return u.Tier == TierPremium
}
