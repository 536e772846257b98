package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email             string     `json:"email" gorm:"uniqueIndex;size:191"`
	Phone             string     `json:"phone"`
	Password          string     `json:"-"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Address           string     `json:"address"`
	Role              string     `json:"role"`
	IsVerified        bool       `json:"isVerified"`
	OtpCode           string     `json:"-"`
	OtpExpiry         *time.Time `json:"-"`
	FailedOtpAttempts int        `json:"-"`
	ReferralCode      string     `json:"referralCode" gorm:"uniqueIndex;size:16"`
	ReferrerID        *uint      `json:"referrerId"`
}

type SignupData struct {
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" binding:"required,min=8"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Address      string `json:"address"`
	ReferralCode string `json:"referralCode"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
