package services

import (
	"errors"
	"fmt"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/Kelechi01/chopnow-api/utils"
	"gorm.io/gorm"
)

// No I, O, 0, 1 to avoid confusion when codes are shared aloud.
const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	referralPrefix     = "CN-"
	referralCodeLength = 6
)

// GenerateUniqueReferralCode keeps generating until the code does not
// collide with an existing user's.
func GenerateUniqueReferralCode() (string, error) {
	for {
		random, err := utils.GenerateFromAlphabet(referralAlphabet, referralCodeLength)
		if err != nil {
			return "", err
		}
		code := referralPrefix + random

		var existing models.User
		err = initializers.DB.Where("referral_code = ?", code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// FindReferrer resolves a referral code to the owning user.
func FindReferrer(code string) (*models.User, error) {
	var referrer models.User
	err := initializers.DB.Where("referral_code = ?", code).First(&referrer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("referral code %w", ErrNotFound)
		}
		return nil, err
	}
	return &referrer, nil
}
