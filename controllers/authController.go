package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/Kelechi01/chopnow-api/services"
	"github.com/Kelechi01/chopnow-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// OTP policy
	otpValidity       = 10 * time.Minute
	maxFailedOtpTries = 5

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgEmailRegistered       = "email already registered"
	msgPhoneRegistered       = "phone number already registered"
	msgInvalidReferralCode   = "invalid referral code"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "invalid email or password"
	msgAccountNotVerified    = "Account not verified. Check your email or phone for the verification code."
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
	msgUserNotFound          = "user with this email does not exist"
	msgAlreadyVerified       = "account already verified"
	msgOtpLocked             = "Too many failed attempts. Request a new code."
	msgInvalidOtp            = "invalid verification code"
	msgExpiredOtp            = "verification code has expired"
	msgVerifiedSuccess       = "Account verified successfully."
	msgOtpResent             = "A new verification code has been sent."
	msgUserCreated           = "Registration successful. Verify your account with the code sent to your email or phone."
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

// currentUserID reads the authenticated user's id from the JWT claims set
// by the RequireAuth middleware.
func currentUserID(ctx *gin.Context) (uint, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return 0, false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(id), true
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", email).First(&user)
	return user, result.Error
}

// issueOtp stores a fresh code on the user and delivers it fire-and-forget.
func issueOtp(user *models.User) error {
	otp, err := utils.GenerateOtp()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(otpValidity)
	result := initializers.DB.Model(user).Updates(map[string]any{
		"otp_code":            otp,
		"otp_expiry":          expiry,
		"failed_otp_attempts": 0,
	})
	if result.Error != nil {
		return result.Error
	}

	go func(email, phone, name string) {
		emailData := utils.EmailData{
			Name:    name,
			Message: "Use the code below to verify your ChopNow account. It expires in 10 minutes.",
			OtpCode: otp,
			LogoURL: os.Getenv("LOGO_URL"),
		}
		templatePath := filepath.Join("templates", "otp_email.html")
		if err := utils.SendEmail(email, "Verify your ChopNow account", emailData, templatePath); err != nil {
			log.Println("Error sending OTP email:", err)
		}
		if phone != "" {
			if err := utils.SendOtpSms(phone, otp); err != nil {
				log.Println("Error sending OTP SMS:", err)
			}
		}
	}(user.Email, user.Phone, user.FirstName)

	return nil
}

// Signup handles customer registration
func Signup(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existingUser models.User
	result := initializers.DB.
		Where("email = ? OR (phone <> '' AND phone = ?)", signUpData.Email, signUpData.Phone).
		Find(&existingUser)
	if result.Error != nil {
		log.Println("Database error during user check:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected > 0 {
		if existingUser.Email == signUpData.Email {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailRegistered)
		} else {
			sendErrorResponse(ctx, http.StatusBadRequest, msgPhoneRegistered)
		}
		return
	}

	var referrerID *uint
	if signUpData.ReferralCode != "" {
		referrer, err := services.FindReferrer(signUpData.ReferralCode)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidReferralCode)
			} else {
				log.Println("Referral lookup error:", err)
				sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			}
			return
		}
		referrerID = &referrer.ID
	}

	hashedPassword, err := hashPassword(signUpData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	referralCode, err := services.GenerateUniqueReferralCode()
	if err != nil {
		log.Println("Referral code generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	user := models.User{
		Email:        signUpData.Email,
		Phone:        signUpData.Phone,
		Password:     hashedPassword,
		FirstName:    signUpData.FirstName,
		LastName:     signUpData.LastName,
		Address:      signUpData.Address,
		Role:         "customer",
		IsVerified:   false,
		ReferralCode: referralCode,
		ReferrerID:   referrerID,
	}
	if result := initializers.DB.Create(&user); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := issueOtp(&user); err != nil {
		log.Println("OTP generation error:", err)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated, "referralCode": user.ReferralCode})
}

// Login handles customer authentication
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(loginData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if !user.IsVerified {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAccountNotVerified)
		return
	}

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString})
}

// VerifyOtp marks the account verified when the submitted code matches
// and has not expired.
func VerifyOtp(ctx *gin.Context) {
	var verifyData struct {
		Email string `json:"email" binding:"required,email"`
		Otp   string `json:"otp" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&verifyData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(verifyData.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	if user.IsVerified {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAlreadyVerified)
		return
	}
	if user.FailedOtpAttempts >= maxFailedOtpTries {
		sendErrorResponse(ctx, http.StatusBadRequest, msgOtpLocked)
		return
	}

	if user.OtpCode == "" || user.OtpCode != verifyData.Otp {
		initializers.DB.Model(&user).Update("failed_otp_attempts", user.FailedOtpAttempts+1)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOtp)
		return
	}
	if user.OtpExpiry == nil || time.Now().After(*user.OtpExpiry) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgExpiredOtp)
		return
	}

	result := initializers.DB.Model(&user).Updates(map[string]any{
		"is_verified":         true,
		"otp_code":            "",
		"failed_otp_attempts": 0,
	})
	if result.Error != nil {
		log.Println("Verification error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgVerifiedSuccess})
}

// ResendOtp issues a fresh verification code for an unverified account.
func ResendOtp(ctx *gin.Context) {
	var resendData struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&resendData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(resendData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}
	if user.IsVerified {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAlreadyVerified)
		return
	}

	if err := issueOtp(&user); err != nil {
		log.Println("OTP generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgOtpResent})
}
