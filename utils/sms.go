package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// SendSms pushes a message through the configured SMS gateway. Callers
// treat delivery as fire-and-forget; failures are logged, never fatal.
func SendSms(phoneNumber, message string) error {
	apiKey := os.Getenv("SMS_API_KEY")
	senderID := os.Getenv("SMS_SENDER_ID")
	apiURL := os.Getenv("SMS_API_URL")

	if apiKey == "" || apiURL == "" {
		return fmt.Errorf("sms gateway credentials are not set")
	}

	requestBody := map[string]string{
		"api_key": apiKey,
		"from":    senderID,
		"to":      phoneNumber,
		"sms":     message,
		"type":    "plain",
		"channel": "generic",
	}

	client := resty.New().SetTimeout(15 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(requestBody).
		Post(apiURL)

	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("sms request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

// SendOtpSms sends the verification code to a new customer.
func SendOtpSms(phoneNumber, otp string) error {
	message := fmt.Sprintf("Your ChopNow verification code is: %s. Valid for 10 minutes.", otp)
	return SendSms(phoneNumber, message)
}

// SendOrderStatusSms notifies the customer of an order status change.
func SendOrderStatusSms(phoneNumber, orderNumber, status string) error {
	message := fmt.Sprintf("Order %s status updated to: %s", orderNumber, status)
	return SendSms(phoneNumber, message)
}
