// Package sms delivers OTP codes. Real delivery is intentionally absent in
// this deployment: the console sender logs the code, mirroring what the
// send-otp endpoint returns as devOtp. A Kavenegar client is sketched for
// when an SMS line is provisioned.
package sms

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Sender delivers a verification code to a phone number.
type Sender interface {
	SendOTP(phone, code string) error
}

// ConsoleSender logs the code instead of sending it.
type ConsoleSender struct {
	Log *zap.SugaredLogger
}

func (c *ConsoleSender) SendOTP(phone, code string) error {
	c.Log.Infof("OTP for %s: %s", phone, code)
	return nil
}

const kavenegarBaseURL = "https://api.kavenegar.com/v1"

// KavenegarSender sends codes through the Kavenegar lookup API.
type KavenegarSender struct {
	apiKey   string
	template string
	client   *http.Client
}

// NewKavenegarSender builds a sender for the given API key and verify template.
func NewKavenegarSender(apiKey, template string) *KavenegarSender {
	return &KavenegarSender{
		apiKey:   apiKey,
		template: template,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (k *KavenegarSender) SendOTP(phone, code string) error {
	endpoint := fmt.Sprintf("%s/%s/verify/lookup.json", kavenegarBaseURL, k.apiKey)

	params := url.Values{}
	params.Set("receptor", phone)
	params.Set("token", code)
	params.Set("template", k.template)

	resp, err := k.client.Get(endpoint + "?" + params.Encode())
	if err != nil {
		return fmt.Errorf("kavenegar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kavenegar responded with status %d", resp.StatusCode)
	}
	return nil
}
