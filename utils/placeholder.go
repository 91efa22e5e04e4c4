package utils

import (
	"math/rand"
	"strings"
)

// Values generated for front-desk fields the user left blank.
const (
	PLACEHOLDER_CHARSET            = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	PHONE_PLACEHOLDER_LENGTH       = 10
	NATIONAL_ID_PLACEHOLDER_LENGTH = 12
)

// RandomString returns 'length' characters drawn uniformly from PLACEHOLDER_CHARSET.
func RandomString(length int) string {
	if length <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(PLACEHOLDER_CHARSET[rand.Intn(len(PLACEHOLDER_CHARSET))])
	}

	return sb.String()
}

func PlaceholderPhoneNumber() string {
	return RandomString(PHONE_PLACEHOLDER_LENGTH)
}

func PlaceholderNationalID() string {
	return RandomString(NATIONAL_ID_PLACEHOLDER_LENGTH)
}

// FillPlaceholders replaces an empty phone number or national id with a random placeholder
// and returns both values.
func FillPlaceholders(phoneNumber, nationalID string) (string, string) {
	if phoneNumber == "" {
		phoneNumber = PlaceholderPhoneNumber()
	}

	if nationalID == "" {
		nationalID = PlaceholderNationalID()
	}

	return phoneNumber, nationalID
}
