package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Константы валидации. Пределы совпадают с ограничениями схемы.
const (
	MinNameLength           = 2
	MaxNameLength           = 50
	MinGigTitleLength       = 5
	MaxGigTitleLength       = 100
	MinGigDescriptionLength = 20
	MaxGigDescriptionLength = 2000
	MinBidMessageLength     = 20
	MaxBidMessageLength     = 1000
	MaxSkillLength          = 50
	MaxSkillsCount          = 50
	MinBudget               = 1.0
	MaxBudget               = 100000000.0 // 100 миллионов
	MinPrice                = 1.0
	MinDeliveryDays         = 1
	MinPasswordLength       = 6
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("домен email должен содержать точку")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	return nil
}
