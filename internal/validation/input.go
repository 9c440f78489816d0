package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength           = 3
	MaxUsernameLength           = 30
	MinFullNameLength           = 2
	MaxFullNameLength           = 100
	MinServiceTitleLength       = 3
	MaxServiceTitleLength       = 200
	MinServiceDescriptionLength = 10
	MaxServiceDescriptionLength = 5000
	MaxCategoryLength           = 100
	MaxRequirementsLength       = 5000
	MaxReasonLength             = 1000
	MaxReviewCommentLength      = 2000
	MinRating                   = 1
	MaxRating                   = 5
	MaxAmount                   = int64(10_000_000_000) // 100 миллионов в минорных единицах
	MinSlotDuration             = 15 * time.Minute
	MaxSlotDuration             = 12 * time.Hour
	MaxRecurrenceWeeks          = 52
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
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateFullName проверяет полное имя пользователя.
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return nil
	}

	fullName = strings.TrimSpace(fullName)

	if err := ValidateLength("полное имя", fullName, MinFullNameLength, MaxFullNameLength); err != nil {
		return err
	}

	fullNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,!?()]+$`)
	if !fullNameRegex.MatchString(fullName) {
		return fmt.Errorf("полное имя содержит недопустимые символы")
	}

	return nil
}

// ValidateServiceTitle проверяет название услуги.
func ValidateServiceTitle(title string) error {
	if title == "" {
		return fmt.Errorf("название услуги обязательно")
	}

	title = strings.TrimSpace(title)

	if err := ValidateLength("название услуги", title, MinServiceTitleLength, MaxServiceTitleLength); err != nil {
		return err
	}

	return nil
}

// ValidateServiceDescription проверяет описание услуги.
func ValidateServiceDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание услуги обязательно")
	}

	description = strings.TrimSpace(description)

	if err := ValidateLength("описание услуги", description, MinServiceDescriptionLength, MaxServiceDescriptionLength); err != nil {
		return err
	}

	return nil
}

// ValidateCategory проверяет категорию услуги.
func ValidateCategory(category *string) error {
	if category != nil && *category != "" {
		cat := strings.TrimSpace(*category)
		if err := ValidateLength("категория", cat, 0, MaxCategoryLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAmount проверяет денежную сумму в минорных единицах.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("сумма должна быть положительной")
	}
	if amount > MaxAmount {
		return fmt.Errorf("сумма не может превышать %d", MaxAmount)
	}
	return nil
}

// ValidateRequirements проверяет требования к заказу.
func ValidateRequirements(requirements *string) error {
	if requirements != nil && *requirements != "" {
		req := strings.TrimSpace(*requirements)
		if err := ValidateLength("требования", req, 0, MaxRequirementsLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRejectionReason проверяет причину отклонения заказа.
func ValidateRejectionReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("причина отклонения обязательна")
	}

	if err := ValidateLength("причина отклонения", strings.TrimSpace(reason), 0, MaxReasonLength); err != nil {
		return err
	}

	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("оценка должна быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateReviewComment проверяет комментарий отзыва.
func ValidateReviewComment(comment *string) error {
	if comment != nil && *comment != "" {
		c := strings.TrimSpace(*comment)
		if err := ValidateLength("комментарий", c, 0, MaxReviewCommentLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTimeRange проверяет временное окно слота.
func ValidateTimeRange(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("время окончания должно быть позже времени начала")
	}

	duration := end.Sub(start)
	if duration < MinSlotDuration {
		return fmt.Errorf("слот не может быть короче %s", MinSlotDuration)
	}
	if duration > MaxSlotDuration {
		return fmt.Errorf("слот не может быть длиннее %s", MaxSlotDuration)
	}

	return nil
}

// ValidateRecurrenceWeeks проверяет количество недель повторения слота.
func ValidateRecurrenceWeeks(weeks int) error {
	if weeks < 0 {
		return fmt.Errorf("количество недель не может быть отрицательным")
	}
	if weeks > MaxRecurrenceWeeks {
		return fmt.Errorf("количество недель не может превышать %d", MaxRecurrenceWeeks)
	}
	return nil
}
