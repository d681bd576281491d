package service

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	msgRequired        = "Обязательное поле."
	msgUsernamePattern = "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_."
	msgUsernameTaken   = "Пользователь с таким именем уже существует."
	msgEmailTaken      = "Пользователь с таким адресом электронной почты уже существует."
	msgEmailInvalid    = "Введите правильный адрес электронной почты."
	msgWrongPassword   = "Неверный пароль."
	msgPasswordShort   = "Пароль должен содержать не менее 8 символов."
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// maxLen is validation.Length capped only from above, with a Russian message.
func maxLen(n int) validation.Rule {
	return validation.RuneLength(0, n).Error("Убедитесь, что это значение содержит не более {{.max}} символов.")
}

// atLeast rejects ints below lower. Unlike validation.Min it also rejects zero.
func atLeast(lower int, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		n, ok := value.(int)
		if ok && n < lower {
			return validation.NewError("validation_min_int", fmt.Sprintf(message, lower))
		}
		return nil
	})
}
