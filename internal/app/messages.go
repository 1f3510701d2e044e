package app

// StartCommand is the only command the bot understands; everything else is a reminder request.
const StartCommand = "/start"

// User-facing replies.
const (
	WelcomeMessage           = "Привет! Введи по порядку время и название задачи в формате: 01.01.2022 20:00 Сделать домашнюю работу"
	InvalidCharactersMessage = "Недопустимые символы"
	InvalidDateFormatMessage = "Неправильный формат даты"
	TaskAddedMessage         = "Задача добавлена"
	StoreFailureMessage      = "Не удалось сохранить задачу. Пожалуйста, попробуйте позже."
)
