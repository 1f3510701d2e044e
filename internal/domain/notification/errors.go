package notification

import "errors"

var ErrEmptyTaskText = errors.New("notification task text is empty")
var ErrMissingChatID = errors.New("notification task has no chat id")

// Validate checks the invariants every persisted task must satisfy.
func (t *Task) Validate() error {
	if t.ChatID == 0 {
		return ErrMissingChatID
	}
	if t.Text == "" {
		return ErrEmptyTaskText
	}
	return nil
}
