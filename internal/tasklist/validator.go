package tasklist

import "strings"

// Validate trims title and rejects it when nothing is left.
func Validate(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrValidationRejected
	}
	return title, nil
}

// Validator holds the candidate title for the next task.
// The zero value is ready to use.
type Validator struct {
	candidate string
	err       error
}

// Set replaces the candidate and clears any previous rejection.
func (v *Validator) Set(title string) {
	v.candidate = title
	v.err = nil
}

func (v *Validator) Value() string { return v.candidate }

// Err reports the last rejection, or nil.
func (v *Validator) Err() error { return v.err }

// Submit returns the trimmed candidate and clears it. On rejection the
// candidate is kept so the user can fix it.
func (v *Validator) Submit() (string, error) {
	title, err := Validate(v.candidate)
	if err != nil {
		v.err = err
		return "", err
	}
	v.candidate = ""
	v.err = nil
	return title, nil
}
