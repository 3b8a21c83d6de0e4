package model

import "sort"

// Field names used as FieldErrors keys.
const (
	FieldGeneral         = "general"
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
	FieldConfirmPassword = "confirmPassword"
	FieldAvatarURL       = "avatarUrl"
)

// MsgAccountNotFound is the general error when the acting account is gone.
const MsgAccountNotFound = "account not found"

// FieldErrors maps a field name to a single human-readable message.
// Any entry fails the request.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (e FieldErrors) Add(field, msg string) {
	if msg == "" {
		return
	}
	if _, ok := e[field]; ok {
		return
	}
	e[field] = msg
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
