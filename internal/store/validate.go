// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for entity fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxBodyLen     = 100_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxNameLen     = 200
	minPasswordLen = 8
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,31}$`)
)

// validateTitle checks a required display title.
func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return validationf("title", "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return validationf("title", "title is too long (max %d characters)", maxTitleLen)
	}
	return nil
}

// validateName checks a required entity name (categories, tags, roles, folders).
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationf("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return validationf("name", "name is too long (max %d characters)", maxNameLen)
	}
	return nil
}

// validateBody checks body length.
func validateBody(body string) error {
	if utf8.RuneCountInString(body) > maxBodyLen {
		return validationf("body", "body is too long (max %d characters)", maxBodyLen)
	}
	return nil
}

// validateEmail checks email format.
func validateEmail(email string) error {
	if email == "" {
		return validationf("email", "email is required")
	}
	if !emailPattern.MatchString(email) {
		return validationf("email", "invalid email address")
	}
	return nil
}

// validateUsername checks the username format: lowercase alphanumeric
// plus hyphen/underscore, 3-32 characters.
func validateUsername(username string) error {
	if username == "" {
		return validationf("username", "username is required")
	}
	if !usernamePattern.MatchString(username) {
		return validationf("username", "username must be 3-32 lowercase letters, digits, hyphens, or underscores")
	}
	return nil
}

// validatePassword checks minimum password length.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return validationf("password", "password must be at least %d characters", minPasswordLen)
	}
	return nil
}
