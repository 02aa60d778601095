// Package auth gates the staff views behind a single shared credential and
// tracks the resulting staff sessions.
package auth

import "crypto/subtle"

// StaffSubject is the session subject for the shared staff login.
const StaffSubject = "staff"

// Gate compares login attempts against the shared staff password.
// There are no per-user accounts and no lockout.
type Gate struct {
	password string
}

// NewGate creates a gate for password.
func NewGate(password string) Gate {
	return Gate{password: password}
}

// Check reports whether input matches the staff password.
func (g Gate) Check(input string) bool {
	if g.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(g.password)) == 1
}
