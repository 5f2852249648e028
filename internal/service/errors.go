package service

import "errors"

var (
	// ErrValidation marks input the form layer should not have let through.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the actor may not touch the loan.
	ErrForbidden = errors.New("forbidden")

	// ErrLoanClosed rejects payments against a fully repaid loan.
	ErrLoanClosed = errors.New("loan is closed")

	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when no authenticated user is in context.
	ErrUnauthorized = errors.New("unauthorized")
)
