package credit

import "errors"

var (
	// ErrInvalidPaymentDate is returned when a payment is dated before the
	// loan's last recorded payment date. The loan state is left untouched.
	ErrInvalidPaymentDate = errors.New("payment date precedes last payment date")

	// ErrSearchDidNotConverge is returned when the installment search exhausts
	// its iteration cap and the schedule would still leave debt outstanding.
	ErrSearchDidNotConverge = errors.New("installment search did not converge")

	// ErrInvalidInput covers non-positive principals, terms, rates and amounts
	// that the form layer should have rejected already.
	ErrInvalidInput = errors.New("invalid input")
)
