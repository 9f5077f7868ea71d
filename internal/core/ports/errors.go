package ports

import "errors"

// ErrAccountNumberTaken is returned by AccountRepository.Create when the
// generated account number collides with an existing one.
var ErrAccountNumberTaken = errors.New("account number already taken")
