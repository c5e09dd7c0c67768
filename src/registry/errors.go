package registry

import (
	reasoncodes "credential-registry/pkg/reason_codes"
	"errors"
)

// RegistryError is a failure with a stable reason code. Sentinels are
// compared by identity, wrap them with %w to add detail.
type RegistryError struct {
	Code reasoncodes.ReasonCode
	msg  string
}

func (e *RegistryError) Error() string {
	return e.msg
}

var (
	ErrUnauthorized         = &RegistryError{Code: reasoncodes.ErrUnauthorized, msg: "caller not authorized"}
	ErrInvalidRoot          = &RegistryError{Code: reasoncodes.ErrInvalidRoot, msg: "root not valid"}
	ErrNullifierAlreadyUsed = &RegistryError{Code: reasoncodes.ErrNullifierAlreadyUsed, msg: "nullifier used"}
	ErrInvalidProof         = &RegistryError{Code: reasoncodes.ErrInvalidProof, msg: "invalid proof"}
	ErrDuplicateRoot        = &RegistryError{Code: reasoncodes.ErrDuplicateRoot, msg: "root already published"}
	ErrMalformedInput       = &RegistryError{Code: reasoncodes.ErrMalformedInput, msg: "malformed input"}
)

// ReasonCodeOf maps err to its reason code. Errors that carry none are
// storage failures when they come from a Store, internal otherwise.
func ReasonCodeOf(err error) reasoncodes.ReasonCode {
	var re *RegistryError
	if errors.As(err, &re) {
		return re.Code
	}
	if errors.Is(err, errStore) {
		return reasoncodes.ErrStorage
	}
	return reasoncodes.ErrInternal
}

var errStore = errors.New("registry store")
