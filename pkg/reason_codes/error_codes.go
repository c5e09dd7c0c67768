package reasoncodes

type ReasonCode string

const (
	ErrUnmarshal            ReasonCode = "UnmarshalError"
	ErrUnauthorized         ReasonCode = "Unauthorized"
	ErrInvalidRoot          ReasonCode = "InvalidRoot"
	ErrNullifierAlreadyUsed ReasonCode = "NullifierAlreadyUsed"
	ErrInvalidProof         ReasonCode = "InvalidProof"
	ErrDuplicateRoot        ReasonCode = "DuplicateRoot"
	ErrMalformedInput       ReasonCode = "MalformedInput"
	ErrVerifierResolution   ReasonCode = "VerifierResolutionError"
	ErrStorage              ReasonCode = "StorageError"
	ErrInternal             ReasonCode = "InternalError"
)

const (
	InfoProofVerified ReasonCode = "ProofVerified"
	InfoRootUpdated   ReasonCode = "RootUpdated"
)
