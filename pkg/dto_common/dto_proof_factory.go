package dtocommon

import (
	reasoncodes "credential-registry/pkg/reason_codes"
	"credential-registry/pkg/utilities"
)

type ProofDtoFactory interface {
	CreateErrorDto(error, reasoncodes.ReasonCode) utilities.Serializable
	CreateInfoDto(reasoncodes.ReasonCode) utilities.Serializable
}

type proofFailureDtoFactory struct {
	EventId     string
	RequestBody []byte
}

func NewProofFailureFactory(eventId string, requestBody []byte) ProofDtoFactory {
	return proofFailureDtoFactory{
		EventId:     eventId,
		RequestBody: requestBody,
	}
}

func (pfdf proofFailureDtoFactory) CreateErrorDto(
	err error,
	reasonCode reasoncodes.ReasonCode) utilities.Serializable {
	return ProofFailureDto{
		EventId:     pfdf.EventId,
		RequestBody: pfdf.RequestBody,
		Error:       err.Error(),
		ReasonCode:  reasonCode,
	}
}

func (pfdf proofFailureDtoFactory) CreateInfoDto(reasonCode reasoncodes.ReasonCode) utilities.Serializable {
	return ProofFailureDto{
		EventId:     pfdf.EventId,
		RequestBody: pfdf.RequestBody,
		ReasonCode:  reasonCode,
	}
}
