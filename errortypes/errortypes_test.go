package errortypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCode(t *testing.T) {
	assert.Equal(t, EmptyConsentErrorCode, ReadCode(&EmptyConsent{Message: "no consent"}))
	assert.Equal(t, BadInputErrorCode, ReadCode(&BadInput{Message: "bad ids"}))
	assert.Equal(t, ReferenceDataWarningCode, ReadCode(&Warning{WarningCode: ReferenceDataWarningCode}))
	assert.Equal(t, UnknownErrorCode, ReadCode(errors.New("uncoded")))
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(&Warning{WarningCode: RegistryShapeWarningCode}))
	assert.False(t, IsWarning(&EmptyConsent{}))
	assert.False(t, IsWarning(errors.New("uncoded")))
}

func TestContainsFatalError(t *testing.T) {
	warningsOnly := []error{
		&Warning{Message: "catalog degraded", WarningCode: ReferenceDataWarningCode},
		&Warning{Message: "registry shape", WarningCode: RegistryShapeWarningCode},
	}
	assert.False(t, ContainsFatalError(warningsOnly))

	assert.True(t, ContainsFatalError(append(warningsOnly, errors.New("uncoded"))))
	assert.True(t, ContainsFatalError([]error{
		&MalformedConsent{Consent: "BQ", Cause: errors.New("too short")},
	}))
	assert.False(t, ContainsFatalError(nil))
}
