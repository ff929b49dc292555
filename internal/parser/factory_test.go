package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
)

func TestGetParser(t *testing.T) {
	log := logging.NewMockLogger()

	portfolio, err := GetParser(models.KindPortfolioStatement, log)
	require.NoError(t, err)
	assert.NotNil(t, portfolio)

	property, err := GetParser(models.KindPropertyStatement, log)
	require.NoError(t, err)
	assert.NotNil(t, property)
}

func TestGetParser_Unrecognized(t *testing.T) {
	_, err := GetParser(models.KindUnrecognized, logging.NewMockLogger())
	assert.Error(t, err)
}

func TestGetParser_UnknownKind(t *testing.T) {
	_, err := GetParser(models.DocumentKind("invoice"), logging.NewMockLogger())
	assert.Error(t, err)
}
