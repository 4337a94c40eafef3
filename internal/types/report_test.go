package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportQuery_Validate(t *testing.T) {
	q := &ReportQuery{
		BankSymbol: "ADBL",
		FiscalYear: "2078/79",
		Kind:       KindAnnual,
	}
	require.NoError(t, q.Validate())
}

func TestReportQuery_Validate_MissingSymbol(t *testing.T) {
	q := &ReportQuery{FiscalYear: "2078/79", Kind: KindAnnual}
	assert.Error(t, q.Validate())
}

func TestReportQuery_Validate_BadKind(t *testing.T) {
	q := &ReportQuery{BankSymbol: "ADBL", FiscalYear: "2078/79", Kind: "monthly"}
	assert.Error(t, q.Validate())
}

func TestQuarter_Valid(t *testing.T) {
	for _, q := range []Quarter{Q1, Q2, Q3, Q4} {
		assert.True(t, q.Valid())
	}
	assert.False(t, Quarter("Q5").Valid())
	assert.False(t, Quarter("").Valid())
	assert.False(t, Quarter("q1").Valid())
}
