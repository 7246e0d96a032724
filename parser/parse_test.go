package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	customerrors "lead-router/errors"
	"lead-router/models"
	"lead-router/parser"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		input         string
		expectedData  []models.Submission
		expectedError error
		expectedLine  int
	}{
		"ValidInput_SingleLine": {
			input: `
Acme Corp, 555-0100, Karl, Gabriela, single, no, cash, immediate, normal
`,
			expectedData: []models.Submission{
				{
					Name:       "Acme Corp",
					Phone:      "555-0100",
					Owner:      "Karl",
					Registrant: "Gabriela",
					Answers: models.Answers{
						MaritalStatus: models.MaritalSingle,
						Capital:       models.CapitalCash,
						Urgency:       models.UrgencyImmediate,
						Risk:          models.RiskNormal,
					},
				},
			},
		},
		"ValidInput_MultipleLines_WithComments": {
			input: `
# Leads captured at the fair
# name, phone, owner, registrant, marital, partner, capital, urgency, risk, model1, model2, model3
Lopez, , Karl, Gabriela, married, yes, bank account, can wait, normal, F-150, Ranger
Diaz, 555-0199, Andrea, , cohabiting, no, cash, immediate, loss, Bronco, , Escape
`,
			expectedData: []models.Submission{
				{
					Name:       "Lopez",
					Owner:      "Karl",
					Registrant: "Gabriela",
					Models:     []string{"F-150", "Ranger"},
					Answers: models.Answers{
						MaritalStatus:  models.MaritalMarried,
						PartnerDecides: true,
						Capital:        models.CapitalBankAccount,
						Urgency:        models.UrgencyCanWait,
						Risk:           models.RiskNormal,
					},
				},
				{
					Name:   "Diaz",
					Phone:  "555-0199",
					Owner:  "Andrea",
					Models: []string{"Bronco", "Escape"},
					Answers: models.Answers{
						MaritalStatus: models.MaritalCohabiting,
						Capital:       models.CapitalCash,
						Urgency:       models.UrgencyImmediate,
						Risk:          models.RiskLoss,
					},
				},
			},
		},
		"ValidInput_UnknownAnswersKept": {
			input: `
Acme, , Karl, , widowed, , crypto, someday, unknown
`,
			expectedData: []models.Submission{
				{
					Name:  "Acme",
					Owner: "Karl",
					Answers: models.Answers{
						MaritalStatus: "WIDOWED",
						Capital:       "CRYPTO",
						Urgency:       "SOMEDAY",
						Risk:          "UNKNOWN",
					},
				},
			},
		},
		"ValidInput_MissingNameIsLeftToValidation": {
			input: `
, , Karl, , single, no, cash, immediate, normal
`,
			expectedData: []models.Submission{
				{
					Owner: "Karl",
					Answers: models.Answers{
						MaritalStatus: models.MaritalSingle,
						Capital:       models.CapitalCash,
						Urgency:       models.UrgencyImmediate,
						Risk:          models.RiskNormal,
					},
				},
			},
		},
		"InvalidInput_TooFewFields": {
			input: `
# header
Acme, 555, Karl
`,
			expectedError: customerrors.ErrInvalidFieldCount,
			expectedLine:  2,
		},
		"InvalidInput_TooManyFields": {
			input: `
Acme, , Karl, , single, no, cash, immediate, normal, a, b, c, d
`,
			expectedError: customerrors.ErrInvalidFieldCount,
			expectedLine:  1,
		},
		"InvalidInput_Partner": {
			input: `
Acme, , Karl, , married, maybe, cash, immediate, normal
`,
			expectedError: customerrors.ErrInvalidPartner,
			expectedLine:  1,
		},
		"InvalidInput_EmptyRecord": {
			input: `
Acme, , Karl, , married, yes, cash, immediate, normal
 , , , , , , , ,
`,
			expectedError: customerrors.ErrEmptyRecord,
			expectedLine:  2,
		},
		"EmptyInput": {
			input:        "",
			expectedData: nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := strings.NewReader(strings.TrimSpace(tt.input))
			got, err := parser.Parse(r)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				var pe *customerrors.ParseError
				if assert.True(t, errors.As(err, &pe)) {
					assert.Equal(t, tt.expectedLine, pe.Line)
				}
				return
			}

			if err != nil {
				t.Errorf("Parse() unexpected error = %v", err)
				return
			}

			assert.Equal(t, tt.expectedData, got, fmt.Sprintf("Parse() = %v, want %v", got, tt.expectedData))
		})
	}
}

func TestParse_MalformedQuotes(t *testing.T) {
	_, err := parser.Parse(strings.NewReader(`Acme, "555, Karl, , single, no, cash, immediate, normal`))
	assert.Error(t, err)

	var pe *customerrors.ParseError
	assert.False(t, errors.As(err, &pe))
}
