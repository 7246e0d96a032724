package parser

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"lead-router/errors"
	"lead-router/metrics"
	"lead-router/models"
	"strings"
	"time"
)

// Column positions of a lead record. The three model columns are optional.
const (
	colName = iota
	colPhone
	colOwner
	colRegistrant
	colMarital
	colPartner
	colCapital
	colUrgency
	colRisk
	colModel1

	minFields = colModel1
	maxFields = colModel1 + 3
)

// Parse reads CSV lead submissions from the reader.
// Lines starting with '#' are headers/comments.
// Each record is:
//
//	name, phone, owner, registrant, marital, partner, capital, urgency, risk[, model1[, model2[, model3]]]
//
// Questionnaire values are matched case-insensitively; unrecognised values
// are kept and score on the low branch. The partner column must be a yes/no
// flag or empty. Name and owner presence is checked later, at submission.
func Parse(r io.Reader) ([]models.Submission, error) {
	start := time.Now()
	defer func() { metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds()) }()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var data []models.Submission
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("csv").Inc()
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		// Handle headers/comments
		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}

		sub, err := parseRecord(record)
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
			return nil, &errors.ParseError{
				Line:   line,
				Record: record,
				Err:    err,
			}
		}
		metrics.ParserRecordsTotal.Inc()
		data = append(data, sub)
	}

	return data, nil
}

func parseRecord(record []string) (models.Submission, error) {
	if len(record) < minFields || len(record) > maxFields {
		return models.Submission{}, fmt.Errorf("%w: got %d, want %d to %d", errors.ErrInvalidFieldCount, len(record), minFields, maxFields)
	}
	if blank(record) {
		return models.Submission{}, errors.ErrEmptyRecord
	}

	field := func(i int) string { return strings.TrimSpace(record[i]) }

	partner, ok := models.ParseYesNo(field(colPartner))
	if !ok {
		return models.Submission{}, fmt.Errorf("%w: %q", errors.ErrInvalidPartner, field(colPartner))
	}

	sub := models.Submission{
		Name:       field(colName),
		Phone:      field(colPhone),
		Owner:      field(colOwner),
		Registrant: field(colRegistrant),
		Answers: models.Answers{
			MaritalStatus:  models.ParseMaritalStatus(field(colMarital)),
			PartnerDecides: partner,
			Capital:        models.ParseCapitalType(field(colCapital)),
			Urgency:        models.ParseUrgency(field(colUrgency)),
			Risk:           models.ParseRisk(field(colRisk)),
		},
	}
	for i := colModel1; i < len(record); i++ {
		if m := field(i); m != "" {
			sub.Models = append(sub.Models, m)
		}
	}
	return sub, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func errorType(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrInvalidFieldCount):
		return "field_count"
	case stderrors.Is(err, errors.ErrEmptyRecord):
		return "empty_record"
	case stderrors.Is(err, errors.ErrInvalidPartner):
		return "partner"
	default:
		return "other"
	}
}
