package models

import "strings"

// normalize upper-cases a free-form token and joins words with underscores,
// so "Semi potential", "semi-potential" and "SEMI_POTENTIAL" compare equal.
func normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s
}

// ParseTier resolves a tier name. The second return is false for unknown names.
func ParseTier(s string) (Tier, bool) {
	switch t := Tier(normalize(s)); t {
	case TierPotential, TierSemiPotential, TierInformational, TierOther:
		return t, true
	}
	return "", false
}

// ParseSeniority resolves a seniority name.
func ParseSeniority(s string) (Seniority, bool) {
	switch r := Seniority(normalize(s)); r {
	case SeniorityMaster, SenioritySenior, SeniorityJunior, SeniorityGeneral:
		return r, true
	}
	return "", false
}

// The questionnaire parsers below never fail: an unrecognised value is kept
// verbatim and scores on the low branch.

func ParseMaritalStatus(s string) MaritalStatus {
	return MaritalStatus(normalize(s))
}

func ParseCapitalType(s string) CapitalType {
	switch v := normalize(s); v {
	case "BANK", "BANK_ACCOUNT", "ACCOUNT":
		return CapitalBankAccount
	default:
		return CapitalType(v)
	}
}

func ParseUrgency(s string) Urgency {
	switch v := normalize(s); v {
	case "CAN_WAIT", "WAIT", "LATER":
		return UrgencyCanWait
	default:
		return Urgency(v)
	}
}

func ParseRisk(s string) Risk {
	switch v := normalize(s); v {
	case "LOSS", "ADVERSE":
		return RiskLoss
	default:
		return Risk(v)
	}
}

// ParseYesNo reads a partner-decides style flag.
func ParseYesNo(s string) (bool, bool) {
	switch normalize(s) {
	case "YES", "Y", "TRUE", "1":
		return true, true
	case "NO", "N", "FALSE", "0", "":
		return false, true
	}
	return false, false
}
