package domain

import (
	"strings"

	"github.com/roach88/investcrm/internal/resource"
)

// DecisionTypes enumerates the commission decision kinds.
var DecisionTypes = []string{"EG", "MVK"}

var decisionColumns = []string{"support_id", "decision_type", "decision_date", "protocol_number", "decision"}

// Decisions defines the /decisions collection.
func Decisions() Definition {
	return Definition{
		Collection:  "decisions",
		Table:       "decision",
		Columns:     decisionColumns,
		RefColumns:  []string{"support_id"},
		DecodeFull:  decodeDecisionFull,
		DecodePatch: decodeDecisionPatch,
	}
}

func decisionType(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !inSet(*v, DecisionTypes) {
		return nil, invalidf("decision_type %q is not one of %v", *v, DecisionTypes)
	}
	return v, nil
}

func decisionDate(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !validDate(*v) {
		return nil, invalidf("decision_date %q is not a YYYY-MM-DD date", *v)
	}
	return v, nil
}

// protocolNumber upper-cases the protocol reference; empty collapses to null.
func protocolNumber(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	u := strings.ToUpper(*v)
	return &u
}

// decisionText sentence-cases the decision wording; empty collapses to null.
func decisionText(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := sentenceCase(*v)
	return &s
}

func decodeDecisionFull(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, decisionColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	support, _, err := p.integer("support_id")
	if err != nil {
		return nil, err
	}
	fs.addInt("support_id", support)

	dt, _, err := p.str("decision_type")
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, invalidf("decision_type is required")
	}
	dtv, err := decisionType(dt)
	if err != nil {
		return nil, err
	}
	fs.addString("decision_type", dtv)

	dd, _, err := p.str("decision_date")
	if err != nil {
		return nil, err
	}
	if dd == nil {
		return nil, invalidf("decision_date is required")
	}
	ddv, err := decisionDate(dd)
	if err != nil {
		return nil, err
	}
	fs.addString("decision_date", ddv)

	pn, _, err := p.str("protocol_number")
	if err != nil {
		return nil, err
	}
	pnv := protocolNumber(pn)
	if pnv == nil {
		return nil, invalidf("protocol_number is required")
	}
	fs.addString("protocol_number", pnv)

	txt, _, err := p.str("decision")
	if err != nil {
		return nil, err
	}
	txtv := decisionText(txt)
	if txtv == nil {
		return nil, invalidf("decision is required")
	}
	fs.addString("decision", txtv)

	return fs.fields, nil
}

func decodeDecisionPatch(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, decisionColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	if v, set, err := p.integer("support_id"); err != nil {
		return nil, err
	} else if set {
		fs.addInt("support_id", v)
	}

	if v, set, err := p.str("decision_type"); err != nil {
		return nil, err
	} else if set {
		dtv, err := decisionType(v)
		if err != nil {
			return nil, err
		}
		fs.addString("decision_type", dtv)
	}

	if v, set, err := p.str("decision_date"); err != nil {
		return nil, err
	} else if set {
		ddv, err := decisionDate(v)
		if err != nil {
			return nil, err
		}
		fs.addString("decision_date", ddv)
	}

	if v, set, err := p.str("protocol_number"); err != nil {
		return nil, err
	} else if set {
		fs.addString("protocol_number", protocolNumber(v))
	}

	if v, set, err := p.str("decision"); err != nil {
		return nil, err
	} else if set {
		fs.addString("decision", decisionText(v))
	}

	return fs.finishPatch()
}
