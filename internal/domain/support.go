package domain

import (
	"github.com/roach88/investcrm/internal/resource"
)

// SupportTypes enumerates the kinds of state support a project can receive.
var SupportTypes = []string{"FINANCE", "CREDIT", "EARTH", "EQUIP", "TECH"}

// UnitTypes enumerates the measurement units for support amounts.
var UnitTypes = []string{"RUB", "PIECES", "METERS", "METERS_CUBIC", "METERS_SQUARE", "HECTARES"}

var supportColumns = []string{
	"project_id", "support_programm_id", "support_org_id",
	"date_start", "date_end", "type_code", "amount", "unit", "desc",
}

// Supports defines the /supports collection.
func Supports() Definition {
	return Definition{
		Collection:  "supports",
		Table:       "support",
		Columns:     supportColumns,
		RefColumns:  []string{"project_id", "support_programm_id", "support_org_id"},
		DecodeFull:  decodeSupportFull,
		DecodePatch: decodeSupportPatch,
	}
}

func supportDate(key string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !validDate(*v) {
		return nil, invalidf("%s %q is not a YYYY-MM-DD date", key, *v)
	}
	return v, nil
}

func supportType(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !inSet(*v, SupportTypes) {
		return nil, invalidf("type_code %q is not one of %v", *v, SupportTypes)
	}
	return v, nil
}

func supportUnit(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !inSet(*v, UnitTypes) {
		return nil, invalidf("unit %q is not one of %v", *v, UnitTypes)
	}
	return v, nil
}

// supportDesc sentence-cases the description; empty collapses to null.
func supportDesc(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := sentenceCase(*v)
	return &s
}

func decodeSupportFull(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, supportColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"project_id", "support_programm_id", "support_org_id"} {
		v, _, err := p.integer(key)
		if err != nil {
			return nil, err
		}
		fs.addInt(key, v)
	}

	start, _, err := p.str("date_start")
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, invalidf("date_start is required")
	}
	sv, err := supportDate("date_start", start)
	if err != nil {
		return nil, err
	}
	fs.addString("date_start", sv)

	end, _, err := p.str("date_end")
	if err != nil {
		return nil, err
	}
	ev, err := supportDate("date_end", end)
	if err != nil {
		return nil, err
	}
	fs.addString("date_end", ev)

	tc, _, err := p.str("type_code")
	if err != nil {
		return nil, err
	}
	if tc == nil {
		return nil, invalidf("type_code is required")
	}
	tv, err := supportType(tc)
	if err != nil {
		return nil, err
	}
	fs.addString("type_code", tv)

	amount, _, err := p.number("amount")
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return nil, invalidf("amount is required")
	}
	fs.addFloat("amount", amount)

	unit, _, err := p.str("unit")
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, invalidf("unit is required")
	}
	uv, err := supportUnit(unit)
	if err != nil {
		return nil, err
	}
	fs.addString("unit", uv)

	desc, _, err := p.str("desc")
	if err != nil {
		return nil, err
	}
	fs.addString("desc", supportDesc(desc))

	return fs.fields, nil
}

func decodeSupportPatch(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, supportColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"project_id", "support_programm_id", "support_org_id"} {
		if v, set, err := p.integer(key); err != nil {
			return nil, err
		} else if set {
			fs.addInt(key, v)
		}
	}

	for _, key := range []string{"date_start", "date_end"} {
		if v, set, err := p.str(key); err != nil {
			return nil, err
		} else if set {
			dv, err := supportDate(key, v)
			if err != nil {
				return nil, err
			}
			fs.addString(key, dv)
		}
	}

	if v, set, err := p.str("type_code"); err != nil {
		return nil, err
	} else if set {
		tv, err := supportType(v)
		if err != nil {
			return nil, err
		}
		fs.addString("type_code", tv)
	}

	if v, set, err := p.number("amount"); err != nil {
		return nil, err
	} else if set {
		fs.addFloat("amount", v)
	}

	if v, set, err := p.str("unit"); err != nil {
		return nil, err
	} else if set {
		uv, err := supportUnit(v)
		if err != nil {
			return nil, err
		}
		fs.addString("unit", uv)
	}

	if v, set, err := p.str("desc"); err != nil {
		return nil, err
	} else if set {
		fs.addString("desc", supportDesc(v))
	}

	return fs.finishPatch()
}
