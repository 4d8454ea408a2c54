package domain

import (
	"github.com/roach88/investcrm/internal/resource"
)

// ProjectStates enumerates the project lifecycle states. The spellings
// (APPLICANTION_*, COMISSION) match the database enum and are kept as-is.
var ProjectStates = []string{
	"APPLICANTION_SHORT",
	"APPLICANTION_FULL",
	"DELETED",
	"ENDED",
	"FREEZE",
	"ARCHIVE",
	"PROJECT_IN_COMISSION",
	"PROJECT_ON_SUPPORT",
}

var projectColumns = []string{
	"owner_id", "address_id", "industry_id", "name",
	"application_own_amount", "application_support_amount",
	"work_place_count", "nalog_amount", "description", "state",
}

// Projects defines the /projects collection.
func Projects() Definition {
	return Definition{
		Collection:  "projects",
		Table:       "project",
		Columns:     projectColumns,
		RefColumns:  []string{"owner_id", "address_id", "industry_id"},
		DecodeFull:  decodeProjectFull,
		DecodePatch: decodeProjectPatch,
	}
}

func projectName(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	t := titleCase(*v)
	return &t
}

// projectDescription sentence-cases the free text; empty collapses to null.
func projectDescription(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := sentenceCase(*v)
	return &s
}

func projectState(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !inSet(*v, ProjectStates) {
		return nil, invalidf("state %q is not one of %v", *v, ProjectStates)
	}
	return v, nil
}

func nonNegativeFloat(key string, v *float64) (*float64, error) {
	if v != nil && *v < 0 {
		return nil, invalidf("%s must not be negative", key)
	}
	return v, nil
}

func nonNegativeInt(key string, v *int64) (*int64, error) {
	if v != nil && *v < 0 {
		return nil, invalidf("%s must not be negative", key)
	}
	return v, nil
}

func decodeProjectFull(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, projectColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"owner_id", "address_id", "industry_id"} {
		v, _, err := p.integer(key)
		if err != nil {
			return nil, err
		}
		fs.addInt(key, v)
	}

	name, _, err := p.str("name")
	if err != nil {
		return nil, err
	}
	nv := projectName(name)
	if nv == nil {
		return nil, invalidf("name is required")
	}
	fs.addString("name", nv)

	for _, key := range []string{"application_own_amount", "application_support_amount"} {
		v, _, err := p.number(key)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, invalidf("%s is required", key)
		}
		fv, err := nonNegativeFloat(key, v)
		if err != nil {
			return nil, err
		}
		fs.addFloat(key, fv)
	}

	for _, key := range []string{"work_place_count", "nalog_amount"} {
		v, _, err := p.integer(key)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, invalidf("%s is required", key)
		}
		iv, err := nonNegativeInt(key, v)
		if err != nil {
			return nil, err
		}
		fs.addInt(key, iv)
	}

	desc, _, err := p.str("description")
	if err != nil {
		return nil, err
	}
	fs.addString("description", projectDescription(desc))

	state, _, err := p.str("state")
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, invalidf("state is required")
	}
	sv, err := projectState(state)
	if err != nil {
		return nil, err
	}
	fs.addString("state", sv)

	return fs.fields, nil
}

func decodeProjectPatch(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, projectColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"owner_id", "address_id", "industry_id"} {
		if v, set, err := p.integer(key); err != nil {
			return nil, err
		} else if set {
			fs.addInt(key, v)
		}
	}

	if v, set, err := p.str("name"); err != nil {
		return nil, err
	} else if set {
		fs.addString("name", projectName(v))
	}

	for _, key := range []string{"application_own_amount", "application_support_amount"} {
		if v, set, err := p.number(key); err != nil {
			return nil, err
		} else if set {
			fv, err := nonNegativeFloat(key, v)
			if err != nil {
				return nil, err
			}
			fs.addFloat(key, fv)
		}
	}

	for _, key := range []string{"work_place_count", "nalog_amount"} {
		if v, set, err := p.integer(key); err != nil {
			return nil, err
		} else if set {
			iv, err := nonNegativeInt(key, v)
			if err != nil {
				return nil, err
			}
			fs.addInt(key, iv)
		}
	}

	if v, set, err := p.str("description"); err != nil {
		return nil, err
	} else if set {
		fs.addString("description", projectDescription(v))
	}

	if v, set, err := p.str("state"); err != nil {
		return nil, err
	} else if set {
		sv, err := projectState(v)
		if err != nil {
			return nil, err
		}
		fs.addString("state", sv)
	}

	return fs.finishPatch()
}
