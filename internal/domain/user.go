package domain

import (
	"strings"

	"github.com/roach88/investcrm/internal/resource"
)

// RoleCodes are the user roles the system knows about.
var RoleCodes = []string{"ADMIN", "PROJECT_EDITOR", "PROJECT_VIEWER", "REPORT_EXPORTER_ALL"}

var userColumns = []string{"last_name", "first_name", "middle_name", "email", "role_code"}

// Users defines the /users collection over the "user" table.
func Users() Definition {
	return Definition{
		Collection:  "users",
		Table:       "user",
		Columns:     userColumns,
		DecodeFull:  decodeUserFull,
		DecodePatch: decodeUserPatch,
	}
}

// personName coerces empty strings to null and title-cases the rest.
func personName(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	t := titleCase(*v)
	return &t
}

func userEmail(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	e := strings.ToLower(*v)
	if !validEmail(e) {
		return nil, invalidf("email %q is not a valid address", *v)
	}
	return &e, nil
}

func userRole(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !inSet(*v, RoleCodes) {
		return nil, invalidf("role_code %q is not one of %v", *v, RoleCodes)
	}
	return v, nil
}

func decodeUserFull(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, userColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"last_name", "first_name"} {
		v, _, err := p.str(key)
		if err != nil {
			return nil, err
		}
		if name := personName(v); name != nil {
			fs.addString(key, name)
		} else {
			return nil, invalidf("%s is required", key)
		}
	}

	middle, _, err := p.str("middle_name")
	if err != nil {
		return nil, err
	}
	fs.addString("middle_name", personName(middle))

	email, _, err := p.str("email")
	if err != nil {
		return nil, err
	}
	if email == nil {
		return nil, invalidf("email is required")
	}
	e, err := userEmail(email)
	if err != nil {
		return nil, err
	}
	fs.addString("email", e)

	role, _, err := p.str("role_code")
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, invalidf("role_code is required")
	}
	r, err := userRole(role)
	if err != nil {
		return nil, err
	}
	fs.addString("role_code", r)

	return fs.fields, nil
}

func decodeUserPatch(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, userColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"last_name", "first_name", "middle_name"} {
		if v, set, err := p.str(key); err != nil {
			return nil, err
		} else if set {
			fs.addString(key, personName(v))
		}
	}

	if v, set, err := p.str("email"); err != nil {
		return nil, err
	} else if set {
		e, err := userEmail(v)
		if err != nil {
			return nil, err
		}
		fs.addString("email", e)
	}

	if v, set, err := p.str("role_code"); err != nil {
		return nil, err
	} else if set {
		r, err := userRole(v)
		if err != nil {
			return nil, err
		}
		fs.addString("role_code", r)
	}

	return fs.finishPatch()
}
