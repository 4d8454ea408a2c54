package domain

import (
	"github.com/roach88/investcrm/internal/resource"
)

var addressColumns = []string{"district_id", "city_id", "post_code", "address"}

// Addresses defines the /addresses collection. district_id and city_id are
// references into the dictionary tables and stay out of bulk writes.
func Addresses() Definition {
	return Definition{
		Collection:  "addresses",
		Table:       "address",
		Columns:     addressColumns,
		RefColumns:  []string{"district_id", "city_id"},
		DecodeFull:  decodeAddressFull,
		DecodePatch: decodeAddressPatch,
	}
}

func addressPostCode(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if !validPostCode(*v) {
		return nil, invalidf("post_code %q must be six digits", *v)
	}
	return v, nil
}

// addressLine title-cases the street line; empty collapses to null.
func addressLine(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	t := titleCase(*v)
	return &t
}

func decodeAddressFull(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, addressColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"district_id", "city_id"} {
		v, _, err := p.integer(key)
		if err != nil {
			return nil, err
		}
		fs.addInt(key, v)
	}

	post, _, err := p.str("post_code")
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, invalidf("post_code is required")
	}
	pc, err := addressPostCode(post)
	if err != nil {
		return nil, err
	}
	fs.addString("post_code", pc)

	line, _, err := p.str("address")
	if err != nil {
		return nil, err
	}
	al := addressLine(line)
	if al == nil {
		return nil, invalidf("address is required")
	}
	fs.addString("address", al)

	return fs.fields, nil
}

func decodeAddressPatch(body []byte) (resource.Fields, error) {
	p, err := parsePayload(body, addressColumns)
	if err != nil {
		return nil, err
	}

	var fs fieldSet
	for _, key := range []string{"district_id", "city_id"} {
		if v, set, err := p.integer(key); err != nil {
			return nil, err
		} else if set {
			fs.addInt(key, v)
		}
	}

	if v, set, err := p.str("post_code"); err != nil {
		return nil, err
	} else if set {
		pc, err := addressPostCode(v)
		if err != nil {
			return nil, err
		}
		fs.addString("post_code", pc)
	}

	if v, set, err := p.str("address"); err != nil {
		return nil, err
	} else if set {
		fs.addString("address", addressLine(v))
	}

	return fs.finishPatch()
}
