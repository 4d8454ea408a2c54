package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/investcrm/internal/resource"
)

func fieldValue(t *testing.T, fields resource.Fields, column string) any {
	t.Helper()
	v, ok := fields.Get(column)
	require.True(t, ok, "column %q missing from decoded fields", column)
	return v
}

func TestDecodeUserFull_Normalizes(t *testing.T) {
	body := []byte(`{
		"last_name": "  ivanov ",
		"first_name": "ivan",
		"middle_name": "",
		"email": "Ivan.Ivanov@Example.COM",
		"role_code": "ADMIN"
	}`)

	fields, err := Users().DecodeFull(body)
	require.NoError(t, err)

	assert.Equal(t, "Ivanov", fieldValue(t, fields, "last_name"))
	assert.Equal(t, "Ivan", fieldValue(t, fields, "first_name"))
	assert.Nil(t, fieldValue(t, fields, "middle_name"), "empty string coerces to null")
	assert.Equal(t, "ivan.ivanov@example.com", fieldValue(t, fields, "email"))
	assert.Equal(t, "ADMIN", fieldValue(t, fields, "role_code"))

	// Full decode always emits every column, in schema order.
	assert.Equal(t, userColumns, fields.Columns())
}

func TestDecodeUserFull_Rejections(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing last_name", `{"first_name":"ivan","email":"a@b.ru","role_code":"ADMIN"}`},
		{"bad email", `{"last_name":"ivanov","first_name":"ivan","email":"not-an-email","role_code":"ADMIN"}`},
		{"unknown role", `{"last_name":"ivanov","first_name":"ivan","email":"a@b.ru","role_code":"SUPERUSER"}`},
		{"unknown field", `{"last_name":"ivanov","first_name":"ivan","email":"a@b.ru","role_code":"ADMIN","nickname":"vanya"}`},
		{"wrong type", `{"last_name":7,"first_name":"ivan","email":"a@b.ru","role_code":"ADMIN"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Users().DecodeFull([]byte(tc.body))
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestDecodeUserPatch_OnlyPresentKeys(t *testing.T) {
	fields, err := Users().DecodePatch([]byte(`{"email":"NEW@Example.com"}`))
	require.NoError(t, err)

	require.Len(t, fields, 1)
	assert.Equal(t, "new@example.com", fieldValue(t, fields, "email"))
}

func TestDecodeUserPatch_ExplicitNullIsWritten(t *testing.T) {
	fields, err := Users().DecodePatch([]byte(`{"middle_name":null,"email":"a@b.ru"}`))
	require.NoError(t, err)

	require.Len(t, fields, 2)
	assert.Nil(t, fieldValue(t, fields, "middle_name"))
}

func TestDecodePatch_EmptyIntentRejected(t *testing.T) {
	for _, body := range []string{`{}`, `{"middle_name":null}`} {
		_, err := Users().DecodePatch([]byte(body))
		assert.ErrorIs(t, err, ErrValidation, "body %s", body)
	}
}

func TestDecodeAddress_PostCodePattern(t *testing.T) {
	good := []byte(`{"post_code":"693000","address":"lenina 1"}`)
	fields, err := Addresses().DecodeFull(good)
	require.NoError(t, err)
	assert.Equal(t, "693000", fieldValue(t, fields, "post_code"))
	assert.Equal(t, "Lenina 1", fieldValue(t, fields, "address"), "address is title-cased")
	assert.Nil(t, fieldValue(t, fields, "district_id"))

	for _, pc := range []string{"12345", "1234567", "69300a", ""} {
		_, err := Addresses().DecodeFull([]byte(`{"post_code":"` + pc + `","address":"Lenina 1"}`))
		assert.ErrorIs(t, err, ErrValidation, "post_code %q", pc)
	}
}

func TestDecodeDecision_Normalizes(t *testing.T) {
	body := []byte(`{
		"decision_type": "EG",
		"decision_date": "2023-05-12",
		"protocol_number": "pr-17",
		"decision": "APPROVED by the commission"
	}`)

	fields, err := Decisions().DecodeFull(body)
	require.NoError(t, err)

	assert.Equal(t, "PR-17", fieldValue(t, fields, "protocol_number"), "protocol number is upper-cased")
	assert.Equal(t, "Approved by the commission", fieldValue(t, fields, "decision"), "decision text is sentence-cased")
	assert.Nil(t, fieldValue(t, fields, "support_id"))
}

func TestDecodeDecision_BadDate(t *testing.T) {
	body := []byte(`{"decision_type":"EG","decision_date":"12.05.2023","protocol_number":"x","decision":"y"}`)
	_, err := Decisions().DecodeFull(body)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecodeProject_AmountsAndState(t *testing.T) {
	body := []byte(`{
		"name": "fish farm",
		"application_own_amount": 100000.5,
		"application_support_amount": 3000000,
		"work_place_count": 12,
		"nalog_amount": 40000,
		"description": "COASTAL aquaculture",
		"state": "APPLICANTION_SHORT"
	}`)

	fields, err := Projects().DecodeFull(body)
	require.NoError(t, err)

	assert.Equal(t, "Fish Farm", fieldValue(t, fields, "name"))
	assert.Equal(t, 100000.5, fieldValue(t, fields, "application_own_amount"))
	assert.Equal(t, int64(12), fieldValue(t, fields, "work_place_count"))
	assert.Equal(t, "Coastal aquaculture", fieldValue(t, fields, "description"))

	_, err = Projects().DecodePatch([]byte(`{"application_own_amount":-1}`))
	assert.ErrorIs(t, err, ErrValidation, "negative amounts are rejected")

	_, err = Projects().DecodePatch([]byte(`{"work_place_count":1.5}`))
	assert.ErrorIs(t, err, ErrValidation, "fractional counts are rejected")

	_, err = Projects().DecodePatch([]byte(`{"state":"UNKNOWN"}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecodeSupport_Full(t *testing.T) {
	body := []byte(`{
		"project_id": null,
		"date_start": "2023-01-10",
		"type_code": "FINANCE",
		"amount": 500000,
		"unit": "RUB",
		"desc": "ONE-TIME grant"
	}`)

	fields, err := Supports().DecodeFull(body)
	require.NoError(t, err)

	assert.Equal(t, "2023-01-10", fieldValue(t, fields, "date_start"))
	assert.Nil(t, fieldValue(t, fields, "date_end"))
	assert.Equal(t, "One-time grant", fieldValue(t, fields, "desc"))

	_, err = Supports().DecodeFull([]byte(`{"date_start":"2023-01-10","type_code":"FINANCE","amount":1,"unit":"BARRELS"}`))
	assert.ErrorIs(t, err, ErrValidation, "unknown unit")
}

func TestDefinitions_CoverAllKinds(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 5)

	collections := make([]string, len(defs))
	for i, d := range defs {
		collections[i] = d.Collection
		assert.NotEmpty(t, d.Table)
		assert.NotEmpty(t, d.Columns)
		require.NotNil(t, d.DecodeFull)
		require.NotNil(t, d.DecodePatch)

		// Every reference column must be a real column.
		for _, ref := range d.RefColumns {
			assert.Contains(t, d.Columns, ref)
		}
	}
	assert.ElementsMatch(t, []string{"users", "addresses", "decisions", "projects", "supports"}, collections)
}

func TestSentenceCase(t *testing.T) {
	assert.Equal(t, "Approved by all", sentenceCase("APPROVED BY ALL"))
	assert.Equal(t, "X", sentenceCase("x"))
	assert.Equal(t, "", sentenceCase(""))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Lenina 1", titleCase("lenina 1"))
	assert.Equal(t, "Fish Farm", titleCase("fish FARM"))
}
