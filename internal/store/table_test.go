package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/investcrm/internal/resource"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func addressTable(s *Store) *Table {
	return NewTable(s, "address", []string{"district_id", "city_id", "post_code", "address"})
}

func addressFields(postCode, addr string) resource.Fields {
	return resource.Fields{
		{Column: "district_id", Value: nil},
		{Column: "city_id", Value: nil},
		{Column: "post_code", Value: postCode},
		{Column: "address", Value: addr},
	}
}

func TestTable_InsertAssignsID(t *testing.T) {
	tbl := addressTable(openTestStore(t))
	ctx := context.Background()

	first, err := tbl.Insert(ctx, addressFields("693000", "Lenina 1"))
	require.NoError(t, err)
	second, err := tbl.Insert(ctx, addressFields("694000", "Mira 7"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID())
	assert.Equal(t, int64(2), second.ID())
	assert.Equal(t, "Lenina 1", first["address"])
	assert.Nil(t, first["district_id"])
}

func TestTable_InsertWithID(t *testing.T) {
	tbl := addressTable(openTestStore(t))
	ctx := context.Background()

	row, err := tbl.InsertWithID(ctx, 5, addressFields("693000", "Lenina 1"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), row.ID())

	// The store keeps assigning fresh ids past an explicit one.
	next, err := tbl.Insert(ctx, addressFields("694000", "Mira 7"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), next.ID())
}

func TestTable_InsertWithID_DuplicateFails(t *testing.T) {
	tbl := addressTable(openTestStore(t))
	ctx := context.Background()

	_, err := tbl.InsertWithID(ctx, 5, addressFields("693000", "Lenina 1"))
	require.NoError(t, err)

	_, err = tbl.InsertWithID(ctx, 5, addressFields("694000", "Mira 7"))
	assert.Error(t, err, "primary key constraint must reject duplicate id")
}

func TestTable_SelectByID_NotFound(t *testing.T) {
	tbl := addressTable(openTestStore(t))

	_, err := tbl.SelectByID(context.Background(), 99)
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestTable_SelectAll_EmptyIsNotNil(t *testing.T) {
	tbl := addressTable(openTestStore(t))

	rows, err := tbl.SelectAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestTable_UpdateByID_PartialColumns(t *testing.T) {
	tbl := addressTable(openTestStore(t))
	ctx := context.Background()

	row, err := tbl.Insert(ctx, addressFields("693000", "Lenina 1"))
	require.NoError(t, err)

	updated, err := tbl.UpdateByID(ctx, row.ID(), resource.Fields{
		{Column: "address", Value: "Lenina 2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lenina 2", updated["address"])
	assert.Equal(t, "693000", updated["post_code"], "untouched column must survive")
}

func TestTable_UpdateByID_NotFound(t *testing.T) {
	tbl := addressTable(openTestStore(t))

	_, err := tbl.UpdateByID(context.Background(), 99, resource.Fields{
		{Column: "address", Value: "x"},
	})
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestTable_UpdateAll(t *testing.T) {
	tbl := addressTable(openTestStore(t))
	ctx := context.Background()

	for _, a := range []string{"Lenina 1", "Mira 7", "Pobedy 10"} {
		_, err := tbl.Insert(ctx, addressFields("693000", a))
		require.NoError(t, err)
	}

	require.NoError(t, tbl.UpdateAll(ctx, resource.Fields{
		{Column: "post_code", Value: "694000"},
	}))

	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "694000", row["post_code"])
	}
}

func TestTable_DeleteByID_And_DeleteAll(t *testing.T) {
	tbl := addressTable(openTestStore(t))
	ctx := context.Background()

	row, err := tbl.Insert(ctx, addressFields("693000", "Lenina 1"))
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, addressFields("694000", "Mira 7"))
	require.NoError(t, err)

	require.NoError(t, tbl.DeleteByID(ctx, row.ID()))
	_, err = tbl.SelectByID(ctx, row.ID())
	assert.ErrorIs(t, err, resource.ErrNotFound)

	// Deleting an absent id is not an error at this layer.
	require.NoError(t, tbl.DeleteByID(ctx, 99))

	require.NoError(t, tbl.DeleteAll(ctx))
	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestTable_KeywordIdentifiersQuoted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	users := NewTable(s, "user", []string{"last_name", "first_name", "middle_name", "email", "role_code"})
	row, err := users.Insert(ctx, resource.Fields{
		{Column: "last_name", Value: "Ivanov"},
		{Column: "first_name", Value: "Ivan"},
		{Column: "middle_name", Value: nil},
		{Column: "email", Value: "ivanov@example.com"},
		{Column: "role_code", Value: "ADMIN"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ivanov", row["last_name"])

	supports := NewTable(s, "support", []string{
		"project_id", "support_programm_id", "support_org_id",
		"date_start", "date_end", "type_code", "amount", "unit", "desc",
	})
	srow, err := supports.Insert(ctx, resource.Fields{
		{Column: "project_id", Value: nil},
		{Column: "support_programm_id", Value: nil},
		{Column: "support_org_id", Value: nil},
		{Column: "date_start", Value: "2023-01-10"},
		{Column: "date_end", Value: nil},
		{Column: "type_code", Value: "FINANCE"},
		{Column: "amount", Value: float64(100000)},
		{Column: "unit", Value: "RUB"},
		{Column: "desc", Value: "Grant"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2023-01-10", srow["date_start"])
}

func TestTable_EnumCheckConstraint(t *testing.T) {
	s := openTestStore(t)
	users := NewTable(s, "user", []string{"last_name", "first_name", "middle_name", "email", "role_code"})

	_, err := users.Insert(context.Background(), resource.Fields{
		{Column: "last_name", Value: "Ivanov"},
		{Column: "first_name", Value: "Ivan"},
		{Column: "middle_name", Value: nil},
		{Column: "email", Value: "ivanov@example.com"},
		{Column: "role_code", Value: "NOT_A_ROLE"},
	})
	assert.Error(t, err, "CHECK constraint must reject unknown enum values")
}

func TestTable_ForeignKeyEnforced(t *testing.T) {
	s := openTestStore(t)
	addresses := addressTable(s)

	_, err := addresses.Insert(context.Background(), resource.Fields{
		{Column: "district_id", Value: int64(12345)},
		{Column: "city_id", Value: nil},
		{Column: "post_code", Value: "693000"},
		{Column: "address", Value: "Lenina 1"},
	})
	assert.Error(t, err, "foreign keys are the store's responsibility and must be on")
}
