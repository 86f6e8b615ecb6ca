package admindash

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash/datatable"
)

func TestRecords(t *testing.T) {
	u := &User{ID: 3, Name: "Jane Smith", Email: "jane@example.com", Role: UserRoleEditor, Status: UserStatusActive,
		RegistrationDate: time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC)}
	rec := UserRecord(u)
	assert.Equal(t, int64(3), rec.ID())
	assert.Equal(t, datatable.Category(UserRoleEditor), rec[FieldRole])
	assert.Equal(t, "2023-05-02", datatable.Text(rec[FieldRegistrationDate]))

	products := ProductRecords([]*Product{
		{ID: 1, Name: "Tablet", Category: CategoryMobile, Price: 299.5, Stock: 4, Status: StockLow},
		{ID: 2, Name: "Mouse Pad", Category: CategoryAccessories, Price: 9, Stock: 90, Status: StockIn},
	})
	require.Len(t, products, 2)

	view, err := datatable.Render(products, []datatable.Column{
		{Key: FieldName, Label: "Name"},
		{Key: FieldPrice, Label: "Price"},
	}, datatable.ViewState{CurrentPage: 1, Sort: datatable.SortState{Key: FieldPrice}}, datatable.Options{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, int64(2), view.Rows[0].Record.ID())

	assert.Len(t, UserRecords([]*User{u, u}), 2)
}
