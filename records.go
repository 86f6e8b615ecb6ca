package admindash

import "github.com/youssefsiam38/admindash/datatable"

// Record field names of users and products.
const (
	FieldID               = datatable.IDField
	FieldName             = "name"
	FieldEmail            = "email"
	FieldRole             = "role"
	FieldStatus           = "status"
	FieldRegistrationDate = "registration_date"
	FieldCategory         = "category"
	FieldDescription      = "description"
	FieldPrice            = "price"
	FieldStock            = "stock"
)

// UserRecord converts a user into a table record.
func UserRecord(u *User) datatable.Record {
	return datatable.Record{
		FieldID:               u.ID,
		FieldName:             u.Name,
		FieldEmail:            u.Email,
		FieldRole:             datatable.Category(u.Role),
		FieldStatus:           datatable.Category(u.Status),
		FieldRegistrationDate: u.RegistrationDate,
	}
}

// UserRecords converts users into table records.
func UserRecords(users []*User) []datatable.Record {
	out := make([]datatable.Record, len(users))
	for i, u := range users {
		out[i] = UserRecord(u)
	}
	return out
}

// ProductRecord converts a product into a table record.
func ProductRecord(p *Product) datatable.Record {
	return datatable.Record{
		FieldID:          p.ID,
		FieldName:        p.Name,
		FieldCategory:    datatable.Category(p.Category),
		FieldDescription: p.Description,
		FieldPrice:       p.Price,
		FieldStock:       p.Stock,
		FieldStatus:      datatable.Category(p.Status),
	}
}

// ProductRecords converts products into table records.
func ProductRecords(products []*Product) []datatable.Record {
	out := make([]datatable.Record, len(products))
	for i, p := range products {
		out[i] = ProductRecord(p)
	}
	return out
}
