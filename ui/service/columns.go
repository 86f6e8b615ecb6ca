package service

import (
	"html/template"
	"time"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/datatable"
)

func badgeCell(v any, _ datatable.Record) any {
	text := datatable.Text(v)
	return Badge(text, Tone(text))
}

func textCell(v any, _ datatable.Record) any {
	return template.HTML(template.HTMLEscapeString(datatable.Text(v)))
}

func dateCell(v any, _ datatable.Record) any {
	t, ok := v.(time.Time)
	if !ok || t.IsZero() {
		return template.HTML("-")
	}
	return template.HTML(t.Format("Jan 2, 2006"))
}

// UserColumns returns the column set of the users table.
func UserColumns() []datatable.Column {
	return []datatable.Column{
		{Key: admindash.FieldID, Label: "ID", Render: textCell},
		{Key: admindash.FieldName, Label: "Name", Render: textCell},
		{Key: admindash.FieldEmail, Label: "Email", Render: textCell},
		{Key: admindash.FieldRole, Label: "Role", Render: badgeCell},
		{Key: admindash.FieldStatus, Label: "Status", Render: badgeCell},
		{Key: admindash.FieldRegistrationDate, Label: "Registered", Render: dateCell},
	}
}

// ProductColumns returns the column set of the products table. The
// description column renders sanitized markdown.
func (s *Service[TTx]) ProductColumns() []datatable.Column {
	return []datatable.Column{
		{Key: admindash.FieldID, Label: "ID", Render: textCell},
		{Key: admindash.FieldName, Label: "Name", Render: textCell},
		{Key: admindash.FieldCategory, Label: "Category", Render: textCell},
		{
			Key:         admindash.FieldDescription,
			Label:       "Description",
			NotSortable: true,
			Render: func(v any, _ datatable.Record) any {
				return s.Markdown(datatable.Text(v))
			},
		},
		{
			Key:   admindash.FieldPrice,
			Label: "Price",
			Render: func(v any, _ datatable.Record) any {
				f, _ := v.(float64)
				return template.HTML(template.HTMLEscapeString(FormatMoney(f)))
			},
		},
		{Key: admindash.FieldStock, Label: "Stock", Render: textCell},
		{Key: admindash.FieldStatus, Label: "Status", Render: badgeCell},
	}
}
