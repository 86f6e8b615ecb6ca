package frontend

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/youssefsiam38/admindash"
)

// formData is the view of the create and edit forms.
type formData struct {
	BasePath string
	Path     string
	Noun     string
	ID       int64
	IsNew    bool
	Values   map[string]string
	Errors   map[string]string
	Options  map[string][]string
	// Query is the table state to return to.
	Query string
}

// Action is the form's submit URL.
func (f formData) Action() string {
	if f.IsNew {
		return f.BasePath + f.Path
	}
	return fmt.Sprintf("%s%s/%d", f.BasePath, f.Path, f.ID)
}

func (rt *router[TTx]) newForm(path, noun string, r *http.Request) formData {
	return formData{
		BasePath: rt.config.BasePath,
		Path:     path,
		Noun:     noun,
		Values:   map[string]string{},
		Errors:   map[string]string{},
		Options: map[string][]string{
			admindash.FieldRole:     admindash.UserRoles,
			admindash.FieldStatus:   admindash.UserStatuses,
			admindash.FieldCategory: admindash.ProductCategories,
		},
		Query: r.URL.Query().Get("back"),
	}
}

// renderForm renders a form page. Validation failures are sent with 422.
func (rt *router[TTx]) renderForm(w http.ResponseWriter, r *http.Request, name string, form formData, status int) {
	title := "Edit " + form.Noun
	if form.IsNew {
		title = "New " + form.Noun
	}
	if err := rt.renderer.renderStatus(w, r, status, name, title, form); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// saveFailed re-renders the form for input errors and reports anything else.
func (rt *router[TTx]) saveFailed(w http.ResponseWriter, r *http.Request, name string, form formData, err error) {
	var verr *admindash.ValidationError
	switch {
	case errors.As(err, &verr):
		form.Errors = verr.Fields
		rt.renderForm(w, r, name, form, http.StatusUnprocessableEntity)
	case errors.Is(err, admindash.ErrPermissionDenied):
		form.Errors = map[string]string{"form": "Your role cannot modify data."}
		rt.renderForm(w, r, name, form, http.StatusForbidden)
	default:
		rt.writeError(w, err)
	}
}

// User forms

func (rt *router[TTx]) handleUserForm(w http.ResponseWriter, r *http.Request) {
	id, exists, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	form := rt.newForm("/users", "user", r)
	form.IsNew = !exists
	if exists {
		user, err := rt.client.GetUser(r.Context(), id)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		form.ID = id
		form.Values = map[string]string{
			admindash.FieldName:   user.Name,
			admindash.FieldEmail:  user.Email,
			admindash.FieldRole:   user.Role,
			admindash.FieldStatus: user.Status,
		}
	} else {
		form.Values[admindash.FieldRole] = admindash.UserRoleViewer
		form.Values[admindash.FieldStatus] = admindash.UserStatusActive
	}
	rt.renderForm(w, r, "user-form.html", form, http.StatusOK)
}

func (rt *router[TTx]) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	id, exists, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	in := admindash.UserInput{
		Name:   r.FormValue(admindash.FieldName),
		Email:  r.FormValue(admindash.FieldEmail),
		Role:   r.FormValue(admindash.FieldRole),
		Status: r.FormValue(admindash.FieldStatus),
	}

	form := rt.newForm("/users", "user", r)
	form.ID, form.IsNew = id, !exists
	for _, key := range []string{admindash.FieldName, admindash.FieldEmail, admindash.FieldRole, admindash.FieldStatus} {
		form.Values[key] = r.FormValue(key)
	}

	flash := "created"
	if exists {
		_, err = rt.client.UpdateUser(r.Context(), id, in)
		flash = "updated"
	} else {
		_, err = rt.client.CreateUser(r.Context(), in)
	}
	if err != nil {
		rt.saveFailed(w, r, "user-form.html", form, err)
		return
	}
	rt.redirect(w, r, "/users", flash)
}

func (rt *router[TTx]) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if err := rt.client.DeleteUser(r.Context(), id); err != nil {
		rt.writeError(w, err)
		return
	}
	if isFragmentRequest(r) {
		rt.handleUsers(w, r)
		return
	}
	rt.redirect(w, r, "/users", "deleted")
}

// Product forms

func (rt *router[TTx]) handleProductForm(w http.ResponseWriter, r *http.Request) {
	id, exists, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	form := rt.newForm("/products", "product", r)
	form.IsNew = !exists
	if exists {
		product, err := rt.client.GetProduct(r.Context(), id)
		if err != nil {
			rt.writeError(w, err)
			return
		}
		form.ID = id
		form.Values = map[string]string{
			admindash.FieldName:        product.Name,
			admindash.FieldCategory:    product.Category,
			admindash.FieldDescription: product.Description,
			admindash.FieldPrice:       strconv.FormatFloat(product.Price, 'f', 2, 64),
			admindash.FieldStock:       strconv.Itoa(product.Stock),
		}
	} else {
		form.Values[admindash.FieldCategory] = admindash.ProductCategories[0]
	}
	rt.renderForm(w, r, "product-form.html", form, http.StatusOK)
}

func (rt *router[TTx]) handleSaveProduct(w http.ResponseWriter, r *http.Request) {
	id, exists, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := rt.newForm("/products", "product", r)
	form.ID, form.IsNew = id, !exists
	for _, key := range []string{admindash.FieldName, admindash.FieldCategory, admindash.FieldDescription, admindash.FieldPrice, admindash.FieldStock} {
		form.Values[key] = r.FormValue(key)
	}

	in := admindash.ProductInput{
		Name:        r.FormValue(admindash.FieldName),
		Category:    r.FormValue(admindash.FieldCategory),
		Description: r.FormValue(admindash.FieldDescription),
	}
	if s := strings.TrimSpace(r.FormValue(admindash.FieldPrice)); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			form.Errors[admindash.FieldPrice] = "must be a number"
		}
		in.Price = &price
	}
	if s := strings.TrimSpace(r.FormValue(admindash.FieldStock)); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil {
			form.Errors[admindash.FieldStock] = "must be a whole number"
		}
		in.Stock = &stock
	}
	if len(form.Errors) > 0 {
		rt.renderForm(w, r, "product-form.html", form, http.StatusUnprocessableEntity)
		return
	}

	flash := "created"
	if exists {
		_, err = rt.client.UpdateProduct(r.Context(), id, in)
		flash = "updated"
	} else {
		_, err = rt.client.CreateProduct(r.Context(), in)
	}
	if err != nil {
		rt.saveFailed(w, r, "product-form.html", form, err)
		return
	}
	rt.redirect(w, r, "/products", flash)
}

func (rt *router[TTx]) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	if err := rt.client.DeleteProduct(r.Context(), id); err != nil {
		rt.writeError(w, err)
		return
	}
	if isFragmentRequest(r) {
		rt.handleProducts(w, r)
		return
	}
	rt.redirect(w, r, "/products", "deleted")
}
