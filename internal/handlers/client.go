package handlers

import (
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/httpx"
	"github.com/diewo77/go-quotes/internal/models"
	"github.com/diewo77/go-quotes/validation"
)

type ClientHandler struct {
	db   *gorm.DB
	log  *zap.Logger
	opts ListOptions
}

func NewClientHandler(db *gorm.DB, log *zap.Logger, opts ListOptions) *ClientHandler {
	return &ClientHandler{db: db, log: log, opts: opts}
}

type clientInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	VATNumber   string `json:"vat_number"`
}

func (in clientInput) apply(c *models.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = in.Phone
	c.CompanyName = strings.TrimSpace(in.CompanyName)
	c.Address = in.Address
	c.City = in.City
	c.PostalCode = in.PostalCode
	c.Country = in.Country
	c.VATNumber = strings.ToUpper(strings.ReplaceAll(in.VATNumber, " ", ""))
}

func validateClient(c *models.Client) validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", c.Name, v)
	validation.Email("email", c.Email, v)
	return v
}

// clientResponse adds the formatted postal address to a client.
type clientResponse struct {
	*models.Client
	FullAddress string `json:"full_address,omitempty"`
}

func newClientResponse(c *models.Client) clientResponse {
	return clientResponse{Client: c, FullAddress: c.FullAddress()}
}

func (h *ClientHandler) all(r *http.Request) ([]models.Client, error) {
	var clients []models.Client
	err := h.db.WithContext(r.Context()).Order("name, id").Find(&clients).Error
	return clients, err
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.all(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeList(w, r, h.opts, clients, models.ClientSearchFields)
}

func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	clients, err := h.all(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeView(w, r, h.opts, clients, models.ClientSearchFields)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in clientInput
	if !decodeBody(w, r, &in) {
		return
	}
	var c models.Client
	in.apply(&c)
	if v := validateClient(&c); !v.Empty() {
		writeViolations(w, r, v)
		return
	}
	if err := h.db.WithContext(r.Context()).Create(&c).Error; err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newClientResponse(&c))
}

func (h *ClientHandler) find(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	var c models.Client
	if err := h.db.WithContext(r.Context()).First(&c, id).Error; err != nil {
		writeError(w, r, h.log, err)
		return nil, false
	}
	return &c, true
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.find(w, r); ok {
		httpx.JSON(w, http.StatusOK, newClientResponse(c))
	}
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r)
	if !ok {
		return
	}
	var in clientInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.apply(c)
	if v := validateClient(c); !v.Empty() {
		writeViolations(w, r, v)
		return
	}
	if err := h.db.WithContext(r.Context()).Save(c).Error; err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newClientResponse(c))
}

// deleteClients removes clients that have no quotation. It returns the ids
// left in place because they are still referenced.
func (h *ClientHandler) deleteClients(r *http.Request, ids []uint) (deleted int64, inUse []uint, err error) {
	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Quotation{}).Distinct("client_id").Where("client_id IN ?", ids).Pluck("client_id", &inUse).Error; err != nil {
			return err
		}
		free := make([]uint, 0, len(ids))
		for _, id := range ids {
			if !slices.Contains(inUse, id) {
				free = append(free, id)
			}
		}
		if len(free) == 0 {
			return nil
		}
		res := tx.Where("id IN ?", free).Delete(&models.Client{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, inUse, err
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, inUse, err := h.deleteClients(r, []uint{id})
	switch {
	case err != nil:
		writeError(w, r, h.log, err)
	case len(inUse) > 0:
		httpx.Error(w, r, http.StatusConflict, "client_in_use", nil)
	case n == 0:
		writeError(w, r, h.log, gorm.ErrRecordNotFound)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *ClientHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkDelete(w, r)
	if !ok {
		return
	}
	n, inUse, err := h.deleteClients(r, ids)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if inUse == nil {
		inUse = []uint{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": n, "in_use": inUse})
}
