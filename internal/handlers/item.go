package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/httpx"
	"github.com/diewo77/go-quotes/internal/models"
	"github.com/diewo77/go-quotes/quotetotals"
	"github.com/diewo77/go-quotes/validation"
)

type ItemHandler struct {
	db   *gorm.DB
	log  *zap.Logger
	opts ListOptions
}

func NewItemHandler(db *gorm.DB, log *zap.Logger, opts ListOptions) *ItemHandler {
	return &ItemHandler{db: db, log: log, opts: opts}
}

type itemInput struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	UnitCost    quotetotals.Amount `json:"unit_cost"`
	Unit        string             `json:"unit"`
	Category    string             `json:"category"`
	IsActive    *bool              `json:"is_active"`
}

func (in itemInput) apply(it *models.Item) {
	it.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	it.Name = strings.TrimSpace(in.Name)
	it.Description = in.Description
	it.UnitCost = in.UnitCost.Decimal
	it.Unit = in.Unit
	it.Category = in.Category
	it.IsActive = in.IsActive == nil || *in.IsActive
}

func (h *ItemHandler) validate(it *models.Item) validation.Violations {
	v := make(validation.Violations)
	validation.Required("code", it.Code, v)
	validation.Required("name", it.Name, v)
	validation.PositiveDecimal("unit_cost", it.UnitCost, v)
	if _, taken := v["code"]; !taken && it.Code != "" {
		var n int64
		h.db.Model(&models.Item{}).Where("code = ? AND id <> ?", it.Code, it.ID).Count(&n)
		if n > 0 {
			v["code"] = "code_already_exists"
		}
	}
	return v
}

func (h *ItemHandler) all(r *http.Request) ([]models.Item, error) {
	var items []models.Item
	err := h.db.WithContext(r.Context()).Order("name, id").Find(&items).Error
	return items, err
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.all(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeList(w, r, h.opts, items, models.ItemSearchFields)
}

func (h *ItemHandler) View(w http.ResponseWriter, r *http.Request) {
	items, err := h.all(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeView(w, r, h.opts, items, models.ItemSearchFields)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in itemInput
	if !decodeBody(w, r, &in) {
		return
	}
	var it models.Item
	in.apply(&it)
	if v := h.validate(&it); !v.Empty() {
		writeViolations(w, r, v)
		return
	}
	if err := h.db.WithContext(r.Context()).Create(&it).Error; err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) find(w http.ResponseWriter, r *http.Request) (*models.Item, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	var it models.Item
	if err := h.db.WithContext(r.Context()).First(&it, id).Error; err != nil {
		writeError(w, r, h.log, err)
		return nil, false
	}
	return &it, true
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if it, ok := h.find(w, r); ok {
		httpx.JSON(w, http.StatusOK, it)
	}
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	it, ok := h.find(w, r)
	if !ok {
		return
	}
	var in itemInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.apply(it)
	if v := h.validate(it); !v.Empty() {
		writeViolations(w, r, v)
		return
	}
	if err := h.db.WithContext(r.Context()).Save(it).Error; err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, it)
}

// deleteItems removes items by id. Quotation lines keep their copied
// description and price; their catalogue reference is cleared.
func (h *ItemHandler) deleteItems(r *http.Request, ids []uint) (int64, error) {
	var deleted int64
	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.QuotationItem{}).Where("item_id IN ?", ids).Update("item_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Item{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.deleteItems(r, []uint{id})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if n == 0 {
		writeError(w, r, h.log, gorm.ErrRecordNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkDelete(w, r)
	if !ok {
		return
	}
	n, err := h.deleteItems(r, ids)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
