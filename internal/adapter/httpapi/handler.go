package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/casalivre/listing-service/internal/adapter/httpapi/middleware"
	"github.com/casalivre/listing-service/internal/listing/domain"
	"github.com/casalivre/listing-service/internal/listing/form"
	"github.com/casalivre/listing-service/internal/platform/logger"
)

const maxUploadBytes = 32 << 20

// ListingService is the workflow surface the HTTP layer drives.
type ListingService interface {
	Create(ctx context.Context, ident *domain.Identity, values url.Values, upload *form.Upload) (*domain.Listing, error)
	Update(ctx context.Context, ident *domain.Identity, values url.Values) (*domain.Listing, error)
	Delete(ctx context.Context, ident *domain.Identity, id string) error
	Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Listing, error)
	Dashboard(ctx context.Context, ident *domain.Identity) ([]*domain.Listing, error)
	Detail(ctx context.Context, id string) (*domain.Listing, *domain.Owner, error)
}

type Handler struct {
	service ListingService
	logger  *logger.Logger
}

func NewHandler(service ListingService, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// response is the uniform envelope: a success flag plus a human-readable
// message, with the payload under data.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type listingPayload struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Address      string `json:"address"`
	City         string `json:"city"`
	StateCode    string `json:"state_code"`
	Description  string `json:"description"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	GarageSpaces int    `json:"garage_spaces"`
	TotalArea    string `json:"total_area"`
	BuiltArea    string `json:"built_area"`
	Price        string `json:"price"`
	ImageURL     string `json:"image_url,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ownerPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type detailPayload struct {
	Listing *listingPayload `json:"listing"`
	Owner   *ownerPayload   `json:"owner,omitempty"`
}

func toListingPayload(l *domain.Listing) *listingPayload {
	return &listingPayload{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Address:      l.Address,
		City:         l.City,
		StateCode:    l.StateCode,
		Description:  l.Description,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		GarageSpaces: l.GarageSpaces,
		TotalArea:    l.TotalArea.String(),
		BuiltArea:    l.BuiltArea.String(),
		Price:        l.Price.StringFixed(2),
		ImageURL:     l.ImageURL,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
}

func toListingPayloads(listings []*domain.Listing) []*listingPayload {
	out := make([]*listingPayload, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingPayload(l))
	}
	return out
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())

	values, upload, err := parseListingForm(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	listing, err := h.service.Create(r.Context(), ident, values, upload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response{Success: true, Message: "listing created", Data: toListingPayload(listing)})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())

	values, _, err := parseListingForm(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	values.Set("id", chi.URLParam(r, "id"))

	listing, err := h.service.Update(r.Context(), ident, values)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "listing updated", Data: toListingPayload(listing)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFrom(r.Context())

	if err := h.service.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "listing deleted"})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	filter := domain.SearchFilter{Text: r.URL.Query().Get("q")}
	// An unparseable min_bedrooms is treated as absent, like the original
	// public search form.
	if n, err := strconv.Atoi(r.URL.Query().Get("min_bedrooms")); err == nil && n > 0 {
		filter.MinBedrooms = n
	}

	listings, err := h.service.Search(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Data: toListingPayloads(listings)})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.Dashboard(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Data: toListingPayloads(listings)})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	listing, owner, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload := detailPayload{Listing: toListingPayload(listing)}
	if owner != nil {
		payload.Owner = &ownerPayload{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	h.writeJSON(w, http.StatusOK, response{Success: true, Data: payload})
}

// parseListingForm reads a multipart form into plain values plus the
// optional image blob. The blob stays opaque here; object storage decides
// whether it is acceptable.
func parseListingForm(r *http.Request) (url.Values, *form.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, domain.ErrInvalidInput
	}
	values := url.Values(r.MultipartForm.Value)

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return values, nil, nil
	}
	if err != nil {
		return nil, nil, domain.ErrInvalidInput
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, domain.ErrInvalidInput
	}
	return values, &form.Upload{Filename: header.Filename, Data: data}, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response failed", "error", err.Error())
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var fieldErrs form.Errors
	switch {
	case errors.As(err, &fieldErrs):
		h.writeJSON(w, http.StatusBadRequest, response{Success: false, Message: fieldErrs.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		h.writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, response{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrImageUpload):
		h.writeJSON(w, http.StatusBadGateway, response{Success: false, Message: domain.ErrImageUpload.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.writeJSON(w, http.StatusServiceUnavailable, response{Success: false, Message: domain.ErrStoreUnavailable.Error()})
	default:
		h.logger.Error("unhandled error", "error", err.Error())
		h.writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "internal error"})
	}
}
