package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ironwala/ironwala-api/internal/address"
	"github.com/ironwala/ironwala-api/internal/catalog"
	"github.com/ironwala/ironwala-api/internal/identity"
	"github.com/ironwala/ironwala-api/internal/order"
	"github.com/ironwala/ironwala-api/internal/pricing"
	"github.com/ironwala/ironwala-api/internal/schedule"
)

// Handler exposes the ordering workflow over HTTP: catalog, quotes,
// address resolution and management, order submission and tracking, and
// the thin auth pass-through.
type Handler struct {
	ids       identity.Service
	resolver  *address.Resolver
	addresses address.Repository
	config    pricing.ConfigSource
	orders    *order.Service
}

func NewHandler(
	ids identity.Service,
	resolver *address.Resolver,
	addresses address.Repository,
	config pricing.ConfigSource,
	orders *order.Service,
) *Handler {
	return &Handler{
		ids:       ids,
		resolver:  resolver,
		addresses: addresses,
		config:    config,
		orders:    orders,
	}
}

// --- catalog ---

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	items := catalog.Items()
	out := make([]CatalogItemResponse, len(items))
	for i, it := range items {
		out[i] = mapCatalogItem(it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetBanners(w http.ResponseWriter, r *http.Request) {
	banners := catalog.Banners()
	out := make([]BannerResponse, len(banners))
	for i, b := range banners {
		out[i] = BannerResponse{Icon: b.Icon, Title: b.Title, Description: b.Description}
	}
	writeJSON(w, http.StatusOK, out)
}

// --- pricing ---

// CreateQuote prices a set of quantities. Prices always come from the
// server-side catalog; the client never supplies amounts.
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	lines, err := h.cartLines(req.Items)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cfg, err := h.config.Load(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapQuote(pricing.Compute(lines, cfg)))
}

// --- addresses ---

func (h *Handler) ResolveAddress(w http.ResponseWriter, r *http.Request) {
	var req ResolveAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	var (
		addr address.Address
		err  error
	)
	if req.Coordinate != nil {
		addr, err = h.resolver.ResolveCoordinate(r.Context(), *req.Coordinate)
	} else {
		addr, err = h.resolver.ResolveManual(address.ManualInput{
			Name:   req.Name,
			Street: req.Street,
			City:   req.City,
			State:  req.State,
			Zip:    req.Zip,
		})
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapAddress(addr))
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.addresses.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]AddressResponse, len(addrs))
	for i, a := range addrs {
		out[i] = mapAddress(a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	h.saveAddress(w, r, "")
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "address_id_required", "")
		return
	}
	h.saveAddress(w, r, id)
}

// saveAddress runs the manual entry through the resolver (so a saved
// address passes the same service-area gate as a staged one) and persists
// it: create when id is empty, update otherwise.
func (h *Handler) saveAddress(w http.ResponseWriter, r *http.Request, id string) {
	var req SaveAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	addr, err := h.resolver.ResolveManual(address.ManualInput{
		Name:   req.Name,
		Street: req.Street,
		City:   req.City,
		State:  req.State,
		Zip:    req.Zip,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	addr.ID = id

	saved, err := h.addresses.Save(r.Context(), UserIDFromContext(r.Context()), addr)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, mapAddress(saved))
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "address_id_required", "")
		return
	}
	if err := h.addresses.Delete(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StreamAddresses serves the saved-address list as server-sent events,
// re-sending the full ordered list on every change. The subscription is
// torn down when the client disconnects.
func (h *Handler) StreamAddresses(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "")
		return
	}

	sub, err := h.addresses.Watch(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer sub.Stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case addrs, open := <-sub.Updates():
			if !open {
				return
			}
			out := make([]AddressResponse, len(addrs))
			for i, a := range addrs {
				out[i] = mapAddress(a)
			}
			payload, err := json.Marshal(out)
			if err != nil {
				slog.ErrorContext(r.Context(), "encode address list", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// --- orders ---

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	ctx := r.Context()

	lines, err := h.cartLines(req.Items)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cfg, err := h.config.Load(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	draft := order.DraftFromQuote(pricing.Compute(lines, cfg))

	pickup, err := h.resolver.ResolveManual(address.ManualInput{
		Name:   req.PickupAddress.Name,
		Street: req.PickupAddress.Street,
		City:   req.PickupAddress.City,
		State:  req.PickupAddress.State,
		Zip:    req.PickupAddress.Zip,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var staging address.Staging
	if err := staging.Stage(address.SlotPickup, pickup); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.SameAsPickup {
		staging.SetSameAsPickup(true)
	} else {
		delivery, err := h.resolver.ResolveManual(address.ManualInput{
			Name:   req.DeliveryAddress.Name,
			Street: req.DeliveryAddress.Street,
			City:   req.DeliveryAddress.City,
			State:  req.DeliveryAddress.State,
			Zip:    req.DeliveryAddress.Zip,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if err := staging.Stage(address.SlotDelivery, delivery); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	id, err := h.orders.Submit(
		ctx,
		UserIDFromContext(ctx),
		draft,
		staging.Pickup().OneLine(),
		staging.Delivery().OneLine(),
		schedule.Window{PickupAt: req.PickupAt, DeliveryAt: req.DeliveryAt},
		idempotencyKeyFromContext(ctx),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitOrderResponse{
		ID:     id,
		Status: string(order.StatusPlaced),
		Total:  draft.Total.String(),
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapView(view))
}

// StreamOrders serves the live order view as server-sent events. The
// subscription is torn down when the client disconnects.
func (h *Handler) StreamOrders(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "")
		return
	}

	tracking, err := h.orders.Track(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer tracking.Stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case view, open := <-tracking.Updates():
			if !open {
				return
			}
			payload, err := json.Marshal(mapView(view))
			if err != nil {
				slog.ErrorContext(r.Context(), "encode order view", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// --- auth ---

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.credentials(w, r, h.ids.SignUp)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.credentials(w, r, h.ids.SignIn)
}

func (h *Handler) credentials(
	w http.ResponseWriter,
	r *http.Request,
	call func(ctx context.Context, email, password string) (identity.Session, error),
) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	sess, err := call(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		UserID:       sess.UserID,
		Email:        sess.Email,
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
	})
}

// --- helpers ---

func (h *Handler) cartLines(items []QuoteItemDTO) ([]catalog.Line, error) {
	cart := catalog.NewCart()
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for %q", catalog.ErrUnknownItem, it.Name)
		}
		if err := cart.Adjust(it.Name, it.Quantity); err != nil {
			return nil, err
		}
	}
	return cart.Lines(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

// writeDomainError maps the error taxonomy onto HTTP. Every enumerated
// kind is recoverable: the client corrects input and retries.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNoUser):
		writeError(w, http.StatusUnauthorized, "auth_required", err.Error())
	case errors.Is(err, order.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, "empty_order", err.Error())
	case errors.Is(err, order.ErrIncompleteSchedule), errors.Is(err, schedule.ErrIncompleteWindow):
		writeError(w, http.StatusBadRequest, "incomplete_schedule", err.Error())
	case errors.Is(err, schedule.ErrBeforeMinimum):
		writeError(w, http.StatusBadRequest, "invalid_schedule", err.Error())
	case errors.Is(err, order.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, "duplicate_submission", err.Error())
	case errors.Is(err, order.ErrSubmissionFailed):
		writeError(w, http.StatusBadGateway, "submission_failed", err.Error())
	case errors.Is(err, address.ErrIncompleteForm):
		writeError(w, http.StatusBadRequest, "incomplete_form", err.Error())
	case errors.Is(err, address.ErrOutsideServiceArea):
		writeError(w, http.StatusUnprocessableEntity, "outside_service_area",
			"Sorry, we currently only serve Springfield, IL.")
	case errors.Is(err, address.ErrNoResolution):
		writeError(w, http.StatusUnprocessableEntity, "resolution_failed", err.Error())
	case errors.Is(err, address.ErrDeliveryMirrored):
		writeError(w, http.StatusConflict, "delivery_mirrored", err.Error())
	case errors.Is(err, catalog.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "invalid_item", err.Error())
	case errors.Is(err, identity.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid_email", err.Error())
	case errors.Is(err, identity.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "weak_password", err.Error())
	case errors.Is(err, identity.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, "invalid_credential", err.Error())
	case errors.Is(err, identity.ErrEmailInUse):
		writeError(w, http.StatusConflict, "email_in_use", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
