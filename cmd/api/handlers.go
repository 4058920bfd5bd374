package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"storefront/pkg/cart"
	"storefront/pkg/checkout"
	"storefront/pkg/menu"
	"storefront/pkg/otel"
	"storefront/pkg/pricing"
)

type ctxKey int

const sessionKey ctxKey = 1

func sessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionKey).(string)
	return sid
}

// sessionMiddleware resolves the browsing session cookie against redis.
// There is no authentication; a session only scopes a cart.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			http.Error(w, "no active session", http.StatusUnauthorized)
			return
		}
		ok, err := redisClient.Expire(r.Context(), "session:"+c.Value, sessionTTL).Result()
		if err != nil || !ok {
			// the cart's lifetime is the session's
			carts.Drop(c.Value)
			checkouts.Drop(c.Value)
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, c.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// startSessionHandler begins a browsing session.
// @Summary Start session
// @Description Issues the session cookie that scopes a cart
// @Produce json
// @Success 201
// @Router /session [post]
func startSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "startSessionHandler")
	defer span.End()

	sid := uuid.NewString()
	if err := redisClient.Set(ctx, "session:"+sid, "1", sessionTTL).Err(); err != nil {
		log.Error(ctx, "create session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: sid, Path: "/", HttpOnly: true})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"sessionId": sid})
}

type categoryGroup struct {
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Items []menu.Item `json:"items"`
}

type menuResponse struct {
	Items      []menu.Item     `json:"items"`
	Categories []categoryGroup `json:"categories"`
}

// menuHandler returns the menu grouped by category.
// @Summary Menu view
// @Produce json
// @Success 200 {object} menuResponse
// @Failure 502
// @Router /menu [get]
func menuHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "menuHandler")
	defer span.End()

	items, err := menuSource.List(ctx)
	if err != nil {
		log.Error(ctx, "list menu", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"error": "menu unavailable", "retryable": true})
		return
	}
	for i := range items {
		items[i] = menu.Normalize(items[i])
	}
	groups, names := menu.GroupByCategory(items)
	resp := menuResponse{Items: items, Categories: make([]categoryGroup, 0, len(names))}
	for _, name := range names {
		resp.Categories = append(resp.Categories, categoryGroup{Name: name, Count: len(groups[name]), Items: groups[name]})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type cartResponse struct {
	Items     []cart.Line   `json:"items"`
	ItemCount int           `json:"itemCount"`
	UnitCount int           `json:"unitCount"`
	Quote     pricing.Quote `json:"quote"`
}

func writeCart(w http.ResponseWriter, status int, c *cart.Cart, f *checkout.Flow) {
	resp := cartResponse{
		Items:     c.Lines(),
		ItemCount: c.ItemCount(),
		UnitCount: c.UnitCount(),
		Quote:     f.Quote().Rounded(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// cartHandler returns the session's cart with its priced quote.
// @Summary Cart view
// @Produce json
// @Success 200 {object} cartResponse
// @Router /cart [get]
func cartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "cartHandler")
	defer span.End()

	sid := sessionID(ctx)
	writeCart(w, http.StatusOK, carts.Get(sid), checkouts.Flow(sid))
}

type addItemRequest struct {
	ID string `json:"id"`
}

// addCartItemHandler adds a menu item to the cart, merging with an
// existing line.
// @Summary Add to cart
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Menu item id"
// @Success 201 {object} cartResponse
// @Failure 404
// @Router /cart/items [post]
func addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addCartItemHandler")
	defer span.End()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, "item id required", http.StatusBadRequest)
		return
	}
	items, err := menuSource.List(ctx)
	if err != nil {
		log.Error(ctx, "list menu", "error", err)
		http.Error(w, "menu unavailable", http.StatusBadGateway)
		return
	}
	var found *menu.Item
	for i := range items {
		if items[i].ID == req.ID {
			found = &items[i]
			break
		}
	}
	if found == nil {
		http.NotFound(w, r)
		return
	}

	sid := sessionID(ctx)
	c := carts.Get(sid)
	c.AddItem(menu.Normalize(*found))
	writeCart(w, http.StatusCreated, c, checkouts.Flow(sid))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// setQuantityHandler sets a line's quantity; zero or less removes it.
// @Summary Change quantity
// @Accept json
// @Produce json
// @Param id path string true "Line id"
// @Param body body setQuantityRequest true "New quantity"
// @Success 200 {object} cartResponse
// @Router /cart/items/{id} [put]
func setQuantityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "setQuantityHandler")
	defer span.End()

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sid := sessionID(ctx)
	c := carts.Get(sid)
	c.SetQuantity(mux.Vars(r)["id"], req.Quantity)
	writeCart(w, http.StatusOK, c, checkouts.Flow(sid))
}

// removeCartItemHandler removes a line. Removing an absent line succeeds.
// @Summary Remove from cart
// @Produce json
// @Param id path string true "Line id"
// @Success 200 {object} cartResponse
// @Router /cart/items/{id} [delete]
func removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeCartItemHandler")
	defer span.End()

	sid := sessionID(ctx)
	c := carts.Get(sid)
	c.RemoveItem(mux.Vars(r)["id"])
	writeCart(w, http.StatusOK, c, checkouts.Flow(sid))
}

type confirmationDisplay struct {
	Total             string `json:"total"`
	PlacedAt          string `json:"placedAt"`
	EstimatedDelivery string `json:"estimatedDelivery"`
	DeliveryWindow    string `json:"deliveryWindow"`
}

type confirmationResponse struct {
	OrderNumber string              `json:"orderNumber"`
	Status      string              `json:"status"`
	Display     confirmationDisplay `json:"display"`
}

// checkoutHandler submits the cart as an order.
// @Summary Place order
// @Accept json
// @Produce json
// @Param request body checkout.Request true "Delivery details and payment method"
// @Success 201 {object} confirmationResponse
// @Failure 409 "empty cart or submission already running"
// @Failure 422 "field validation errors"
// @Failure 502 "order store unavailable"
// @Router /checkout [post]
func checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkoutHandler")
	defer span.End()

	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sid := sessionID(ctx)
	o, err := checkouts.Flow(sid).Submit(ctx, req)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		var fieldErrs checkout.FieldErrors
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "cart is empty", "redirect": "/cart"})
		case errors.Is(err, checkout.ErrSubmitInFlight), errors.Is(err, checkout.ErrAlreadyConfirmed):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		case errors.As(err, &fieldErrs):
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{"errors": fieldErrs})
		default:
			log.Error(ctx, "submit order", "error", err)
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": checkout.SubmitFailedMessage})
		}
		return
	}

	log.Info(ctx, "order placed", "orderNumber", o.Number, "total", o.Total.String())
	resp := confirmationResponse{
		OrderNumber: o.Number,
		Status:      o.Status,
		Display: confirmationDisplay{
			Total:             pricing.FormatPrice(pricing.Round2(o.Total)),
			PlacedAt:          pricing.FormatDate(o.CreatedAt),
			EstimatedDelivery: pricing.FormatDate(o.EstimatedDelivery),
			DeliveryWindow:    pricing.DeliveryETA(15).Display(),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}
