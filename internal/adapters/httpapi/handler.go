package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/usecase"
)

type ctxKey string

const (
	adminIDCtxKey    ctxKey = "admin_id"
	restaurantCtxKey ctxKey = "restaurant_id"
	maxJSONBodySize         = 1 << 20
)

type Handler struct {
	auth        *usecase.AuthService
	restaurants *usecase.RestaurantService
	menus       *usecase.MenuService
	orders      *usecase.OrderService
	payments    *usecase.PaymentService
	ratings     *usecase.RatingService
	uploads     *usecase.UploadService
	logger      zerolog.Logger
}

func NewHandler(
	auth *usecase.AuthService,
	restaurants *usecase.RestaurantService,
	menus *usecase.MenuService,
	orders *usecase.OrderService,
	payments *usecase.PaymentService,
	ratings *usecase.RatingService,
	uploads *usecase.UploadService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		restaurants: restaurants,
		menus:       menus,
		orders:      orders,
		payments:    payments,
		ratings:     ratings,
		uploads:     uploads,
		logger:      logger,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)

	r.Post("/adminUsers", h.register)
	r.Post("/adminUsers/login", h.login)

	r.Get("/restaurants/closest", h.closestRestaurants)
	r.Get("/restaurants/{id}", h.getRestaurant)
	r.Get("/menus/{id}", h.getMenu)
	r.Get("/menuSections/{id}", h.getSection)
	r.Get("/menuItems/{id}", h.getItem)
	r.Get("/restaurantTables/{id}", h.getTable)
	r.Get("/restaurants/{id}/tables", h.listTables)
	r.Get("/ratings", h.listRatings)
	r.Post("/ratings", h.createRating)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAdmin)
		pr.Get("/adminUsers/{id}", h.getAdminUser)

		pr.Post("/restaurant/add", h.createRestaurant)
		pr.Put("/restaurants/{id}/update", h.updateRestaurant)
		pr.Delete("/restaurants/{id}", h.deleteRestaurant)
		pr.Put("/restaurants/{id}/paymentSecret", h.setPaymentSecret)

		pr.Post("/menus", h.createMenu)
		pr.Put("/menus/{id}", h.updateMenu)
		pr.Delete("/menus/{id}", h.deleteMenu)
		pr.Post("/menuSections", h.createSection)
		pr.Put("/menuSections/{id}", h.updateSection)
		pr.Delete("/menuSections/{id}", h.deleteSection)
		pr.Post("/menuItems", h.createItem)
		pr.Put("/menuItems/{id}", h.updateItem)
		pr.Delete("/menuItems/{id}", h.deleteItem)
		pr.Post("/restaurantTables", h.createTable)
		pr.Put("/restaurantTables/{id}", h.updateTable)
		pr.Delete("/restaurantTables/{id}", h.deleteTable)

		pr.Post("/apiKeys/create", h.createAPIKey)
		pr.Delete("/apiKeys/{id}", h.revokeAPIKey)
		pr.Post("/uploads/url", h.issueUploadURL)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAPIKey)
		pr.Post("/orders/byrestaurant", h.listOpenOrders)
		pr.Post("/orders/add", h.createOrder)
		pr.Put("/orders/markComplete/{id}", h.markOrderComplete)
		pr.Get("/orders/items/{id}", h.orderItems)
		pr.Post("/payments/checkout", h.createCheckout)
		pr.Get("/payments/session/{id}", h.checkoutSession)
	})

	return r
}

// --- middleware ---

func bearerToken(r *http.Request) (string, bool, bool) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", false, false
	}
	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return "", true, false
	}
	return strings.TrimSpace(auth[7:]), true, true
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, present, wellFormed := bearerToken(r)
		if !present {
			writeError(w, http.StatusUnauthorized, "missing credentials")
			return
		}
		if !wellFormed || token == "" {
			writeError(w, http.StatusUnauthorized, "malformed credentials")
			return
		}

		adminID, err := h.auth.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx := context.WithValue(r.Context(), adminIDCtxKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, present, wellFormed := bearerToken(r)
		if !present {
			writeError(w, http.StatusUnauthorized, "missing credentials")
			return
		}
		if !wellFormed || token == "" {
			writeError(w, http.StatusUnauthorized, "malformed credentials")
			return
		}

		// An optional claimed restaurant narrows the digest scan; it can
		// never widen the resolved scope.
		var claimed int64
		if raw := strings.TrimSpace(r.Header.Get("X-Restaurant-ID")); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusUnauthorized, "malformed credentials")
				return
			}
			claimed = parsed
		}

		restaurantID, err := h.auth.ResolveAPIKey(r.Context(), token, claimed)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			h.logger.Error().Err(err).Msg("resolve api key")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), restaurantCtxKey, restaurantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(adminIDCtxKey).(int64)
	return id
}

func restaurantIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(restaurantCtxKey).(int64)
	return id
}

// --- auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminUserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeBody(w, r, registerSchema, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdminUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, loginSchema, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) getAdminUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	user, err := h.auth.GetUser(r.Context(), adminIDFromContext(r.Context()), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdminUserResponse(user))
}

type apiKeyRequest struct {
	RestaurantID int64 `json:"restaurant_id"`
}

func (h *Handler) createAPIKey(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if !h.decodeBody(w, r, apiKeySchema, &req) {
		return
	}

	restaurant, err := h.restaurants.Get(r.Context(), req.RestaurantID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	if restaurant.OwnerID != adminIDFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "insufficient permission")
		return
	}

	plaintext, key, err := h.auth.CreateAPIKey(r.Context(), req.RestaurantID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	// The plaintext key appears in this response and nowhere else.
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":            key.ID,
		"restaurant_id": key.RestaurantID,
		"api_key":       plaintext,
	})
}

func (h *Handler) revokeAPIKey(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.auth.RevokeAPIKey(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"revoked": revoked})
}

// --- restaurants ---

type restaurantRequest struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	OpeningHour int     `json:"opening_hour"`
	ClosingHour int     `json:"closing_hour"`
	TableCount  int     `json:"table_count"`
}

type restaurantResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	OpeningHour int     `json:"opening_hour"`
	ClosingHour int     `json:"closing_hour"`
	TableCount  int     `json:"table_count"`
	CreatedAt   string  `json:"created_at"`
}

func (req restaurantRequest) toDomain() domain.Restaurant {
	return domain.Restaurant{
		Name: req.Name,
		Location: domain.Coordinate{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		OpeningHour: req.OpeningHour,
		ClosingHour: req.ClosingHour,
		TableCount:  req.TableCount,
	}
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	if !h.decodeBody(w, r, restaurantSchema, &req) {
		return
	}

	restaurant, err := h.restaurants.Create(r.Context(), adminIDFromContext(r.Context()), req.toDomain())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRestaurantResponse(restaurant))
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	restaurant, err := h.restaurants.Get(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantResponse(restaurant))
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req restaurantRequest
	if !h.decodeBody(w, r, restaurantSchema, &req) {
		return
	}

	restaurant, err := h.restaurants.Update(r.Context(), adminIDFromContext(r.Context()), id, req.toDomain())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantResponse(restaurant))
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.restaurants.Delete(r.Context(), adminIDFromContext(r.Context()), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

type paymentSecretRequest struct {
	PaymentSecret string `json:"payment_secret"`
}

func (h *Handler) setPaymentSecret(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req paymentSecretRequest
	if !h.decodeBody(w, r, paymentSecretSchema, &req) {
		return
	}

	if err := h.restaurants.SetPaymentSecret(r.Context(), adminIDFromContext(r.Context()), id, req.PaymentSecret); err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) closestRestaurants(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a number")
		return
	}
	radius := 0.0
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "radius_km must be a number")
			return
		}
	}

	results, err := h.restaurants.Closest(r.Context(), domain.Coordinate{Latitude: lat, Longitude: lon}, radius)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	items := make([]restaurantResponse, 0, len(results))
	for _, restaurant := range results {
		items = append(items, toRestaurantResponse(restaurant))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// --- menus ---

type menuRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	Description  string `json:"description"`
}

type menuResponse struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
}

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	var req menuRequest
	if !h.decodeBody(w, r, menuSchema, &req) {
		return
	}

	menu, err := h.menus.CreateMenu(r.Context(), adminIDFromContext(r.Context()), domain.Menu{
		RestaurantID: req.RestaurantID,
		Description:  req.Description,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuResponse(menu))
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	menu, err := h.menus.GetMenu(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuResponse(menu))
}

func (h *Handler) updateMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req menuRequest
	if !h.decodeBody(w, r, menuSchema, &req) {
		return
	}

	menu, err := h.menus.UpdateMenu(r.Context(), adminIDFromContext(r.Context()), domain.Menu{
		ID:           id,
		RestaurantID: req.RestaurantID,
		Description:  req.Description,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuResponse(menu))
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.menus.DeleteMenu(r.Context(), adminIDFromContext(r.Context()), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

type menuSectionRequest struct {
	MenuID int64  `json:"menu_id"`
	Name   string `json:"name"`
}

type menuSectionResponse struct {
	ID     int64  `json:"id"`
	MenuID int64  `json:"menu_id"`
	Name   string `json:"name"`
}

func (h *Handler) createSection(w http.ResponseWriter, r *http.Request) {
	var req menuSectionRequest
	if !h.decodeBody(w, r, menuSectionSchema, &req) {
		return
	}

	section, err := h.menus.CreateSection(r.Context(), adminIDFromContext(r.Context()), domain.MenuSection{
		MenuID: req.MenuID,
		Name:   req.Name,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSectionResponse(section))
}

func (h *Handler) getSection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	section, err := h.menus.GetSection(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSectionResponse(section))
}

func (h *Handler) updateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req menuSectionRequest
	if !h.decodeBody(w, r, menuSectionSchema, &req) {
		return
	}

	section, err := h.menus.UpdateSection(r.Context(), adminIDFromContext(r.Context()), domain.MenuSection{
		ID:     id,
		MenuID: req.MenuID,
		Name:   req.Name,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSectionResponse(section))
}

func (h *Handler) deleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.menus.DeleteSection(r.Context(), adminIDFromContext(r.Context()), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

type menuItemRequest struct {
	SectionID   int64   `json:"section_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PhotoLink   string  `json:"photo_link"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
}

type menuItemResponse struct {
	ID          int64   `json:"id"`
	SectionID   int64   `json:"section_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PhotoLink   string  `json:"photo_link"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
}

func (req menuItemRequest) toDomain(id int64) domain.MenuItem {
	return domain.MenuItem{
		ID:          id,
		SectionID:   req.SectionID,
		Name:        req.Name,
		Description: req.Description,
		PhotoLink:   req.PhotoLink,
		Price:       req.Price,
		Type:        req.Type,
	}
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !h.decodeBody(w, r, menuItemSchema, &req) {
		return
	}

	item, err := h.menus.CreateItem(r.Context(), adminIDFromContext(r.Context()), req.toDomain(0))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.menus.GetItem(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req menuItemRequest
	if !h.decodeBody(w, r, menuItemSchema, &req) {
		return
	}

	item, err := h.menus.UpdateItem(r.Context(), adminIDFromContext(r.Context()), req.toDomain(id))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.menus.DeleteItem(r.Context(), adminIDFromContext(r.Context()), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// --- tables ---

type tableRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	TableNumber  int    `json:"table_number"`
	Name         string `json:"name"`
}

type tableResponse struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	TableNumber  int    `json:"table_number"`
	Name         string `json:"name"`
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if !h.decodeBody(w, r, tableSchema, &req) {
		return
	}

	table, err := h.menus.CreateTable(r.Context(), adminIDFromContext(r.Context()), domain.RestaurantTable{
		RestaurantID: req.RestaurantID,
		TableNumber:  req.TableNumber,
		Name:         req.Name,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTableResponse(table))
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	table, err := h.menus.GetTable(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(table))
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tables, err := h.menus.ListTables(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	items := make([]tableResponse, 0, len(tables))
	for _, table := range tables {
		items = append(items, toTableResponse(table))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) updateTable(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req tableRequest
	if !h.decodeBody(w, r, tableSchema, &req) {
		return
	}

	table, err := h.menus.UpdateTable(r.Context(), adminIDFromContext(r.Context()), domain.RestaurantTable{
		ID:           id,
		RestaurantID: req.RestaurantID,
		TableNumber:  req.TableNumber,
		Name:         req.Name,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(table))
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.menus.DeleteTable(r.Context(), adminIDFromContext(r.Context()), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// --- ratings ---

type ratingRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	Rating       int    `json:"rating"`
	Text         string `json:"text"`
}

type ratingResponse struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Rating       int    `json:"rating"`
	Text         string `json:"text"`
	CreatedAt    string `json:"created_at"`
}

func (h *Handler) createRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !h.decodeBody(w, r, ratingSchema, &req) {
		return
	}

	rating, err := h.ratings.Create(r.Context(), domain.Rating{
		RestaurantID: req.RestaurantID,
		Rating:       req.Rating,
		Text:         req.Text,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (h *Handler) listRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratings.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	items := make([]ratingResponse, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, toRatingResponse(rating))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// --- uploads ---

type uploadURLRequest struct {
	FileName string `json:"file_name"`
}

func (h *Handler) issueUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if !h.decodeBody(w, r, uploadURLSchema, &req) {
		return
	}

	url, err := h.uploads.IssueUploadURL(r.Context(), req.FileName)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"upload_url": url})
}

// --- orders ---

type orderRequest struct {
	TableID     int64   `json:"table_id"`
	MenuItemIDs []int64 `json:"menu_item_ids"`
	Comment     string  `json:"comment"`
}

type orderItemResponse struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
}

type orderResponse struct {
	ID         int64               `json:"id"`
	TableID    int64               `json:"table_id"`
	Total      float64             `json:"total"`
	IsComplete bool                `json:"is_complete"`
	IsPaid     bool                `json:"is_paid"`
	Comment    string              `json:"comment"`
	CreatedAt  string              `json:"created_at"`
	Items      []orderItemResponse `json:"items,omitempty"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !h.decodeBody(w, r, orderSchema, &req) {
		return
	}

	order, err := h.orders.Create(r.Context(), restaurantIDFromContext(r.Context()), domain.NewOrder{
		TableID:     req.TableID,
		MenuItemIDs: req.MenuItemIDs,
		Comment:     req.Comment,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) listOpenOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID := restaurantIDFromContext(r.Context())
	orders, err := h.orders.ListOpen(r.Context(), restaurantID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	items := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		lines, err := h.orders.ListItems(r.Context(), restaurantID, order.ID)
		if err != nil {
			h.handleDomainError(w, err)
			return
		}
		order.Items = lines
		items = append(items, toOrderResponse(order))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) markOrderComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.orders.MarkComplete(r.Context(), restaurantIDFromContext(r.Context()), id); err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"complete": true})
}

func (h *Handler) orderItems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	items, err := h.orders.ListItems(r.Context(), restaurantIDFromContext(r.Context()), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	result := make([]orderItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, orderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

// --- payments ---

type checkoutRequest struct {
	OrderID int64 `json:"order_id"`
}

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.decodeBody(w, r, checkoutSchema, &req) {
		return
	}

	session, err := h.payments.CreateCheckout(r.Context(), restaurantIDFromContext(r.Context()), req.OrderID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id":   session.ID,
		"checkout_url": session.URL,
		"status":       session.Status,
	})
}

func (h *Handler) checkoutSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	orderID, err := strconv.ParseInt(r.URL.Query().Get("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, http.StatusBadRequest, "order_id must be a positive integer")
		return
	}

	session, err := h.payments.SessionStatus(r.Context(), restaurantIDFromContext(r.Context()), orderID, sessionID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": session.ID,
		"status":     session.Status,
	})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- helpers ---

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, schema *santhosh.Schema, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := schema.Validate(raw); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, strings.Join(leafValidationErrors(ve), "; "))
			return false
		}
		writeError(w, http.StatusBadRequest, "request body does not match schema")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

// leafValidationErrors flattens a validation tree into its leaf messages.
func leafValidationErrors(ve *santhosh.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, leafValidationErrors(cause)...)
	}
	if len(ve.Causes) == 0 {
		msgs = append(msgs, ve.Error())
	}
	return msgs
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// handleDomainError maps sentinel errors to statuses. Anything unmapped is a
// 500 with a generic body; raw error text never reaches the client.
func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "insufficient permission")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrDependency):
		h.logger.Error().Err(err).Msg("upstream dependency failure")
		writeError(w, http.StatusBadGateway, "payment provider unavailable")
	case errors.Is(err, domain.ErrDecryption):
		h.logger.Error().Err(err).Msg("stored secret is not decryptable")
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		h.logger.Error().Err(err).Msg("unhandled service error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toAdminUserResponse(user domain.AdminUser) adminUserResponse {
	return adminUserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRestaurantResponse(restaurant domain.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:          restaurant.ID,
		Name:        restaurant.Name,
		Latitude:    restaurant.Location.Latitude,
		Longitude:   restaurant.Location.Longitude,
		OpeningHour: restaurant.OpeningHour,
		ClosingHour: restaurant.ClosingHour,
		TableCount:  restaurant.TableCount,
		CreatedAt:   restaurant.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toMenuResponse(menu domain.Menu) menuResponse {
	return menuResponse{
		ID:           menu.ID,
		RestaurantID: menu.RestaurantID,
		Description:  menu.Description,
		CreatedAt:    menu.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toSectionResponse(section domain.MenuSection) menuSectionResponse {
	return menuSectionResponse{
		ID:     section.ID,
		MenuID: section.MenuID,
		Name:   section.Name,
	}
}

func toItemResponse(item domain.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          item.ID,
		SectionID:   item.SectionID,
		Name:        item.Name,
		Description: item.Description,
		PhotoLink:   item.PhotoLink,
		Price:       item.Price,
		Type:        item.Type,
	}
}

func toTableResponse(table domain.RestaurantTable) tableResponse {
	return tableResponse{
		ID:           table.ID,
		RestaurantID: table.RestaurantID,
		TableNumber:  table.TableNumber,
		Name:         table.Name,
	}
}

func toRatingResponse(rating domain.Rating) ratingResponse {
	return ratingResponse{
		ID:           rating.ID,
		RestaurantID: rating.RestaurantID,
		Rating:       rating.Rating,
		Text:         rating.Text,
		CreatedAt:    rating.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	resp := orderResponse{
		ID:         order.ID,
		TableID:    order.TableID,
		Total:      order.Total,
		IsComplete: order.IsComplete,
		IsPaid:     order.IsPaid,
		Comment:    order.Comment,
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
		})
	}
	return resp
}
