package ledger

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the ledger operations over HTTP. Marshalling is the only
// concern here; every business outcome arrives from the service as a
// bool/enum and maps onto a status code.
type Handler struct {
	service *Service
}

// NewHandler builds a ledger HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAccount registers a new account.
func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password are required")
	}
	if !h.service.CreateAccount(c.UserContext(), req.Username, req.Password) {
		return fiber.NewError(http.StatusConflict, "username already taken")
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"username": req.Username})
}

// Verify checks credentials, creating the account when unknown.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result := h.service.Verify(c.UserContext(), req.Username, req.Password)
	status := http.StatusOK
	if result == Rejected {
		status = http.StatusUnauthorized
	}
	return c.Status(status).JSON(fiber.Map{"result": result.String()})
}

// Login authenticates without auto-creation and marks the user online.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !h.service.Login(c.UserContext(), req.Username, req.Password) {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}
	return c.SendStatus(http.StatusNoContent)
}

// Logout removes one online entry for the user.
func (h *Handler) Logout(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	h.service.Logout(c.UserContext(), req.Username)
	return c.SendStatus(http.StatusNoContent)
}

// Balances returns the four balances for an account.
func (h *Handler) Balances(c *fiber.Ctx) error {
	username := c.Params("username")
	balances, ok := h.service.Balances(username)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"username": username, "balances": balances})
}

type convertRequest struct {
	Username string  `json:"username"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Amount   float64 `json:"amount"`
}

// Convert exchanges funds between two currencies inside one account.
func (h *Handler) Convert(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !h.service.Convert(c.UserContext(), req.Username, req.From, req.To, req.Amount) {
		return fiber.NewError(http.StatusUnprocessableEntity, "conversion failed")
	}
	balances, _ := h.service.Balances(req.Username)
	return c.Status(http.StatusOK).JSON(fiber.Map{"username": req.Username, "balances": balances})
}

type transferRequest struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// Transfer moves funds between two accounts in one currency.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !h.service.Transfer(c.UserContext(), req.From, req.To, req.Currency, req.Amount) {
		return fiber.NewError(http.StatusUnprocessableEntity, "transfer failed")
	}
	return c.SendStatus(http.StatusOK)
}

// Credit adds funds to one balance of an account.
func (h *Handler) Credit(c *fiber.Ctx) error {
	username := c.Params("username")
	var req struct {
		Currency string  `json:"currency"`
		Amount   float64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !h.service.Credit(c.UserContext(), username, req.Currency, req.Amount) {
		return fiber.NewError(http.StatusUnprocessableEntity, "credit failed")
	}
	return c.SendStatus(http.StatusNoContent)
}

// Rate returns the cached rate for an ordered pair such as USD-GBP.
func (h *Handler) Rate(c *fiber.Ctx) error {
	pair := c.Params("pair")
	return c.Status(http.StatusOK).JSON(fiber.Map{"pair": pair, "rate": h.service.Rate(pair)})
}

// RefreshRates triggers a fetch from the quote source.
func (h *Handler) RefreshRates(c *fiber.Ctx) error {
	if err := h.service.RefreshRates(c.UserContext()); err != nil {
		return fiber.NewError(http.StatusBadGateway, "rate fetch failed")
	}
	return c.SendStatus(http.StatusNoContent)
}

// Online lists currently logged-in users.
func (h *Handler) Online(c *fiber.Ctx) error {
	online, err := h.service.Online(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "session listing failed")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"online": online})
}

// AddRequest queues a transfer offer.
func (h *Handler) AddRequest(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	created, ok := h.service.AddRequest(c.UserContext(), req.From, req.To, req.Currency, req.Amount)
	if !ok {
		return fiber.NewError(http.StatusUnprocessableEntity, "invalid transfer request")
	}
	return c.Status(http.StatusCreated).JSON(created)
}

// OutgoingRequests lists offers made by the user.
func (h *Handler) OutgoingRequests(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"requests": h.service.Outgoing(c.Params("username"))})
}

// IncomingRequests lists offers addressed to the user.
func (h *Handler) IncomingRequests(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"requests": h.service.Incoming(c.Params("username"))})
}

// AcceptRequest settles a pending transfer request.
func (h *Handler) AcceptRequest(c *fiber.Ctx) error {
	if !h.service.AcceptRequest(c.UserContext(), c.Params("id")) {
		return fiber.NewError(http.StatusUnprocessableEntity, "request could not be settled")
	}
	return c.SendStatus(http.StatusOK)
}

// DeclineRequest declines a pending transfer request.
func (h *Handler) DeclineRequest(c *fiber.Ctx) error {
	if !h.service.DeclineRequest(c.Params("id")) {
		return fiber.NewError(http.StatusNotFound, "no pending request with that id")
	}
	return c.SendStatus(http.StatusNoContent)
}
