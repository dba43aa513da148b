package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aleksandergalganski/employee-api/internal/apperror"
	"github.com/aleksandergalganski/employee-api/internal/service"
)

type Handler struct {
	service service.Manager
	logger  *log.Logger
}

func NewHandler(svc service.Manager, logger *log.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 0 || parts[0] != "employees" {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodPost:
			h.handleCreateEmployee(w, r)
		case http.MethodGet:
			h.handleListEmployees(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return

	case len(parts) == 2:
		employeeID, err := parseUintID(parts[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid employee id")
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.handleGetEmployee(w, r, employeeID)
		case http.MethodPut:
			h.handleUpdateEmployee(w, r, employeeID)
		case http.MethodDelete:
			h.handleDeleteEmployee(w, r, employeeID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return

	case len(parts) == 3 && parts[2] == "address":
		employeeID, err := parseUintID(parts[1])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid employee id")
			return
		}

		switch r.Method {
		case http.MethodPost:
			h.handleCreateAddress(w, r, employeeID)
		case http.MethodGet:
			h.handleGetAddress(w, r, employeeID)
		case http.MethodPut:
			h.handleUpdateAddress(w, r, employeeID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	writeError(w, http.StatusNotFound, "route not found")
}

type employeeRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	BirthDate *string `json:"birthDate"`
	Position  string  `json:"position"`
	Salary    *int    `json:"salary"`
}

type addressRequest struct {
	City     string   `json:"city"`
	PostCode string   `json:"postCode"`
	Street   string   `json:"street"`
	Number   looseInt `json:"number"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeEmployeeInput(w, r)
	if !ok {
		return
	}

	employee, err := h.service.CreateEmployee(r.Context(), input)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request, employeeID uint) {
	employee, err := h.service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request, employeeID uint) {
	input, ok := h.decodeEmployeeInput(w, r)
	if !ok {
		return
	}

	employee, err := h.service.UpdateEmployee(r.Context(), employeeID, input)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request, employeeID uint) {
	if err := h.service.DeleteEmployee(r.Context(), employeeID); err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"result": true})
}

func (h *Handler) handleCreateAddress(w http.ResponseWriter, r *http.Request, employeeID uint) {
	input, ok := h.decodeAddressInput(w, r)
	if !ok {
		return
	}

	address, err := h.service.CreateAddress(r.Context(), employeeID, input)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, address)
}

func (h *Handler) handleGetAddress(w http.ResponseWriter, r *http.Request, employeeID uint) {
	address, err := h.service.GetEmployeeAddress(r.Context(), employeeID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, address)
}

func (h *Handler) handleUpdateAddress(w http.ResponseWriter, r *http.Request, employeeID uint) {
	input, ok := h.decodeAddressInput(w, r)
	if !ok {
		return
	}

	address, err := h.service.UpdateEmployeeAddress(r.Context(), employeeID, input)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, address)
}

func (h *Handler) decodeEmployeeInput(w http.ResponseWriter, r *http.Request) (service.EmployeeInput, bool) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return service.EmployeeInput{}, false
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return service.EmployeeInput{}, false
	}

	return service.EmployeeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		BirthDate: birthDate,
		Position:  req.Position,
		Salary:    req.Salary,
	}, true
}

func (h *Handler) decodeAddressInput(w http.ResponseWriter, r *http.Request) (service.AddressInput, bool) {
	var req addressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return service.AddressInput{}, false
	}

	var number *int
	if req.Number.Set {
		number = &req.Number.Value
	}

	return service.AddressInput{
		City:     req.City,
		PostCode: req.PostCode,
		Street:   req.Street,
		Number:   number,
	}, true
}

func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case apperror.CodeNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case apperror.CodeConflict:
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Printf("unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.New("invalid JSON body")
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func parseUintID(raw string) (uint, error) {
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id64), nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}

	value := strings.TrimSpace(*raw)
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.New("birthDate must be in YYYY-MM-DD format")
	}

	return &parsed, nil
}

// looseInt accepts either a JSON number or a numeric JSON string, mirroring
// clients that send street numbers as "42".
type looseInt struct {
	Set   bool
	Value int
}

func (l *looseInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := bytes.Trim(data, `"`)
	value, err := strconv.Atoi(string(raw))
	if err != nil {
		return errors.New("number must be an integer")
	}

	l.Set = true
	l.Value = value
	return nil
}
