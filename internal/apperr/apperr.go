// Package apperr defines the closed set of error kinds surfaced by the service
// and their mapping to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return 400
	case KindAuthentication:
		return 401
	case KindAuthorization:
		return 403
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	default:
		return "InternalError"
	}
}

// Code identifies the business rule that failed.
type Code string

const (
	CodeEmptyCart          Code = "EMPTY_CART"
	CodeInvalidLineData    Code = "INVALID_LINE_DATA"
	CodeProductNotFound    Code = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock  Code = "INSUFFICIENT_STOCK"
	CodeSaleNotFound       Code = "SALE_NOT_FOUND"
	CodeMissingFields      Code = "MISSING_FIELDS"
	CodeInvalidPrice       Code = "INVALID_PRICE"
	CodeInvalidQuantity    Code = "INVALID_QUANTITY"
	CodeCodeConflict       Code = "CODE_CONFLICT"
	CodeNoFieldsProvided   Code = "NO_FIELDS_PROVIDED"
	CodeHasDependentSales  Code = "HAS_DEPENDENT_SALES"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidID          Code = "INVALID_ID"
	CodeInvalidBody        Code = "INVALID_BODY"
	CodeInvalidPagination  Code = "INVALID_PAGINATION"
	CodeTokenMissing       Code = "TOKEN_MISSING"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeSessionClosed      Code = "SESSION_CLOSED"
	CodeInvalidCredential  Code = "INVALID_CREDENTIAL"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeForbidden          Code = "FORBIDDEN"
	CodeOnlyAdminRegisters Code = "ONLY_ADMIN_REGISTERS"
	CodeInvalidRole        Code = "INVALID_ROLE"
	CodeInvalidUserData    Code = "INVALID_USER_DATA"
	CodeUsernameConflict   Code = "USERNAME_CONFLICT"
	CodeUserHasSales       Code = "USER_HAS_SALES"
	CodeMissingDate        Code = "MISSING_DATE"
	CodeMissingDates       Code = "MISSING_DATES"
	CodeInvalidDate        Code = "INVALID_DATE"
	CodeNoSalesForDate     Code = "NO_SALES_FOR_DATE"
	CodeInternal           Code = "INTERNAL"
)

// Error is the only error type the service layer returns for expected failures.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same Code, so detailed errors compare equal
// to their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New builds an Error.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// From extracts an *Error from err, if any.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Status returns the HTTP status for err; non-apperr errors are 500.
func Status(err error) int {
	if e, ok := From(err); ok {
		return e.Kind.Status()
	}
	return 500
}

// Sales
var (
	ErrEmptyCart         = New(KindValidation, CodeEmptyCart, "La venta debe incluir al menos un producto")
	ErrInvalidLineData   = New(KindValidation, CodeInvalidLineData, "Datos de producto inválidos")
	ErrProductNotFound   = New(KindNotFound, CodeProductNotFound, "Producto no encontrado")
	ErrInsufficientStock = New(KindValidation, CodeInsufficientStock, "Stock insuficiente")
	ErrSaleNotFound      = New(KindNotFound, CodeSaleNotFound, "Venta no encontrada")
)

// ProductNotFound reports a cart line naming an unknown product.
func ProductNotFound(id uint) *Error {
	return New(KindNotFound, CodeProductNotFound, fmt.Sprintf("Producto con ID %d no encontrado", id))
}

// InsufficientStock reports a cart line asking for more than is on hand.
func InsufficientStock(name string, available, requested int) *Error {
	return New(KindValidation, CodeInsufficientStock,
		fmt.Sprintf("Stock insuficiente para %s. Disponible: %d, Solicitado: %d", name, available, requested))
}

// Catalog
var (
	ErrMissingFields     = New(KindValidation, CodeMissingFields, "Faltan datos obligatorios: codigo, nombre, precio_unitario y cantidad son requeridos")
	ErrInvalidPrice      = New(KindValidation, CodeInvalidPrice, "El precio_unitario debe ser un número mayor o igual a 0")
	ErrInvalidQuantity   = New(KindValidation, CodeInvalidQuantity, "La cantidad debe ser un número entero mayor o igual a 0")
	ErrNoFieldsProvided  = New(KindValidation, CodeNoFieldsProvided, "Debe proporcionar al menos un campo para actualizar")
	ErrCodeConflict      = New(KindConflict, CodeCodeConflict, "El código del producto ya existe")
	ErrHasDependentSales = New(KindConflict, CodeHasDependentSales, "No se puede eliminar el producto porque está asociado a ventas existentes")
	ErrNotFound          = New(KindNotFound, CodeNotFound, "Producto no encontrado")
)

// CodeConflict reports a product code already owned by another row.
func CodeConflict(code string) *Error {
	return New(KindConflict, CodeCodeConflict, fmt.Sprintf("Ya existe un producto con el código: %s", code))
}

// Auth
var (
	ErrTokenMissing       = New(KindAuthentication, CodeTokenMissing, "Token requerido")
	ErrTokenInvalid       = New(KindAuthentication, CodeTokenInvalid, "Token inválido")
	ErrTokenExpired       = New(KindAuthentication, CodeTokenExpired, "Token expirado. Por favor, inicie sesión nuevamente")
	ErrSessionClosed      = New(KindAuthentication, CodeSessionClosed, "Sesión cerrada. Por favor, inicie sesión nuevamente")
	ErrInvalidCredential  = New(KindAuthentication, CodeInvalidCredential, "Contraseña incorrecta")
	ErrLoginUserNotFound  = New(KindAuthentication, CodeUserNotFound, "Usuario no encontrado")
	ErrForbidden          = New(KindAuthorization, CodeForbidden, "No tienes permisos para esta acción")
	ErrOnlyAdminRegisters = New(KindAuthorization, CodeOnlyAdminRegisters, "Solo los administradores pueden crear usuarios")
)

// Users
var (
	ErrMissingUserData  = New(KindValidation, CodeMissingFields, "Faltan datos")
	ErrInvalidRole      = New(KindValidation, CodeInvalidRole, "Rol inválido")
	ErrUserNotFound     = New(KindNotFound, CodeUserNotFound, "Usuario no encontrado")
	ErrUsernameConflict = New(KindConflict, CodeUsernameConflict, "El usuario ya existe")
	ErrUserHasSales     = New(KindConflict, CodeUserHasSales, "No se puede eliminar el usuario porque tiene ventas asociadas")
)

// InvalidUserData wraps a DTO validation failure.
func InvalidUserData(msg string) *Error {
	return New(KindValidation, CodeInvalidUserData, msg)
}

// Reports
var (
	ErrMissingDate    = New(KindValidation, CodeMissingDate, "Debe proporcionar una fecha")
	ErrMissingDates   = New(KindValidation, CodeMissingDates, "Debe proporcionar fecha_inicio y fecha_fin")
	ErrInvalidDate    = New(KindValidation, CodeInvalidDate, "Fecha inválida, use el formato YYYY-MM-DD")
	ErrNoSalesForDate = New(KindNotFound, CodeNoSalesForDate, "No hay ventas para esta fecha")
)

// Transport
var (
	ErrInvalidID         = New(KindValidation, CodeInvalidID, "ID inválido")
	ErrInvalidBody       = New(KindValidation, CodeInvalidBody, "JSON inválido")
	ErrInvalidPagination = New(KindValidation, CodeInvalidPagination, "Parámetros de paginación inválidos")
)
