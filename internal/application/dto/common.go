package dto

// ErrorResponse cuerpo de error HTTP. Code es estable para el cliente; Message es para el operario.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
