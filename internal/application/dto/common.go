package dto

// DefaultListLimit tamaño de la página que se trae del almacén antes de filtrar en memoria.
const DefaultListLimit = 500

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse mensaje de estado para operaciones exitosas.
type StatusResponse struct {
	Message string `json:"message"`
}
