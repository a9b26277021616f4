package dto

// PageRequest límite para listados.
type PageRequest struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// DefaultPage aplica el valor por defecto si Limit es cero o negativo.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
