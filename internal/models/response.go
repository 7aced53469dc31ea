package models

// Response is the canonical single-record envelope of the backend
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ListResponse is the canonical paginated envelope: data is a plain array
type ListResponse[T any] struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// TotalPages returns the number of pages the listing spans
func (p Pagination) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Outcome reports the envelope's success flag and message
func (r Response[T]) Outcome() (bool, string) {
	return r.Success, r.Message
}

func (r ListResponse[T]) Outcome() (bool, string) {
	return r.Success, r.Message
}
