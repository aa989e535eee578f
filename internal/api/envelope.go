package api

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/therapytips/tipsgen/internal/model"
)

// envelope is the wire shape shared by every content API response.
type envelope[T any] struct {
	Success    bool              `json:"success"`
	Data       *T                `json:"data"`
	Message    string            `json:"message"`
	Pagination *model.Pagination `json:"pagination"`
}

// Result is a decoded response: either a value or the server's failure message.
type Result[T any] struct {
	value      T
	pagination *model.Pagination
	message    string
	ok         bool
}

// Ok reports whether the response carried data.
func (r Result[T]) Ok() bool {
	return r.ok
}

// Value returns the payload. It is the zero value unless Ok is true.
func (r Result[T]) Value() T {
	return r.value
}

// Pagination returns paging metadata when the server sent any.
func (r Result[T]) Pagination() *model.Pagination {
	return r.pagination
}

// Message is the server-supplied failure message, if any.
func (r Result[T]) Message() string {
	return r.message
}

// errMissingData marks a success envelope without a data field.
var errMissingData = errors.New("response has no data")

// decodeResult reads one envelope from body. Malformed JSON is an error;
// a well-formed failure envelope is a Result that is not Ok.
func decodeResult[T any](body io.Reader) (Result[T], error) {
	var env envelope[T]
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return Result[T]{}, err
	}
	if !env.Success {
		return Result[T]{message: env.Message}, nil
	}
	if env.Data == nil {
		return Result[T]{message: env.Message}, errMissingData
	}
	return Result[T]{
		value:      *env.Data,
		pagination: env.Pagination,
		message:    env.Message,
		ok:         true,
	}, nil
}
