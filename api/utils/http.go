// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/staker/reverts"
)

var logger = log.WithContext("pkg", "api-utils")

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// StatusOf returns the status code an error is responded with.
// Reverts are the caller's fault; anything else is ours.
func StatusOf(err error) int {
	var he *httpError
	if errors.As(err, &he) {
		return he.status
	}
	switch reverts.KindOf(err) {
	case 0:
		return http.StatusInternalServerError
	case reverts.NotFound:
		return http.StatusNotFound
	case reverts.AlreadyExists:
		return http.StatusConflict
	case reverts.Unauthorized:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// The status responded for the error is chosen by StatusOf.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := StatusOf(err)
		if status == http.StatusInternalServerError {
			logger.Debug("all errors should be wrapped in httpError", "err", err)
		}
		http.Error(w, err.Error(), status)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any

// ParseUint parses a decimal path or query value. An empty value yields def.
func ParseUint(s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// ParsePoolID parses the {id} path variable.
func ParsePoolID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

// ParseAddress parses an address path variable, naming it in the error.
func ParseAddress(s, name string) (common.Address, error) {
	addr, err := common.ParseAddress(s)
	if err != nil {
		return common.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}
