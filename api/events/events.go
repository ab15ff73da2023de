// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/api/utils"
	"github.com/stakefactory/stakefactory/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{
		Instruction: query.Get("instruction"),
		Name:        query.Get("name"),
	}

	var err error
	if filter.After, err = utils.ParseUint(query.Get("after"), 0); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "after"))
	}
	if s := query.Get("pool"); s != "" {
		id, err := utils.ParseUint(s, 0)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "pool"))
		}
		filter.PoolID = &id
	}
	if s := query.Get("member"); s != "" {
		addr, err := utils.ParseAddress(s, "member")
		if err != nil {
			return nil, err
		}
		filter.Member = &addr
	}
	switch query.Get("order") {
	case "", "asc":
		filter.Order = eventdb.ASC
	case "desc":
		filter.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(errors.New("order: must be asc or desc"))
	}

	offset, err := utils.ParseUint(query.Get("offset"), 0)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if offset > math.MaxInt64 {
		return nil, utils.BadRequest(fmt.Errorf("offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	limit, err := utils.ParseUint(query.Get("limit"), 0)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit > e.limit {
		return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	if limit == 0 {
		// one more than allowed, to detect an oversized result
		limit = e.limit + 1
	}
	filter.Options = &eventdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if len(events) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}

	ret := make([]*Event, len(events))
	for i, ev := range events {
		ret[i] = ConvertEvent(ev)
	}
	return utils.WriteJSON(w, ret)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("events_filter").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
