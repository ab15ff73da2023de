// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams journaled events over websocket as instructions commit.
package subscriptions

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/api/events"
	"github.com/stakefactory/stakefactory/api/utils"
	"github.com/stakefactory/stakefactory/eventdb"
	"github.com/stakefactory/stakefactory/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// events read from the journal per round
	batchSize = 100
)

var logger = log.WithContext("pkg", "subscriptions")

// Committer announces commits. The channel returned is closed on the next one.
type Committer interface {
	Committed() <-chan struct{}
}

type Subscriptions struct {
	journal   *eventdb.EventDB
	committer Committer
	upgrader  *websocket.Upgrader
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(journal *eventdb.EventDB, committer Committer, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		journal:   journal,
		committer: committer,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) parseFilter(ctx context.Context, req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{
		Name:    query.Get("name"),
		Options: &eventdb.Options{Limit: batchSize},
	}
	if v := query.Get("pool"); v != "" {
		id, err := utils.ParseUint(v, 0)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "pool"))
		}
		filter.PoolID = &id
	}
	if v := query.Get("member"); v != "" {
		addr, err := utils.ParseAddress(v, "member")
		if err != nil {
			return nil, err
		}
		filter.Member = &addr
	}

	// without a position, only events committed from now on are sent
	if v := query.Get("after"); v != "" {
		after, err := utils.ParseUint(v, 0)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "after"))
		}
		filter.After = after
	} else {
		last, err := s.journal.LastSeq(ctx)
		if err != nil {
			return nil, err
		}
		filter.After = last
	}
	return filter, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := s.parseFilter(req.Context(), req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug("close websocket", "err", err)
		}
	}()

	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	if err := s.pipe(conn, filter, closed); err != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
			logger.Debug("write close message", "err", err)
		}
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("write close message", "err", err)
	}
	return nil
}

// pipe writes the events matching filter until the peer goes away or the server shuts down.
func (s *Subscriptions) pipe(conn *websocket.Conn, filter *eventdb.Filter, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		// taken before reading, so that a commit in between is not missed
		committed := s.committer.Committed()

		evs, err := s.journal.Filter(ctx, filter)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
				return err
			}
			filter.After = ev.Seq
		}
		if len(evs) == batchSize {
			continue
		}

		select {
		case <-committed:
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close shuts down open subscriptions and waits for them to finish.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("subscriptions_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
