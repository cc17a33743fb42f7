package handlers

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/commands"
	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

const maxBatchBytes = 64 << 10

type GameHandler struct {
	logger     *logrus.Logger
	store      *store.Store
	tokens     *config.Tokens
	ws         *config.WebSocket
	newRand    func() *rand.Rand
	difficulty mines.Difficulty
	dec        *schema.Decoder
	now        func() time.Time
}

// NewGameHandler serves rounds from s. Each round gets its own random source
// from newRand. Rounds created without a difficulty or mine count use
// difficulty, or medium if that is unset.
func NewGameHandler(
	logger *logrus.Logger,
	s *store.Store,
	tokens *config.Tokens,
	ws *config.WebSocket,
	newRand func() *rand.Rand,
	difficulty mines.Difficulty,
) *GameHandler {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	if difficulty == 0 {
		difficulty = mines.Medium
	}

	handler := &GameHandler{
		logger:     logger,
		store:      s,
		tokens:     tokens,
		ws:         ws,
		newRand:    newRand,
		difficulty: difficulty,
		dec:        dec,
		now:        time.Now,
	}

	return handler
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeQuery[CreateRoundDTO](g.dec, r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	params, err := dto.Params(g.difficulty)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	round, err := mines.NewRound(params, g.newRand())
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	session, err := g.store.Create(round)
	if err != nil {
		sendErrorOrLog(w, g.logger, fmt.Errorf("unable to store round: %w", err))
		return
	}
	token, err := g.tokens.Sign(session.ID)
	if err != nil {
		g.store.Delete(session.ID)
		sendErrorOrLog(w, g.logger, fmt.Errorf("unable to sign round token: %w", err))
		return
	}

	session.Lock()
	res := CreatedRoundDTO{RoundDTO: NewRoundDTO(session), Token: token}
	session.Unlock()

	sendJSONOrLog(w, g.logger, http.StatusCreated, res)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	session.Lock()
	res := NewRoundDTO(session)
	session.Unlock()

	sendJSONOrLog(w, g.logger, http.StatusOK, res)
}

// authorize finds the session named in the path and checks that the request
// carries a token issued for it.
func (g GameHandler) authorize(r *http.Request) (*store.Session, error) {
	id := r.PathValue("id")
	session, err := g.store.Get(id)
	if err != nil {
		return nil, err
	}
	claims, ok := middleware.RoundClaims(r.Context())
	if !ok {
		return nil, ErrUnauthorized
	}
	if claims.SessionID != id {
		return nil, ErrForbidden
	}
	return session, nil
}

// apply runs move against a copy of the session's round and keeps the copy
// only if move succeeds, so a failed move leaves the round untouched.
func (g GameHandler) apply(session *store.Session, move func(*mines.Round) error) (*RoundDTO, error) {
	session.Lock()
	defer session.Unlock()

	round := session.Round.Clone()
	if err := move(round); err != nil {
		return nil, err
	}
	session.Round = round
	session.Sync(g.now())
	g.store.Touch(session)

	if session.Round.Status().Over() {
		g.logger.WithFields(logrus.Fields{
			"session_id": session.ID,
			"status":     session.Round.Status(),
		}).Debug("round over")
	}
	return NewRoundDTO(session), nil
}

func (g GameHandler) move(w http.ResponseWriter, r *http.Request, move func(*mines.Round) error) {
	session, err := g.authorize(r)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	res, err := g.apply(session, move)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, res)
}

func (g GameHandler) position(w http.ResponseWriter, r *http.Request) (mines.Point, bool) {
	dto, err := decodeQuery[PositionDTO](g.dec, r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return mines.Point{}, false
	}
	return mines.Point(dto), true
}

func (g GameHandler) Open(w http.ResponseWriter, r *http.Request) {
	p, ok := g.position(w, r)
	if !ok {
		return
	}
	g.move(w, r, func(round *mines.Round) error {
		_, err := round.Open(p)
		return err
	})
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	p, ok := g.position(w, r)
	if !ok {
		return
	}
	g.move(w, r, func(round *mines.Round) error {
		return round.ToggleFlag(p)
	})
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, func(round *mines.Round) error {
		round.Forfeit()
		return nil
	})
}

// Batch runs newline separated commands from the request body. Either every
// command applies or none does.
func (g GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBatchBytes))
	if err != nil {
		sendJSONOrLog(w, g.logger, http.StatusRequestEntityTooLarge, wrapError(err))
		return
	}
	cmds, err := commands.ParseAll(string(body))
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}
	g.move(w, r, func(round *mines.Round) error {
		return commands.ExecuteAll(round, cmds)
	})
}

// ConnectWS streams commands over a websocket. Every text frame is run as a
// batch and answered with the round, or with an error object when the batch
// is rejected.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, err := g.authorize(r)
	if err != nil {
		sendErrorOrLog(w, g.logger, err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Warn("unable to upgrade")
		return
	}
	defer c.Close()
	c.SetReadLimit(g.ws.ReadLimit)

	log := g.logger.WithField("session_id", session.ID)
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
				websocket.CloseUnsupportedData, "text frames only",
			))
			break
		}
		log.Debugf("\t> %q", message)

		var res any
		cmds, err := commands.ParseAll(string(message))
		if err == nil {
			res, err = g.apply(session, func(round *mines.Round) error {
				return commands.ExecuteAll(round, cmds)
			})
		}
		if err != nil {
			if statusOf(err) == http.StatusInternalServerError {
				log.WithError(err).Error("unable to run commands")
			}
			res = wrapError(err)
		}

		if err := c.WriteJSON(res); err != nil {
			log.WithError(err).Warn("unable to write json")
			break
		}
	}
}

type StatusDTO struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (g GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.logger, http.StatusOK, StatusDTO{
		Status:   "ok",
		Sessions: g.store.Count(),
	})
}
