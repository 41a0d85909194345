// HTTP adapter over the session boundary: one reservation dialogue per
// session id, state in memory or Redis depending on environment.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
	"github.com/egaillera/reserva-restaurantes/extract"
	"github.com/egaillera/reserva-restaurantes/phrase"
	"github.com/egaillera/reserva-restaurantes/reservation"
	"github.com/egaillera/reserva-restaurantes/session"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

func main() {
	_ = godotenv.Load()
	slog.SetLogLoggerLevel(slog.LevelInfo)

	sess, err := buildSession(context.Background())
	if err != nil {
		log.Fatalf("build session: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	registerRoutes(e, sess)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func buildSession(ctx context.Context) (*session.Session, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   os.Getenv("OPENAI_MODEL"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
	if err != nil {
		return nil, err
	}

	extractor, err := extract.NewToolBasedExtractor(cm)
	if err != nil {
		return nil, err
	}
	phraser := phrase.NewFailbackPhraser(
		phrase.NewToolBasedPhraser(cm),
		&phrase.LocalPhraser{},
	)
	flow, err := session.NewFlow(extractor, phraser)
	if err != nil {
		return nil, err
	}

	var states *session.StateStore
	var history *session.HistoryStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		states = session.NewStateStore(session.NewRedisCache[session.State](client, sessionTTL))
		history = session.NewHistoryStore(session.NewRedisCache[[]*schema.Message](client, sessionTTL), session.LastNTrimmer{N: 100})
		slog.Info("using redis session store", "addr", addr)
	} else {
		states = session.NewMemoryStateStore()
		history = session.NewMemoryHistoryStore(session.LastNTrimmer{N: 100})
		slog.Info("using in-memory session store")
	}

	return session.New(flow, states, history), nil
}

type createSessionRequest struct {
	Seed *reservation.Draft `json:"seed,omitempty"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type submitRequest struct {
	Text string `json:"text"`
}

func registerRoutes(e *echo.Echo, sess *session.Session) {
	e.POST("/sessions", func(c echo.Context) error {
		var req createSessionRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		id := uuid.NewString()
		if req.Seed != nil {
			if err := sess.Seed(c.Request().Context(), id, *req.Seed); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
		return c.JSON(http.StatusCreated, createSessionResponse{SessionID: id})
	})

	e.POST("/sessions/:id/messages", func(c echo.Context) error {
		var req submitRequest
		if err := c.Bind(&req); err != nil || req.Text == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "text is required")
		}
		reply, err := sess.SubmitUtterance(c.Request().Context(), c.Param("id"), req.Text)
		switch {
		case err == nil:
			return c.JSON(http.StatusOK, reply)
		case errors.Is(err, session.ErrSessionComplete):
			return echo.NewHTTPError(http.StatusConflict, session.ErrSessionComplete.Error())
		case errors.Is(err, session.ErrExtractionUnavailable), errors.Is(err, session.ErrPhrasingUnavailable):
			// Nothing was committed; the client can resend the same turn.
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	})

	e.GET("/sessions/:id", func(c echo.Context) error {
		st, err := sess.State(c.Request().Context(), c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, st)
	})

	e.DELETE("/sessions/:id", func(c echo.Context) error {
		if err := sess.End(c.Request().Context(), c.Param("id")); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.NoContent(http.StatusNoContent)
	})
}
