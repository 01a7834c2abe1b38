package routes

import (
	"encoding/json"
	"net/http"
	"sage/sage/config"
	"sage/sage/controllers"
	"sage/sage/middlewares"
	"sage/sage/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

func SageRoutes(ctrl *controllers.SageController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /sage/message : run one turn. Failures are delivered through
		// the same 200-status envelope so the client RPC layer can always
		// read the body.
		gr.Post("/message", func(w http.ResponseWriter, r *http.Request) {
			var req types.TurnRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeEnvelopeError(w, "bad_request", err.Error())
				return
			}
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			resp, err := ctrl.HandleTurn(r.Context(), userID, req)
			if err != nil {
				writeEnvelopeError(w, "turn_failed", err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		})

		// GET /sage/sessions : list all user's sessions (threads)
		gr.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			sessions, err := ctrl.ListSessions(r.Context(), userID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(sessions)
		})

		// GET /sage/session/{session_id}/messages : all messages for a session
		gr.Get("/session/{session_id}/messages", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			sessionID := chi.URLParam(r, "session_id")
			msgs, err := ctrl.GetMessagesForSession(r.Context(), userID, sessionID)
			if err != nil {
				if err == controllers.ErrForbiddenSession {
					http.Error(w, err.Error(), http.StatusNotFound)
				} else {
					http.Error(w, err.Error(), http.StatusInternalServerError)
				}
				return
			}
			json.NewEncoder(w).Encode(msgs)
		})
	})

	// GET /sage/ws : one turn per connection with stage events, then the
	// final envelope. Token travels in the first frame.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token       string            `json:"token"`
			TurnRequest types.TurnRequest `json:"turn_request"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		userID, ok := middlewares.ParseUserToken(input.Token, cfg.JWTSecret)
		if !ok {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		progress := func(stage string) {
			event, _ := json.Marshal(map[string]string{"type": "stage", "message": stage})
			conn.Write(ctx, websocket.MessageText, event)
		}
		resp, err := ctrl.HandleTurnWithProgress(ctx, userID, input.TurnRequest, progress)
		if err != nil {
			event, _ := json.Marshal(map[string]string{"type": "error", "message": err.Error()})
			conn.Write(ctx, websocket.MessageText, event)
			conn.Close(websocket.StatusInternalError, "turn error")
			return
		}
		event, _ := json.Marshal(map[string]interface{}{"type": "result", "payload": resp})
		conn.Write(ctx, websocket.MessageText, event)
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return r
}

func writeEnvelopeError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(types.ErrorResponse{Error: code, Message: message})
}
