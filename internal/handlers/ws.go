package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/store"
	"github.com/taskhub-dev/taskhub/internal/types"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type boardMessage struct {
	Type    string          `json:"type"`
	Project ProjectResponse `json:"project"`
	Tasks   []TaskResponse  `json:"tasks"`
}

// boardConn serializes writes; the ping loop and the snapshot sender share
// the connection.
type boardConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (b *boardConn) writeJSON(v interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return b.conn.WriteJSON(v)
}

func (b *boardConn) ping() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ProjectBoard is a read-only live view of one project's task board. The
// caller must be a member of the project; the snapshot is sent on connect
// and again whenever the client asks with a "refresh" text message. No
// handler pushes into this channel, so mutations stay store-only.
func ProjectBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	project, err := store.ProjectInScope(db.DB, userID, projectID)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	memberships, err := store.MembershipsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to load memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open board"})
		return
	}

	decision := authz.DecideProject(utils.GetPrincipal(ctx), memberships, project.ID)

	if abortForDecision(ctx, decision, true) {
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	board := &boardConn{conn: conn}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	sendSnapshot := func() error {
		tasks, err := store.TasksInProject(db.DB, project.ID)
		if err != nil {
			return err
		}

		response := make([]TaskResponse, 0, len(tasks))
		for _, task := range tasks {
			response = append(response, taskResponse(task))
		}

		return board.writeJSON(boardMessage{
			Type:    "board",
			Project: projectResponse(project),
			Tasks:   response,
		})
	}

	if err := sendSnapshot(); err != nil {
		log.Printf("Failed to send board snapshot: %v", err)
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := board.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}

		if messageType == websocket.TextMessage && string(payload) == "refresh" {
			if err := sendSnapshot(); err != nil {
				log.Printf("Failed to send board snapshot: %v", err)
				return
			}
		}
	}
}
