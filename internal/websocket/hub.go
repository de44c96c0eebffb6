package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans per-course progress updates out to open course pages. Each
// subscribed course has one Redis pub/sub subscription shared by all of
// its sockets.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64][]*websocket.Conn
	redisClient *redis.Client
	cancelFuncs map[int64]context.CancelFunc
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		connections: make(map[int64][]*websocket.Conn),
		redisClient: redisClient,
		cancelFuncs: make(map[int64]context.CancelFunc),
	}
}

// HandleWebSocket upgrades GET /ws?course=N. Progress updates carry no
// private data, so the socket itself is unauthenticated.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(r.URL.Query().Get("course"), 10, 64)
	if err != nil || courseID <= 0 {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(courseID, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(courseID, conn)
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(courseID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[courseID] = append(h.connections[courseID], conn)

	// Start pub/sub subscription on the first connection for this course
	if len(h.connections[courseID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[courseID] = cancel
		go h.subscribeToPubSub(ctx, courseID)
	}

	log.Printf("WebSocket connected: course %d (total: %d)", courseID, len(h.connections[courseID]))
}

func (h *Hub) unregisterConnection(courseID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[courseID]
	for i, c := range conns {
		if c == conn {
			h.connections[courseID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	// If no more connections, cancel pub/sub
	if len(h.connections[courseID]) == 0 {
		delete(h.connections, courseID)
		if cancel, ok := h.cancelFuncs[courseID]; ok {
			cancel()
			delete(h.cancelFuncs, courseID)
		}
	}

	log.Printf("WebSocket disconnected: course %d", courseID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, courseID int64) {
	channel := "course_updates:" + strconv.FormatInt(courseID, 10)
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(courseID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(courseID int64, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[courseID] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// SendToCourse sends a message directly to a course's sockets without
// going through Redis.
func (h *Hub) SendToCourse(courseID int64, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(courseID, data)
}
