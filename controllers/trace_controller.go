package controllers

import (
	"net/http"
	"time"

	"github.com/iamkhush/weekly-meals/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type TraceController struct {
	Hub *services.TraceHub
}

func NewTraceController(hub *services.TraceHub) *TraceController {
	return &TraceController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// TracesWS streams suggestion trace events to an external tracing
// collaborator for the authenticated user.
func (tc *TraceController) TracesWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.TraceClient{UserID: uid, Conn: conn}
	tc.Hub.Register(cl)

	// ping to keep connections alive through some proxies
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			close(done)
			tc.Hub.Unregister(cl)
			return
		}
	}
}
