package controller

import (
	"log"

	"github.com/gofiber/websocket/v2"

	"pipedesk/lead"
)

// HandleLeadStreamWS streams lead snapshots to the console over a
// websocket: the current snapshot on connect, then the full set again on
// every store change, mirroring the subscription's wholesale-push contract.
func HandleLeadStreamWS(cache *lead.Cache, hub *lead.Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		updates := hub.Subscribe()
		defer hub.Unsubscribe(updates)

		if err := c.WriteJSON(cache.Leads()); err != nil {
			log.Printf("Error writing JSON: %v", err)
			return
		}

		for leads := range updates {
			if err := c.WriteJSON(leads); err != nil {
				log.Printf("Error writing JSON: %v", err)
				return
			}
		}
	}
}
