package server

import (
	"sync"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// ConnectionManager tracks live clients by connection id
type ConnectionManager struct {
	clients map[model.ConnID]*Client
	mu      sync.RWMutex
}

// NewConnectionManager creates an empty ConnectionManager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[model.ConnID]*Client),
	}
}

// Add registers a client
func (cm *ConnectionManager) Add(client *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.clients[client.ID()] = client
}

// Remove forgets a client
func (cm *ConnectionManager) Remove(id model.ConnID) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.clients, id)
}

// Get returns the client for id
func (cm *ConnectionManager) Get(id model.ConnID) (*Client, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	client, ok := cm.clients[id]
	return client, ok
}

// Len returns the number of live clients
func (cm *ConnectionManager) Len() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// All returns a snapshot of live clients
func (cm *ConnectionManager) All() []*Client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, c := range cm.clients {
		clients = append(clients, c)
	}
	return clients
}
