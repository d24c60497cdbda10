package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-draft-companion/internal/types"
)

// client serializes writes from the reader loop and the snapshot writer.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	log  *zap.Logger
}

func (c *client) write(ctx context.Context, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("encode server message", zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, payload); err != nil {
		c.log.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}
